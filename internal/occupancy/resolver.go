package occupancy

import "github.com/vovakirdan/snakes-foxes/internal/board"

// Resolver answers blocking and legal-move questions against a board and the
// current piece positions. It never mutates the pieces.
type Resolver struct {
	board     *board.Board
	pieces    *Pieces
	exclude   PieceRef
	excluding bool
}

// NewResolver creates a resolver over b and p.
func NewResolver(b *board.Board, p *Pieces) Resolver {
	return Resolver{board: b, pieces: p}
}

// Excluding returns a view of the resolver that ignores one piece, as if it
// had been lifted off the board.
func (r Resolver) Excluding(ref PieceRef) Resolver {
	r.exclude = ref
	r.excluding = true
	return r
}

func (r Resolver) skip(kind Kind, index int) bool {
	return r.excluding && r.exclude.Kind == kind && r.exclude.Index == index
}

// enemyAt reports whether a fox or snake stands on n.
func (r Resolver) enemyAt(n board.Node) bool {
	for i, at := range r.pieces.Foxes {
		if at == n && !r.skip(KindFox, i) {
			return true
		}
	}
	for i, at := range r.pieces.Snakes {
		if at == n && !r.skip(KindSnake, i) {
			return true
		}
	}
	return false
}

// playerAt reports whether a player token stands on n.
func (r Resolver) playerAt(n board.Node) bool {
	for seat, at := range r.pieces.Players {
		if at == n && !r.skip(KindPlayer, seat) {
			return true
		}
	}
	return false
}

// IsBlocked reports whether a piece standing on from may not enter n.
//
// The center is blocked only by a fox or snake. Elsewhere, a node holding a
// fox, snake or player token is blocked unless it is the mover's own node.
func (r Resolver) IsBlocked(n, from board.Node) bool {
	if n.IsCenter() {
		return r.enemyAt(n)
	}
	if r.enemyAt(n) {
		return from != n
	}
	if r.playerAt(n) {
		return from != n
	}
	return false
}

// open reports whether n is unblocked or is the previous node, which a token
// may always step back onto.
func (r Resolver) open(n, from, previous board.Node) bool {
	return n == previous || !r.IsBlocked(n, from)
}

// outerEntryOpen decides whether a player may step onto an outer-ring node.
// Only other players and enemies keep it out; the previous node is always
// admitted.
func (r Resolver) outerEntryOpen(n, from, previous board.Node) bool {
	if n == previous {
		return true
	}
	return !(n != from && r.playerAt(n)) && !r.enemyAt(n)
}

// LegalMoves enumerates the destinations a piece on from may reach with a
// roll of steps. Candidates are listed same-ring first, then inward, then
// outward. previous may be board.None.
func (r Resolver) LegalMoves(from board.Node, steps int, player bool, previous board.Node) []board.Node {
	b := r.board
	var moves []board.Node

	if from.IsCenter() {
		if steps != 1 {
			return nil
		}
		for _, n := range b.Ring(1) {
			if r.open(n, from, previous) {
				moves = append(moves, n)
			}
		}
		return moves
	}

	if player && b.IsOuter(from) {
		if steps > 1 {
			if n := b.Step(from, steps); r.open(n, from, previous) {
				moves = append(moves, n)
			}
			return moves
		}
		if n := b.Next(from); r.open(n, from, previous) {
			moves = append(moves, n)
		}
		if !previous.IsNone() && !contains(moves, previous) {
			moves = append(moves, previous)
		}
		if n, ok := b.Inward(from); ok && !contains(moves, n) && r.open(n, from, previous) {
			moves = append(moves, n)
		}
		return moves
	}

	if n := b.Step(from, steps); r.open(n, from, previous) {
		moves = append(moves, n)
	}
	if steps != 1 {
		return moves
	}
	return r.radial(moves, from, player, previous)
}

// ConnectedNodes lists the one-hop destinations of a piece on from,
// independent of any roll. It is the edge set used for pursuit and for the
// moves a token may actually make.
func (r Resolver) ConnectedNodes(from board.Node, player bool, previous board.Node) []board.Node {
	b := r.board
	var nodes []board.Node

	if from.IsCenter() {
		for _, n := range b.Ring(1) {
			if r.open(n, from, previous) {
				nodes = append(nodes, n)
			}
		}
		return nodes
	}

	if player && b.IsOuter(from) {
		next := b.Next(from)
		if !(next != from && r.playerAt(next)) && !r.enemyAt(next) {
			nodes = append(nodes, next)
		}
		if !previous.IsNone() && !contains(nodes, previous) {
			nodes = append(nodes, previous)
		}
		if n, ok := b.Inward(from); ok && !contains(nodes, n) && r.open(n, from, previous) {
			nodes = append(nodes, n)
		}
		return nodes
	}

	if n := b.Next(from); r.open(n, from, previous) {
		nodes = append(nodes, n)
	}
	return r.radial(nodes, from, player, previous)
}

// radial appends the inward and outward neighbors of from when they may be
// entered.
func (r Resolver) radial(nodes []board.Node, from board.Node, player bool, previous board.Node) []board.Node {
	b := r.board
	if n, ok := b.Inward(from); ok && r.open(n, from, previous) {
		nodes = append(nodes, n)
	}
	if n, ok := b.Outward(from); ok {
		if player && b.IsOuter(n) {
			if r.outerEntryOpen(n, from, previous) {
				nodes = append(nodes, n)
			}
		} else if r.open(n, from, previous) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func contains(nodes []board.Node, n board.Node) bool {
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}

// Package occupancy tracks where every piece stands and decides which
// destinations a moving piece may legally reach.
package occupancy

import (
	"sort"

	"github.com/vovakirdan/snakes-foxes/internal/board"
)

// Kind identifies a family of pieces.
type Kind int

const (
	KindPlayer Kind = iota
	KindFox
	KindSnake
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindFox:
		return "fox"
	case KindSnake:
		return "snake"
	default:
		return "unknown"
	}
}

// PieceRef names one piece: a player seat or an index into the fox or
// snake collection.
type PieceRef struct {
	Kind  Kind
	Index int
}

// Pieces holds the three piece-position collections of one game.
// Players maps seat to node and lists active tokens only.
type Pieces struct {
	Players map[int]board.Node
	Foxes   []board.Node
	Snakes  []board.Node
}

// NewPieces returns collections with foxes and snakes at their starting
// outer-ring positions and no players placed.
func NewPieces(b *board.Board) *Pieces {
	return &Pieces{
		Players: make(map[int]board.Node),
		Foxes:   InitialFoxes(b),
		Snakes:  InitialSnakes(b),
	}
}

// InitialFoxes returns the starting fox positions: every odd outer node.
func InitialFoxes(b *board.Board) []board.Node {
	return outerNodes(b, 1)
}

// InitialSnakes returns the starting snake positions: every even outer node.
func InitialSnakes(b *board.Board) []board.Node {
	return outerNodes(b, 0)
}

func outerNodes(b *board.Board, parity int) []board.Node {
	var nodes []board.Node
	for _, n := range b.Ring(b.Outermost()) {
		if n.Pos%2 == parity {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Reset returns foxes and snakes to their starting positions and removes
// every player token.
func (p *Pieces) Reset(b *board.Board) {
	p.Players = make(map[int]board.Node)
	p.Foxes = InitialFoxes(b)
	p.Snakes = InitialSnakes(b)
}

// Enemies returns the fox or snake collection for kind.
func (p *Pieces) Enemies(kind Kind) []board.Node {
	switch kind {
	case KindFox:
		return p.Foxes
	case KindSnake:
		return p.Snakes
	default:
		return nil
	}
}

// At returns the node of the referenced piece, or board.None if it is not
// on the board.
func (p *Pieces) At(ref PieceRef) board.Node {
	if ref.Kind == KindPlayer {
		if n, ok := p.Players[ref.Index]; ok {
			return n
		}
		return board.None
	}
	nodes := p.Enemies(ref.Kind)
	if ref.Index < 0 || ref.Index >= len(nodes) {
		return board.None
	}
	return nodes[ref.Index]
}

// Move places the referenced piece on n.
func (p *Pieces) Move(ref PieceRef, n board.Node) {
	switch ref.Kind {
	case KindPlayer:
		if p.Players == nil {
			p.Players = make(map[int]board.Node)
		}
		p.Players[ref.Index] = n
	case KindFox:
		if ref.Index >= 0 && ref.Index < len(p.Foxes) {
			p.Foxes[ref.Index] = n
		}
	case KindSnake:
		if ref.Index >= 0 && ref.Index < len(p.Snakes) {
			p.Snakes[ref.Index] = n
		}
	}
}

// RemovePlayer takes a player token off the board.
func (p *Pieces) RemovePlayer(seat int) {
	delete(p.Players, seat)
}

// PlayersAt returns the seats of every player token on n in ascending order.
func (p *Pieces) PlayersAt(n board.Node) []int {
	var seats []int
	for seat, at := range p.Players {
		if at == n {
			seats = append(seats, seat)
		}
	}
	sort.Ints(seats)
	return seats
}

// Clone returns an independent copy of the collections.
func (p *Pieces) Clone() *Pieces {
	c := &Pieces{
		Players: make(map[int]board.Node, len(p.Players)),
		Foxes:   append([]board.Node(nil), p.Foxes...),
		Snakes:  append([]board.Node(nil), p.Snakes...),
	}
	for seat, n := range p.Players {
		c.Players[seat] = n
	}
	return c
}

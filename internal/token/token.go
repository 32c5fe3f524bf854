// Package token holds the per-player token state: where it stands, where it
// came from, whether it has reached the outer ring, and how many pieces it
// has left.
package token

import "github.com/vovakirdan/snakes-foxes/internal/board"

// DefaultPieces is the piece count a token starts with.
const DefaultPieces = 2

// Token is one player's piece on the board.
type Token struct {
	Seat         int
	Node         board.Node
	Previous     board.Node
	VisitedOuter bool
	Pieces       int
	Active       bool
	Turns        int

	startPieces int
	outer       int
}

// New creates a token for seat at the center of b.
func New(seat int, b *board.Board, pieces int) *Token {
	if pieces <= 0 {
		pieces = DefaultPieces
	}
	t := &Token{
		Seat:        seat,
		startPieces: pieces,
		outer:       b.Outermost(),
	}
	t.Reset()
	return t
}

// Reset returns the token to the center with its flags cleared, its pieces
// restored and its turn counter zeroed.
func (t *Token) Reset() {
	t.Node = board.Node{Ring: 0, Pos: 0}
	t.Previous = board.None
	t.VisitedOuter = false
	t.Pieces = t.startPieces
	t.Active = true
	t.Turns = 0
}

// MoveTo records a hop to n. The previous node becomes the one just left.
func (t *Token) MoveTo(n board.Node) {
	t.Previous = t.Node
	t.Node = n
	if n.Ring == t.outer {
		t.VisitedOuter = true
	}
}

// Arrive completes a hop: the turn counter advances and the node's warp
// effect is applied. A warp that would carry the token off the outer ring is
// only honored when warp is true.
func (t *Token) Arrive(b *board.Board, warp bool) {
	t.Turns++
	if b.IsOuter(t.Node) {
		t.VisitedOuter = true
	}
	target := b.ApplyEffect(t.Node)
	if target == t.Node {
		return
	}
	if b.IsOuter(t.Node) && !b.IsOuter(target) && !warp {
		return
	}
	t.Node = target
}

// LosePiece removes one piece. A hit takes the token out of play at once,
// even with pieces to spare. It reports whether no pieces remain.
func (t *Token) LosePiece() bool {
	t.Pieces--
	t.Active = false
	return t.Pieces <= 0
}

// CanWin reports whether the token has touched the outer ring and is back
// at the center.
func (t *Token) CanWin() bool {
	return t.VisitedOuter && t.Node.IsCenter()
}

// Package board models the ring topology of the game: a single center node
// surrounded by concentric rings of equally many nodes. Each ring rotates in
// a fixed direction, rings are joined radially at equal positions, and the
// outermost ring carries static warp effects.
//
// The board is immutable after construction. Piece positions live elsewhere
// (see package occupancy); the board only answers topology questions.
package board

import (
	"errors"
	"fmt"
)

// Default board dimensions.
const (
	DefaultRings        = 6
	DefaultNodesPerRing = 10
)

// Node is the logical identity of a board position.
// Ring 0 is the center and always has Pos 0.
type Node struct {
	Ring int
	Pos  int
}

// None is returned where a lookup has no node to yield.
var None = Node{Ring: -1, Pos: -1}

// IsNone reports whether n is the "no such node" value.
func (n Node) IsNone() bool {
	return n.Ring < 0
}

// IsCenter reports whether n is the single ring-0 node.
func (n Node) IsCenter() bool {
	return n.Ring == 0
}

// String returns a compact label such as "center" or "r3:7".
func (n Node) String() string {
	switch {
	case n.IsNone():
		return "none"
	case n.IsCenter():
		return "center"
	default:
		return fmt.Sprintf("r%d:%d", n.Ring, n.Pos)
	}
}

// EffectKind identifies the static effect attached to a node.
type EffectKind int

const (
	EffectNone     EffectKind = iota
	EffectWarpBack            // snake space: sends the token one ring inward
	EffectWarpStay            // fox space: no-op, target is the node itself
)

// String returns a human-readable name for the effect.
func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectWarpBack:
		return "warp-back"
	case EffectWarpStay:
		return "warp-stay"
	default:
		return "unknown"
	}
}

// Effect is a static special-node effect and its warp target.
type Effect struct {
	Kind   EffectKind
	Target Node
}

// ErrInvalidSize is returned by New for impossible board dimensions.
var ErrInvalidSize = errors.New("invalid board size")

// Board is the ring/node topology.
type Board struct {
	rings      int
	perRing    int
	directions []int
	effects    []Effect // indexed by outer-ring position
}

// New builds a board with the given number of rings (center included) and
// nodes per non-center ring.
func New(rings, perRing int) (*Board, error) {
	if rings < 2 {
		return nil, fmt.Errorf("board: need at least 2 rings, got %d: %w", rings, ErrInvalidSize)
	}
	if perRing < 1 {
		return nil, fmt.Errorf("board: need at least 1 node per ring, got %d: %w", perRing, ErrInvalidSize)
	}

	b := &Board{
		rings:      rings,
		perRing:    perRing,
		directions: make([]int, rings),
		effects:    make([]Effect, perRing),
	}

	for r := range b.directions {
		if r%2 == 0 {
			b.directions[r] = -1
		} else {
			b.directions[r] = 1
		}
	}

	outer := rings - 1
	for pos := range b.effects {
		self := Node{Ring: outer, Pos: pos}
		if pos%2 == 0 {
			b.effects[pos] = Effect{Kind: EffectWarpBack, Target: Node{Ring: outer - 1, Pos: pos}}
		} else {
			b.effects[pos] = Effect{Kind: EffectWarpStay, Target: self}
		}
	}

	return b, nil
}

// MustNew is like New but panics on invalid dimensions.
// Intended for tests and compiled-in presets.
func MustNew(rings, perRing int) *Board {
	b, err := New(rings, perRing)
	if err != nil {
		panic(err)
	}
	return b
}

// Rings returns the number of rings, center included.
func (b *Board) Rings() int {
	return b.rings
}

// NodesPerRing returns the node count of every non-center ring.
func (b *Board) NodesPerRing() int {
	return b.perRing
}

// Outermost returns the index of the outer ring.
func (b *Board) Outermost() int {
	return b.rings - 1
}

// Center returns the center node.
func (b *Board) Center() Node {
	return Node{Ring: 0, Pos: 0}
}

// RingSize returns how many nodes the ring holds, or 0 if it does not exist.
func (b *Board) RingSize(ring int) int {
	switch {
	case ring < 0 || ring >= b.rings:
		return 0
	case ring == 0:
		return 1
	default:
		return b.perRing
	}
}

// Contains reports whether n is a node of this board.
func (b *Board) Contains(n Node) bool {
	size := b.RingSize(n.Ring)
	return size > 0 && n.Pos >= 0 && n.Pos < size
}

// IsOuter reports whether n lies on the outermost ring.
func (b *Board) IsOuter(n Node) bool {
	return n.Ring == b.Outermost()
}

// NodeAt returns the node at (ring, pos). The position is taken modulo the
// ring size, so negative or oversized positions wrap around. Rings outside
// [0, Rings()) yield (None, false).
func (b *Board) NodeAt(ring, pos int) (Node, bool) {
	size := b.RingSize(ring)
	if size == 0 {
		return None, false
	}
	return Node{Ring: ring, Pos: mod(pos, size)}, true
}

// Direction returns the rotation sign of a ring: -1 for even rings and +1
// for odd rings. Unknown rings report 0.
func (b *Board) Direction(ring int) int {
	if ring < 0 || ring >= b.rings {
		return 0
	}
	return b.directions[ring]
}

// Step returns the same-ring node reached by moving steps positions in the
// ring's direction. The center maps onto itself.
func (b *Board) Step(n Node, steps int) Node {
	size := b.RingSize(n.Ring)
	if size == 0 {
		return None
	}
	return Node{Ring: n.Ring, Pos: mod(n.Pos+b.Direction(n.Ring)*steps, size)}
}

// Next is Step(n, 1).
func (b *Board) Next(n Node) Node {
	return b.Step(n, 1)
}

// Inward returns the radial neighbor one ring closer to the center. Nodes on
// ring 1 lead to the center; the center has no inward neighbor.
func (b *Board) Inward(n Node) (Node, bool) {
	switch {
	case n.Ring <= 0 || n.Ring >= b.rings:
		return None, false
	case n.Ring == 1:
		return b.Center(), true
	default:
		return b.NodeAt(n.Ring-1, n.Pos)
	}
}

// Outward returns the radial neighbor one ring further out at the same
// position. The outer ring has no outward neighbor.
func (b *Board) Outward(n Node) (Node, bool) {
	if n.Ring < 0 || n.Ring >= b.Outermost() {
		return None, false
	}
	return b.NodeAt(n.Ring+1, n.Pos)
}

// Effect returns the static effect of n. Only outer-ring nodes carry one.
func (b *Board) Effect(n Node) Effect {
	if !b.IsOuter(n) || !b.Contains(n) {
		return Effect{Kind: EffectNone, Target: n}
	}
	return b.effects[n.Pos]
}

// ApplyEffect returns the warp target of n, or n itself when it has none.
func (b *Board) ApplyEffect(n Node) Node {
	e := b.Effect(n)
	if e.Kind == EffectNone {
		return n
	}
	return e.Target
}

// Ring returns every node of one ring in position order.
func (b *Board) Ring(ring int) []Node {
	size := b.RingSize(ring)
	nodes := make([]Node, 0, size)
	for pos := 0; pos < size; pos++ {
		nodes = append(nodes, Node{Ring: ring, Pos: pos})
	}
	return nodes
}

// Nodes returns every node on the board, center first, ring by ring.
func (b *Board) Nodes() []Node {
	nodes := make([]Node, 0, 1+(b.rings-1)*b.perRing)
	for r := 0; r < b.rings; r++ {
		nodes = append(nodes, b.Ring(r)...)
	}
	return nodes
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

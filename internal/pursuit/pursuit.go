// Package pursuit moves fox and snake pieces toward a target player token.
package pursuit

import (
	"sort"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/occupancy"
)

// Metric ranks how far apart two nodes are. board.Layout satisfies it.
type Metric interface {
	Distance(a, b board.Node) float64
}

// Engine advances pursuit pieces one hop at a time.
type Engine struct {
	board  *board.Board
	metric Metric
}

// New creates an engine for b that ranks candidates with m.
func New(b *board.Board, m Metric) *Engine {
	return &Engine{board: b, metric: m}
}

// Candidates returns the raw one-hop neighbors of n regardless of who stands
// on them: same-ring, then inward, then outward. A neighbor equal to n is
// left out.
func (e *Engine) Candidates(n board.Node) []board.Node {
	var out []board.Node
	if next := e.board.Next(n); next != n && !next.IsNone() {
		out = append(out, next)
	}
	if in, ok := e.board.Inward(n); ok {
		out = append(out, in)
	}
	if o, ok := e.board.Outward(n); ok {
		out = append(out, o)
	}
	return out
}

// Advance moves the referenced fox or snake one hop toward target and
// returns its new node.
//
// If target is a raw neighbor the piece steps onto it regardless of
// occupancy. Otherwise it takes the reachable node closest to target, with
// ties going to the earliest candidate. A piece with nowhere to go stays.
func (e *Engine) Advance(p *occupancy.Pieces, ref occupancy.PieceRef, target board.Node) board.Node {
	from := p.At(ref)
	if from.IsNone() {
		return from
	}

	dest := from
	if capture, ok := e.capture(from, target); ok {
		dest = capture
	} else {
		r := occupancy.NewResolver(e.board, p).Excluding(ref)
		best := -1.0
		for _, n := range r.ConnectedNodes(from, false, board.None) {
			d := e.metric.Distance(n, target)
			if best < 0 || d < best {
				best = d
				dest = n
			}
		}
	}

	p.Move(ref, dest)
	return dest
}

func (e *Engine) capture(from, target board.Node) (board.Node, bool) {
	if target.IsNone() {
		return board.None, false
	}
	for _, n := range e.Candidates(from) {
		if n == target {
			return n, true
		}
	}
	return board.None, false
}

// Nearest returns the indices of the n nodes closest to target, nearest
// first. Equal distances keep their collection order.
func (e *Engine) Nearest(nodes []board.Node, target board.Node, n int) []int {
	idx := make([]int, len(nodes))
	dist := make([]float64, len(nodes))
	for i, node := range nodes {
		idx[i] = i
		dist[i] = e.metric.Distance(node, target)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dist[idx[a]] < dist[idx[b]]
	})
	if n < 0 {
		n = 0
	}
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

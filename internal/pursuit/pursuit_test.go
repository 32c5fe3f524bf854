package pursuit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/occupancy"
)

func node(ring, pos int) board.Node {
	return board.Node{Ring: ring, Pos: pos}
}

// tableMetric returns a fixed distance per source node and def otherwise.
type tableMetric struct {
	byNode map[board.Node]float64
	def    float64
}

func (m tableMetric) Distance(a, _ board.Node) float64 {
	if d, ok := m.byNode[a]; ok {
		return d
	}
	return m.def
}

func setup() (*board.Board, *Engine, *occupancy.Pieces) {
	b := board.MustNew(board.DefaultRings, board.DefaultNodesPerRing)
	e := New(b, board.NewLayout(b, board.DefaultGeometry()))
	p := &occupancy.Pieces{Players: map[int]board.Node{}}
	return b, e, p
}

func TestAdvanceCapturesAdjacentTarget(t *testing.T) {
	tests := []struct {
		name   string
		fox    board.Node
		target board.Node
	}{
		{"same ring", node(3, 3), node(3, 4)},
		{"inward", node(2, 5), node(1, 5)},
		{"inward to center", node(1, 8), node(0, 0)},
		{"outward", node(4, 0), node(5, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, e, p := setup()
			p.Foxes = []board.Node{tc.fox, tc.target}
			p.Snakes = []board.Node{tc.target}
			p.Players[0] = tc.target

			got := e.Advance(p, occupancy.PieceRef{Kind: occupancy.KindFox, Index: 0}, tc.target)
			require.Equal(t, tc.target, got)
			require.Equal(t, tc.target, p.Foxes[0])
		})
	}
}

func TestAdvancePicksClosestReachable(t *testing.T) {
	b, e, p := setup()
	p.Foxes = []board.Node{node(5, 1)}

	got := e.Advance(p, occupancy.PieceRef{Kind: occupancy.KindFox, Index: 0}, b.Center())
	require.Equal(t, node(4, 1), got)
	require.Equal(t, node(4, 1), p.Foxes[0])
}

func TestAdvanceAvoidsOccupiedNodes(t *testing.T) {
	b, e, p := setup()
	p.Snakes = []board.Node{node(3, 2), node(2, 2)}

	// The only free neighbor of r3:2 is r4:2 once r3:3 is taken by a player.
	p.Players[1] = node(3, 3)
	got := e.Advance(p, occupancy.PieceRef{Kind: occupancy.KindSnake, Index: 0}, b.Center())
	require.Equal(t, node(4, 2), got)
	require.Equal(t, node(2, 2), p.Snakes[1], "other pieces must not move")
}

func TestAdvanceTieGoesToFirstCandidate(t *testing.T) {
	b, _, p := setup()
	p.Foxes = []board.Node{node(3, 2)}
	target := node(1, 7)
	ref := occupancy.PieceRef{Kind: occupancy.KindFox, Index: 0}

	e := New(b, tableMetric{def: 10})
	require.Equal(t, node(3, 3), e.Advance(p, ref, target), "same-ring wins a three-way tie")

	p.Foxes[0] = node(3, 2)
	e = New(b, tableMetric{byNode: map[board.Node]float64{node(3, 3): 20}, def: 10})
	require.Equal(t, node(2, 2), e.Advance(p, ref, target), "inward beats outward on a tie")

	p.Foxes[0] = node(3, 2)
	e = New(b, tableMetric{byNode: map[board.Node]float64{node(4, 2): 1}, def: 10})
	require.Equal(t, node(4, 2), e.Advance(p, ref, target), "strictly closer outward wins")
}

func TestAdvanceStaysWhenBoxedIn(t *testing.T) {
	b, e, p := setup()
	p.Foxes = []board.Node{node(5, 1)}
	p.Snakes = []board.Node{node(5, 2), node(4, 1)}

	got := e.Advance(p, occupancy.PieceRef{Kind: occupancy.KindFox, Index: 0}, b.Center())
	require.Equal(t, node(5, 1), got)
}

func TestAdvanceFromCenter(t *testing.T) {
	b, e, p := setup()
	p.Foxes = []board.Node{b.Center()}
	target := node(3, 5)

	got := e.Advance(p, occupancy.PieceRef{Kind: occupancy.KindFox, Index: 0}, target)
	require.Equal(t, node(1, 5), got)
}

func TestNearestIsStable(t *testing.T) {
	b, e, _ := setup()
	nodes := []board.Node{node(5, 0), node(2, 3), node(5, 5), node(2, 3), node(1, 0)}

	got := e.Nearest(nodes, b.Center(), 3)
	require.Equal(t, []int{4, 1, 3}, got)

	require.Len(t, e.Nearest(nodes, b.Center(), 10), len(nodes))
	require.Empty(t, e.Nearest(nodes, b.Center(), 0))
}

func TestCandidates(t *testing.T) {
	b, e, _ := setup()

	require.Equal(t, []board.Node{node(1, 0)}, e.Candidates(b.Center()))
	require.Equal(t, []board.Node{node(5, 3), node(4, 2)}, e.Candidates(node(5, 2)))
	require.Equal(t, []board.Node{node(2, 9), node(1, 0), node(3, 0)}, e.Candidates(node(2, 0)))
}

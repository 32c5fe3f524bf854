package multiplayer

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/snakes-foxes/internal/core"
)

type fakeSnapshot struct {
	steps int
}

func (fakeSnapshot) IsGameSnapshot() {}

// fakeGame records what the match feeds it.
type fakeGame struct {
	mu        sync.Mutex
	steps     int
	inputs    []core.MultiInputFrame
	over      bool
	winner    PlayerID
	toMove    PlayerID
	forfeited int
}

func newFakeGame() *fakeGame {
	return &fakeGame{toMove: Player1, forfeited: -1}
}

func (g *fakeGame) Reset(core.RuntimeConfig) {}

func (g *fakeGame) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steps++
	g.inputs = append(g.inputs, in)
	return core.StepResult{}
}

func (g *fakeGame) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fakeSnapshot{steps: g.steps}
}

func (g *fakeGame) ToMove() PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.over {
		return core.NoPlayer
	}
	return g.toMove
}

func (g *fakeGame) pass(p PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.toMove = p
}

func (g *fakeGame) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over
}

func (g *fakeGame) Winner() PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

func (g *fakeGame) Forfeit(seat int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forfeited = seat
	g.over = true
	g.winner = core.PlayerForSeat(1 - seat)
}

func (g *fakeGame) Table() TableInfo {
	return TableInfo{Mode: "hard", Rings: 4, NodesPerRing: 8}
}

func (g *fakeGame) EndReason() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.over {
		return ""
	}
	return "round trip completed"
}

func (g *fakeGame) Pieces1() int    { return 2 }
func (g *fakeGame) Pieces2() int    { return 1 }
func (g *fakeGame) TotalTurns() int { return 7 }

func (g *fakeGame) end(winner PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.over = true
	g.winner = winner
}

// waitFor reads events from s until one satisfies match or the timeout hits.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func waitTimeout() <-chan time.Time {
	return time.After(2 * time.Second)
}

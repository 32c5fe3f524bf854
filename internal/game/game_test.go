package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/config"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/dice"
	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
	"github.com/vovakirdan/snakes-foxes/internal/occupancy"
)

func node(ring, pos int) board.Node {
	return board.Node{Ring: ring, Pos: pos}
}

func newTestGame(t *testing.T, mutate func(*config.GameConfig)) *Game {
	t.Helper()
	cfg := config.DefaultGameConfig()
	cfg.Pacing.MoveTicks = 0
	cfg.Pacing.PursuitDelayTicks = 1
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := New(Options{Config: cfg, Seed: 1})
	require.NoError(t, err)
	return g
}

// place puts a seat's token on n with the given previous node.
func place(g *Game, seat int, n, previous board.Node) {
	tok := g.tokens[seat]
	tok.Node = n
	tok.Previous = previous
	g.pieces.Move(playerRef(seat), n)
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, nil)

	require.Equal(t, AwaitingRoll{}, g.Phase())
	require.Equal(t, 0, g.Current())
	for seat := 0; seat < 2; seat++ {
		tok := g.Token(seat)
		require.True(t, tok.Node.IsCenter())
		require.True(t, tok.Active)
		require.Equal(t, 2, tok.Pieces)
	}
	require.Len(t, g.Foxes(), 5)
	require.Len(t, g.Snakes(), 5)
	require.False(t, g.IsGameOver())
	require.Equal(t, core.NoPlayer, g.Winner())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Board.Rings = 1
	_, err := New(Options{Config: cfg})
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestRollOnlyWhileAwaiting(t *testing.T) {
	g := newTestGame(t, nil)

	require.True(t, g.ApplyRoll(dice.Counts(2, 0, 0)))
	require.Equal(t, PlayerMoving{MovesRemaining: 2}, g.Phase())
	require.False(t, g.ApplyRoll(dice.Counts(3, 0, 0)))

	_, ok := g.Roll()
	require.False(t, ok)
}

func TestMovesAndTurnSwitch(t *testing.T) {
	g := newTestGame(t, nil)
	require.Equal(t, core.Player1, g.ToMove())
	g.ApplyRoll(dice.Counts(2, 0, 0))

	require.Len(t, g.LegalMoves(), 10)
	require.True(t, g.Select(node(1, 3)))

	tok := g.Token(0)
	require.Equal(t, node(1, 3), tok.Node)
	require.Equal(t, 1, tok.Turns)
	require.Equal(t, PlayerMoving{MovesRemaining: 1}, g.Phase())
	require.Equal(t, []board.Node{node(1, 4), node(0, 0), node(2, 3)}, g.LegalMoves())

	require.True(t, g.Select(node(1, 4)))
	require.Equal(t, AwaitingRoll{}, g.Phase())
	require.Equal(t, 1, g.Current())
	require.Equal(t, core.Player2, g.ToMove())
	require.Equal(t, 2, g.TotalTurns())
}

func TestSelectRejectsIllegal(t *testing.T) {
	g := newTestGame(t, func(c *config.GameConfig) { c.Pacing.MoveTicks = 2 })

	require.False(t, g.Select(node(1, 0)), "no roll yet")

	g.ApplyRoll(dice.Counts(2, 0, 0))
	require.False(t, g.Select(node(2, 0)), "not adjacent")
	require.False(t, g.Select(board.None))
	require.True(t, g.Select(node(1, 0)))

	require.Empty(t, g.LegalMoves(), "hop in flight")
	require.False(t, g.Select(node(1, 1)), "hop in flight")
	require.Equal(t, 0, g.Token(0).Turns)

	g.Tick()
	require.Equal(t, 0, g.Token(0).Turns)
	g.Tick()
	require.Equal(t, 1, g.Token(0).Turns)
	require.Equal(t, PlayerMoving{MovesRemaining: 1}, g.Phase())
}

func TestZeroPipRoll(t *testing.T) {
	g := newTestGame(t, nil)
	g.ApplyRoll(dice.Counts(0, 0, 0))

	require.Equal(t, AwaitingRoll{}, g.Phase())
	require.Equal(t, 1, g.Current())
	require.NotEmpty(t, g.View().Notice)

	g.ApplyRoll(dice.Counts(0, 1, 0))
	p, ok := g.Phase().(Pursuit)
	require.True(t, ok)
	require.Equal(t, occupancy.KindFox, p.Kind)
	require.Len(t, p.Queue, 1)
}

func TestBoxedInForfeitsMoves(t *testing.T) {
	g := newTestGame(t, nil)
	place(g, 0, node(1, 0), board.None)
	g.pieces.Foxes[0] = node(1, 1)
	g.pieces.Foxes[1] = node(0, 0)
	g.pieces.Foxes[2] = node(2, 0)

	g.ApplyRoll(dice.Counts(2, 1, 0))
	require.Equal(t, PhaseFoxPursuit, KindOf(g.Phase()))
}

func TestFoxCapturesCurrentPlayer(t *testing.T) {
	g := newTestGame(t, nil)
	place(g, 0, node(4, 1), node(3, 1))

	g.ApplyRoll(dice.Counts(0, 1, 0))
	p, ok := g.Phase().(Pursuit)
	require.True(t, ok)
	require.Equal(t, []int{0}, p.Queue)
	require.Equal(t, node(5, 1), g.View().Pursuer)

	g.Tick()
	require.Equal(t, node(4, 1), g.Foxes()[0])
	tok := g.Token(0)
	require.False(t, tok.Active)
	require.Equal(t, 1, tok.Pieces)
	require.False(t, g.IsGameOver())
	_, onBoard := g.pieces.Players[0]
	require.False(t, onBoard)

	// One more delay after the last fox, then the other player rolls.
	require.Equal(t, PhaseFoxPursuit, KindOf(g.Phase()))
	g.Tick()
	require.Equal(t, AwaitingRoll{}, g.Phase())
	require.Equal(t, 1, g.Current())
}

func TestFoxesThenSnakes(t *testing.T) {
	g := newTestGame(t, nil)
	place(g, 0, node(2, 4), node(1, 4))

	g.ApplyRoll(dice.Counts(0, 1, 2))
	require.Equal(t, PhaseFoxPursuit, KindOf(g.Phase()))

	require.True(t, g.AdvancePursuit())
	require.True(t, g.AdvancePursuit())
	p, ok := g.Phase().(Pursuit)
	require.True(t, ok)
	require.Equal(t, occupancy.KindSnake, p.Kind)
	require.Len(t, p.Queue, 2)

	require.True(t, g.AdvancePursuit())
	require.True(t, g.AdvancePursuit())
	require.True(t, g.AdvancePursuit())
	require.Equal(t, AwaitingRoll{}, g.Phase())
	require.Equal(t, 1, g.Current())
	require.False(t, g.AdvancePursuit())
}

func TestCenterCaptureTakesEveryone(t *testing.T) {
	g := newTestGame(t, nil)
	g.pieces.Foxes[0] = node(1, 0)

	g.ApplyRoll(dice.Counts(0, 1, 0))
	require.True(t, g.AdvancePursuit())

	require.Equal(t, node(0, 0), g.Foxes()[0])
	require.False(t, g.Token(0).Active)
	require.False(t, g.Token(1).Active)
	require.Equal(t, GameOver{Winner: NoWinner, Reason: EndEliminated}, g.Phase())
	require.Equal(t, core.NoPlayer, g.Winner())
}

func TestInactiveTokenNotCapturedAgain(t *testing.T) {
	g := newTestGame(t, nil)
	g.tokens[1].LosePiece()
	g.pieces.RemovePlayer(1)
	g.pieces.Foxes[0] = node(1, 0)

	g.ApplyRoll(dice.Counts(0, 1, 0))
	g.AdvancePursuit()

	require.Equal(t, 1, g.Token(1).Pieces)
	require.Equal(t, 1, g.Token(0).Pieces)
	require.Equal(t, GameOver{Winner: NoWinner, Reason: EndEliminated}, g.Phase())
}

func TestWinOnReturnToCenter(t *testing.T) {
	g := newTestGame(t, nil)
	place(g, 0, node(1, 0), node(2, 0))
	g.tokens[0].VisitedOuter = true

	g.ApplyRoll(dice.Counts(1, 0, 0))
	require.True(t, g.Select(node(0, 0)))

	require.Equal(t, GameOver{Winner: 0, Reason: EndWin}, g.Phase())
	require.Equal(t, core.Player1, g.Winner())
	require.True(t, g.State().GameOver)
}

func TestReturnWithoutOuterVisitDoesNotWin(t *testing.T) {
	g := newTestGame(t, nil)
	g.ApplyRoll(dice.Counts(2, 0, 0))
	g.Select(node(1, 0))
	g.Select(node(0, 0))

	require.False(t, g.IsGameOver())
	require.Equal(t, 1, g.Current())
}

func TestTurnLimit(t *testing.T) {
	g := newTestGame(t, func(c *config.GameConfig) { c.Rules.MaxTurns = 2 })
	g.ApplyRoll(dice.Counts(2, 0, 0))
	g.Select(node(1, 0))
	require.False(t, g.IsGameOver())
	g.Select(node(1, 1))

	require.Equal(t, GameOver{Winner: NoWinner, Reason: EndTurnLimit}, g.Phase())
}

func TestSwitchTurnSkipsInactive(t *testing.T) {
	g := newTestGame(t, nil)
	g.tokens[1].LosePiece()
	g.pieces.RemovePlayer(1)

	g.ApplyRoll(dice.Counts(1, 0, 0))
	g.Select(node(1, 0))

	require.Equal(t, AwaitingRoll{}, g.Phase())
	require.Equal(t, 0, g.Current())
}

func TestBothTokensOutOfPiecesEndsGame(t *testing.T) {
	g := newTestGame(t, nil)
	for seat := 0; seat < 2; seat++ {
		require.False(t, g.tokens[seat].LosePiece())
		require.True(t, g.tokens[seat].LosePiece())
		g.pieces.RemovePlayer(seat)
	}
	require.False(t, g.IsGameOver())

	g.Tick()

	require.Zero(t, g.Token(0).Pieces)
	require.Zero(t, g.Token(1).Pieces)
	require.Equal(t, GameOver{Winner: NoWinner, Reason: EndEliminated}, g.Phase())
	require.Equal(t, core.NoPlayer, g.Winner())
	require.Equal(t, "both players captured", g.EndReason())
	require.Equal(t, multiplayer.TableInfo{Mode: "medium", Rings: g.Board().Rings(), NodesPerRing: g.Board().NodesPerRing()}, g.Table())
}

func TestOuterRingWarp(t *testing.T) {
	tests := []struct {
		name     string
		warp     bool
		expected board.Node
	}{
		{"suppressed", false, node(5, 0)},
		{"honored", true, node(4, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, func(c *config.GameConfig) { c.Board.WarpOnArrival = tc.warp })
			place(g, 0, node(4, 0), node(3, 0))
			g.pieces.Snakes[0] = board.None

			g.ApplyRoll(dice.Counts(2, 0, 0))
			require.True(t, g.Select(node(5, 0)))

			tok := g.Token(0)
			require.Equal(t, tc.expected, tok.Node)
			require.True(t, tok.VisitedOuter)
			require.Equal(t, tc.expected, g.pieces.Players[0])
		})
	}
}

func TestStepMultiUsesCurrentSeat(t *testing.T) {
	g := newTestGame(t, nil)

	in := core.NewMultiInputFrame()
	f := core.NewInputFrame()
	f.Set(core.ActionRoll)
	in.SetPlayer(core.Player2, f)
	g.StepMulti(in)
	_, rolled := g.LastRoll()
	require.False(t, rolled)

	in = core.NewMultiInputFrame()
	in.SetPlayer(core.Player1, f)
	g.StepMulti(in)
	_, rolled = g.LastRoll()
	require.True(t, rolled)
}

func TestStepSelectsTarget(t *testing.T) {
	g := newTestGame(t, nil)
	g.ApplyRoll(dice.Counts(2, 0, 0))

	f := core.NewInputFrame()
	f.SetTarget(node(1, 5))
	g.Step(f)
	require.Equal(t, node(1, 5), g.Token(0).Node)
}

func TestPauseAndRestart(t *testing.T) {
	g := newTestGame(t, nil)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	res := g.Step(pause)
	require.True(t, res.State.Paused)

	roll := core.NewInputFrame()
	roll.Set(core.ActionRoll)
	g.Step(roll)
	_, rolled := g.LastRoll()
	require.False(t, rolled, "paused game ignores input")

	g.Step(pause)
	require.False(t, g.State().Paused)

	g.Forfeit(0)
	require.Equal(t, GameOver{Winner: 1, Reason: EndForfeit}, g.Phase())
	require.Equal(t, core.Player2, g.Winner())

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	require.False(t, g.IsGameOver())
	require.Equal(t, AwaitingRoll{}, g.Phase())
}

func TestRestartKeepsSeed(t *testing.T) {
	g := newTestGame(t, nil)
	first, ok := g.Roll()
	require.True(t, ok)

	g.Forfeit(0)
	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)

	again, ok := g.Roll()
	require.True(t, ok)
	require.Equal(t, first, again, "a seeded game rolls the same dice after a restart")
}

func TestGameOverIsAbsorbing(t *testing.T) {
	g := newTestGame(t, nil)
	g.Forfeit(1)
	tick := g.View().Tick

	g.Tick()
	require.False(t, g.ApplyRoll(dice.Counts(1, 0, 0)))
	require.False(t, g.Select(node(1, 0)))
	g.Forfeit(0)

	require.Equal(t, GameOver{Winner: 0, Reason: EndForfeit}, g.Phase())
	require.Equal(t, core.NoPlayer, g.ToMove())
	require.Equal(t, tick, g.View().Tick)
}

func TestView(t *testing.T) {
	g := newTestGame(t, nil)
	g.ApplyRoll(dice.Counts(1, 2, 0))

	s := g.View()
	require.Equal(t, PhasePlayerMoving, s.Phase)
	require.Equal(t, 1, s.MovesRemaining)
	require.Len(t, s.Legal, 10)
	require.Equal(t, dice.Counts(1, 2, 0), s.Roll)
	require.Equal(t, 6, s.Rings)
	require.Equal(t, 10, s.NodesPerRing)
	require.Equal(t, core.Player1, s.CurrentPlayer())
	require.Equal(t, core.NoPlayer, s.WinnerPlayer())
	require.Equal(t, board.None, s.Pursuer)

	var snap multiplayer.GameSnapshot = g.Snapshot()
	_, ok := snap.(Snapshot)
	require.True(t, ok)
}

func TestRandomPlayTerminates(t *testing.T) {
	g := newTestGame(t, func(c *config.GameConfig) { c.Rules.MaxTurns = 40 })

	for i := 0; i < 20000 && !g.IsGameOver(); i++ {
		switch g.Phase().(type) {
		case AwaitingRoll:
			g.Roll()
		case PlayerMoving:
			if legal := g.LegalMoves(); len(legal) > 0 {
				require.True(t, g.Select(legal[i%len(legal)]))
			}
		}
		g.Tick()
	}
	require.True(t, g.IsGameOver())
}

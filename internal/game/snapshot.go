package game

import (
	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/dice"
	"github.com/vovakirdan/snakes-foxes/internal/occupancy"
)

// PlayerView is the drawable state of one token.
type PlayerView struct {
	Seat         int
	Node         board.Node
	Previous     board.Node
	VisitedOuter bool
	Pieces       int
	Active       bool
	Turns        int
}

// Snapshot is a self-contained copy of everything a client needs to draw the
// game. It implements multiplayer.GameSnapshot.
type Snapshot struct {
	Variant string
	Title   string
	Tick    uint64

	Rings        int
	NodesPerRing int
	Geometry     board.Geometry

	Players [2]PlayerView
	Foxes   []board.Node
	Snakes  []board.Node
	Current int

	Phase          PhaseKind
	Label          string
	MovesRemaining int
	InTransit      bool
	Legal          []board.Node
	Pursuer        board.Node // piece that moves next during pursuit, None otherwise

	Roll   dice.Outcome
	Rolled bool
	Mode   dice.Mode

	Notice   string
	Messages []string

	GameOver   bool
	Winner     int
	Reason     EndReason
	Paused     bool
	TotalTurns int
	MaxTurns   int
}

// IsGameSnapshot marks Snapshot as a multiplayer snapshot.
func (Snapshot) IsGameSnapshot() {}

// CurrentPlayer returns the player whose turn it is.
func (s Snapshot) CurrentPlayer() core.PlayerID {
	return core.PlayerForSeat(s.Current)
}

// WinnerPlayer returns the winner, or NoPlayer.
func (s Snapshot) WinnerPlayer() core.PlayerID {
	if !s.GameOver {
		return core.NoPlayer
	}
	return core.PlayerForSeat(s.Winner)
}

// View captures the current state.
func (g *Game) View() Snapshot {
	s := Snapshot{
		Variant:      g.id,
		Title:        g.title,
		Tick:         g.tick,
		Rings:        g.board.Rings(),
		NodesPerRing: g.board.NodesPerRing(),
		Geometry:     g.layout.Geometry(),
		Foxes:        g.Foxes(),
		Snakes:       g.Snakes(),
		Current:      g.current,
		Phase:        KindOf(g.phase),
		Label:        g.phase.Label(),
		Legal:        g.LegalMoves(),
		Pursuer:      board.None,
		Roll:         g.roll,
		Rolled:       g.rolled,
		Mode:         g.cfg.Dice.Mode,
		Notice:       g.notice,
		Messages:     append([]string(nil), g.messages...),
		Winner:       NoWinner,
		Paused:       g.paused,
		TotalTurns:   g.TotalTurns(),
		MaxTurns:     g.cfg.Rules.MaxTurns,
	}

	for seat, tok := range g.tokens {
		s.Players[seat] = PlayerView{
			Seat:         seat,
			Node:         tok.Node,
			Previous:     tok.Previous,
			VisitedOuter: tok.VisitedOuter,
			Pieces:       tok.Pieces,
			Active:       tok.Active,
			Turns:        tok.Turns,
		}
	}

	switch p := g.phase.(type) {
	case PlayerMoving:
		s.MovesRemaining = p.MovesRemaining
		s.InTransit = p.Transit > 0
	case Pursuit:
		if p.Index < len(p.Queue) {
			s.Pursuer = g.pieces.At(occupancy.PieceRef{Kind: p.Kind, Index: p.Queue[p.Index]})
		}
	case GameOver:
		s.GameOver = true
		s.Winner = p.Winner
		s.Reason = p.Reason
	}

	return s
}

package game

import (
	"fmt"

	"github.com/vovakirdan/snakes-foxes/internal/occupancy"
)

// Phase is one segment of a turn. Exactly one of AwaitingRoll,
// PlayerMoving, Pursuit or GameOver is active at a time.
type Phase interface {
	Label() string
	isPhase()
}

// AwaitingRoll waits for the current player to throw the dice.
type AwaitingRoll struct{}

// PlayerMoving lets the current player spend the pips of the roll, one hop
// per pip. While Transit is positive a hop is in flight and no selection is
// accepted.
type PlayerMoving struct {
	MovesRemaining int
	Transit        int
}

// Pursuit moves the queued foxes or snakes one hop each toward the current
// player, one piece every delay interval.
type Pursuit struct {
	Kind      occupancy.Kind
	Queue     []int // indices into the fox or snake collection, nearest first
	Index     int   // next queue entry to move
	Countdown int   // ticks until the next step
}

// GameOver is absorbing. Winner is the winning seat or -1 for none.
type GameOver struct {
	Winner int
	Reason EndReason
}

func (AwaitingRoll) isPhase() {}
func (PlayerMoving) isPhase() {}
func (Pursuit) isPhase()      {}
func (GameOver) isPhase()     {}

// Label returns status text for the phase.
func (AwaitingRoll) Label() string { return "Roll the dice" }

// Label returns status text for the phase.
func (p PlayerMoving) Label() string {
	if p.Transit > 0 {
		return "Moving..."
	}
	if p.MovesRemaining == 1 {
		return "Move: 1 hop left"
	}
	return fmt.Sprintf("Move: %d hops left", p.MovesRemaining)
}

// Label returns status text for the phase.
func (p Pursuit) Label() string {
	name := "Foxes"
	if p.Kind == occupancy.KindSnake {
		name = "Snakes"
	}
	return fmt.Sprintf("%s hunting (%d/%d)", name, min(p.Index, len(p.Queue)), len(p.Queue))
}

// Label returns status text for the phase.
func (p GameOver) Label() string {
	return "Game over: " + p.Reason.String()
}

// EndReason describes why a game ended.
type EndReason int

const (
	EndWin        EndReason = iota // a token returned to the center after reaching the outer ring
	EndTurnLimit                   // the combined turn limit was reached
	EndEliminated                  // both tokens were captured
	EndForfeit                     // a player left an online game
)

// String returns a human-readable name for the reason.
func (r EndReason) String() string {
	switch r {
	case EndWin:
		return "round trip completed"
	case EndTurnLimit:
		return "turn limit reached"
	case EndEliminated:
		return "both players captured"
	case EndForfeit:
		return "forfeit"
	default:
		return "unknown"
	}
}

// PhaseKind is a comparable tag for a Phase, used in snapshots.
type PhaseKind int

const (
	PhaseAwaitingRoll PhaseKind = iota
	PhasePlayerMoving
	PhaseFoxPursuit
	PhaseSnakePursuit
	PhaseGameOver
)

// KindOf returns the tag of p.
func KindOf(p Phase) PhaseKind {
	switch v := p.(type) {
	case PlayerMoving:
		return PhasePlayerMoving
	case Pursuit:
		if v.Kind == occupancy.KindSnake {
			return PhaseSnakePursuit
		}
		return PhaseFoxPursuit
	case GameOver:
		return PhaseGameOver
	default:
		return PhaseAwaitingRoll
	}
}

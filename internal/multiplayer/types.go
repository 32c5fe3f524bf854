// Package multiplayer runs online games of Snakes and Foxes: lobbies that
// pair two sessions by join code, and authoritative matches that tick the
// game on the server and stream snapshots to both players.
package multiplayer

import "github.com/vovakirdan/snakes-foxes/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// The host always plays Player1 and the joiner Player2.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// TableInfo describes how a match is played: the dice preset and the
// board size.
type TableInfo struct {
	Mode         string
	Rings        int
	NodesPerRing int
}

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// Opponent returns the other side of a two-player match.
func Opponent(p PlayerID) PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return core.NoPlayer
	}
}

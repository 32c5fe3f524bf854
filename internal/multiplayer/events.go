package multiplayer

import "github.com/vovakirdan/snakes-foxes/internal/core"

// Traffic between sessions and the coordinator is typed in both directions.
// SessionEvent values flow out to a terminal, CoordinatorMessage values
// flow in from one. The unexported marker methods close both sets.

// SessionEvent is delivered to a session.
type SessionEvent interface {
	sessionEvent()
}

// CoordinatorMessage is handled by the coordinator loop.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// GameSnapshot is the board state a match streams after every tick. The
// game package provides the concrete type.
type GameSnapshot interface {
	IsGameSnapshot()
}

// Lobby lifecycle.

type (
	// LobbyCreatedEvent hands the host the code to share.
	LobbyCreatedEvent struct {
		Code    string
		Variant string
	}

	// LobbyErrorEvent reports a refused lobby request, a failed match start
	// or an expired lobby.
	LobbyErrorEvent struct {
		Message string
	}

	// LobbyJoinedEvent tells both members who they face. Side is Player1 for
	// the host.
	LobbyJoinedEvent struct {
		Code       string
		Side       PlayerID
		OpponentID SessionID
	}

	// LobbyPlayerLeftEvent tells the host the joiner walked away before the
	// match started.
	LobbyPlayerLeftEvent struct {
		Code string
	}
)

func (LobbyCreatedEvent) sessionEvent()    {}
func (LobbyErrorEvent) sessionEvent()      {}
func (LobbyJoinedEvent) sessionEvent()     {}
func (LobbyPlayerLeftEvent) sessionEvent() {}

// Match lifecycle.

type (
	MatchStartedEvent struct {
		MatchID MatchID
		Side    PlayerID
		Code    string
		Variant string
	}

	// SnapshotEvent carries the board after tick Tick.
	SnapshotEvent struct {
		MatchID  MatchID
		Tick     uint64
		Snapshot GameSnapshot
	}

	// MatchEndedEvent carries the final score. Winner is NoPlayer for a
	// draw or a lobby the host abandoned.
	MatchEndedEvent struct {
		MatchID MatchID
		Reason  MatchEndReason
		Winner  PlayerID
		Pieces1 int
		Pieces2 int
		Turns   int
	}
)

func (MatchStartedEvent) sessionEvent() {}
func (SnapshotEvent) sessionEvent()     {}
func (MatchEndedEvent) sessionEvent()   {}

// MatchEndReason says how a match stopped.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // a player got every piece home or the board was exhausted
	MatchEndReasonDisconnect                       // one seat left and forfeited
	MatchEndReasonHostLeft                         // the lobby closed before play
)

// String returns the text shown on the end screen and stored with results.
func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonHostLeft:
		return "Host left"
	}
	return "Unknown"
}

// Requests from sessions.

type (
	CreateLobbyMsg struct {
		SessionID SessionID
		Variant   string
	}

	// JoinLobbyMsg takes a code as typed; case and surrounding space are
	// ignored.
	JoinLobbyMsg struct {
		SessionID SessionID
		Code      string
	}

	// CancelLobbyMsg is honored for the host only.
	CancelLobbyMsg struct {
		SessionID SessionID
		Code      string
	}

	LeaveLobbyMsg struct {
		SessionID SessionID
		Code      string
	}

	// LeaveMatchMsg forfeits the running match for the sender.
	LeaveMatchMsg struct {
		SessionID SessionID
		MatchID   MatchID
	}

	// PlayerInputMsg forwards key presses. The match drops them unless
	// Player is the one to move.
	PlayerInputMsg struct {
		MatchID MatchID
		Player  PlayerID
		Input   core.InputFrame
	}

	SessionDisconnectedMsg struct {
		SessionID SessionID
	}
)

func (CreateLobbyMsg) coordinatorMessage()         {}
func (JoinLobbyMsg) coordinatorMessage()           {}
func (CancelLobbyMsg) coordinatorMessage()         {}
func (LeaveLobbyMsg) coordinatorMessage()          {}
func (LeaveMatchMsg) coordinatorMessage()          {}
func (PlayerInputMsg) coordinatorMessage()         {}
func (SessionDisconnectedMsg) coordinatorMessage() {}

package core

// PlayerID identifies one of the two seats at the table.
// Zero means "nobody", e.g. a game with no winner.
type PlayerID int

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

// String returns a human-readable name for the player.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "Nobody"
	}
}

// Seat returns the zero-based seat index of the player, or -1 for NoPlayer.
func (p PlayerID) Seat() int {
	if p != Player1 && p != Player2 {
		return -1
	}
	return int(p) - 1
}

// PlayerForSeat converts a zero-based seat index into a PlayerID.
func PlayerForSeat(seat int) PlayerID {
	switch seat {
	case 0:
		return Player1
	case 1:
		return Player2
	default:
		return NoPlayer
	}
}

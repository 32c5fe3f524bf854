package core

// RuntimeConfig contains configuration passed to a game at (re)start.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic dice
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  100,
		ScreenH:  32,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState summarizes a game for the platform.
type GameState struct {
	Turns    int      // Combined arrivals of both players
	GameOver bool     // Whether the game has ended
	Paused   bool     // Whether the game is paused
	Winner   PlayerID // NoPlayer until someone wins
}

// StepResult is returned by Step after each simulation tick.
type StepResult struct {
	State GameState
}

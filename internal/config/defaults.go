package config

import (
	_ "embed"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/dice"
	"github.com/vovakirdan/snakes-foxes/internal/token"
)

//go:embed defaults/foxes.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the default game configuration.
func DefaultGameConfig() GameConfig {
	modes := make(map[dice.Mode]dice.Weights, 3)
	for _, m := range dice.Modes() {
		modes[m] = dice.WeightsFor(m)
	}
	return GameConfig{
		Board: BoardConfig{
			Rings:         board.DefaultRings,
			NodesPerRing:  board.DefaultNodesPerRing,
			WarpOnArrival: false,
		},
		Dice: DiceConfig{
			Count: dice.DefaultCount,
			Mode:  dice.ModeMedium,
			Modes: modes,
		},
		Rules: RulesConfig{
			MaxTurns:        100,
			PiecesPerPlayer: token.DefaultPieces,
		},
		Pacing: PacingConfig{
			MoveTicks:         20,
			PursuitDelayTicks: 50,
			RollMessageTicks:  60,
		},
		Layout: board.DefaultGeometry(),
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultGameYAML...)
}

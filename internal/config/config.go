// Package config provides YAML-based game configuration loading and
// difficulty management for Snakes and Foxes.
package config

import (
	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/dice"
)

// GameConfig contains all configuration for one game.
type GameConfig struct {
	Board  BoardConfig    `yaml:"board"`
	Dice   DiceConfig     `yaml:"dice"`
	Rules  RulesConfig    `yaml:"rules"`
	Pacing PacingConfig   `yaml:"pacing"`
	Layout board.Geometry `yaml:"layout"`
}

// BoardConfig defines the ring topology.
type BoardConfig struct {
	Rings         int  `yaml:"rings"`           // Rings including the center
	NodesPerRing  int  `yaml:"nodes_per_ring"`  // Nodes on every non-center ring
	WarpOnArrival bool `yaml:"warp_on_arrival"` // Honor warp-back spaces that leave the outer ring
}

// DiceConfig defines the dice and the face probabilities of each preset.
type DiceConfig struct {
	Count int                        `yaml:"count"`
	Mode  dice.Mode                  `yaml:"mode"`
	Modes map[dice.Mode]dice.Weights `yaml:"modes"`
}

// RulesConfig defines the end-of-game limits.
type RulesConfig struct {
	MaxTurns        int `yaml:"max_turns"`         // Combined arrivals of both players before a draw
	PiecesPerPlayer int `yaml:"pieces_per_player"` // Pieces each token starts with
}

// PacingConfig defines how many ticks each animated step takes.
type PacingConfig struct {
	MoveTicks         int `yaml:"move_ticks"`          // Ticks a token spends in transit
	PursuitDelayTicks int `yaml:"pursuit_delay_ticks"` // Ticks between two pursuit hops
	RollMessageTicks  int `yaml:"roll_message_ticks"`  // Ticks a "no moves" notice stays up
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/snakes-foxes/internal/dice"
)

// UserConfigFile is the config path relative to the XDG config directories.
var UserConfigFile = filepath.Join("snakes-foxes", "foxes.yaml")

// Load loads the game configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/snakes-foxes/foxes.yaml ->
// ./configs/foxes.yaml -> embedded default.
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func Load(customPath string) (GameConfig, error) {
	cfg := DefaultGameConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return checked(cfg)
	}

	// Try user config directory
	if userCfgPath, err := xdg.SearchConfigFile(UserConfigFile); err == nil {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return checked(cfg)
			}
			cfg = DefaultGameConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "foxes.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return checked(cfg)
		}
		cfg = DefaultGameConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultGameYAML, &cfg); err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return checked(cfg)
}

// checked canonicalizes a decoded config and validates it.
func checked(cfg GameConfig) (GameConfig, error) {
	cfg.normalize()
	return cfg, cfg.Validate()
}

// WriteUserDefault writes the embedded default configuration to the user
// config directory and returns its path. An existing file is left alone
// unless force is set.
func WriteUserDefault(force bool) (string, error) {
	path, err := xdg.ConfigFile(UserConfigFile)
	if err != nil {
		return "", fmt.Errorf("config: resolve user config path: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("config: %s already exists", path)
	}
	if err := os.WriteFile(path, defaultGameYAML, 0o644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects configurations no game can be built from.
func (c GameConfig) Validate() error {
	switch {
	case c.Board.Rings < 2:
		return fmt.Errorf("config: board.rings must be at least 2, got %d: %w", c.Board.Rings, ErrInvalid)
	case c.Board.NodesPerRing < 1:
		return fmt.Errorf("config: board.nodes_per_ring must be positive, got %d: %w", c.Board.NodesPerRing, ErrInvalid)
	case c.Dice.Count < 1:
		return fmt.Errorf("config: dice.count must be positive, got %d: %w", c.Dice.Count, ErrInvalid)
	case c.Rules.MaxTurns < 1:
		return fmt.Errorf("config: rules.max_turns must be positive, got %d: %w", c.Rules.MaxTurns, ErrInvalid)
	case c.Rules.PiecesPerPlayer < 1:
		return fmt.Errorf("config: rules.pieces_per_player must be positive, got %d: %w", c.Rules.PiecesPerPlayer, ErrInvalid)
	case c.Pacing.MoveTicks < 0 || c.Pacing.PursuitDelayTicks < 0 || c.Pacing.RollMessageTicks < 0:
		return fmt.Errorf("config: pacing ticks must not be negative: %w", ErrInvalid)
	case c.Layout.RingSpacing < 1:
		return fmt.Errorf("config: layout.ring_spacing must be positive, got %d: %w", c.Layout.RingSpacing, ErrInvalid)
	}
	if _, err := dice.ParseMode(string(c.Dice.Mode)); err != nil {
		return fmt.Errorf("config: dice.mode: %v: %w", err, ErrInvalid)
	}
	for mode, w := range c.Dice.Modes {
		if w.Pip < 0 || w.Fox < 0 || w.Snake < 0 || w.Total() <= 0 {
			return fmt.Errorf("config: dice.modes.%s has unusable weights: %w", mode, ErrInvalid)
		}
	}
	return nil
}

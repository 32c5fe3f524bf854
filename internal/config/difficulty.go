package config

import (
	"strings"

	"github.com/vovakirdan/snakes-foxes/internal/dice"
)

// ApplyPreset selects a difficulty preset.
func ApplyPreset(cfg *GameConfig, mode dice.Mode) {
	cfg.Dice.Mode = mode
}

// Weights returns the face probabilities of the selected preset. Presets
// missing from the config use the built-in values.
func (c GameConfig) Weights() dice.Weights {
	mode, err := dice.ParseMode(string(c.Dice.Mode))
	if err != nil {
		mode = dice.ModeMedium
	}
	if w, ok := c.Dice.Modes[mode]; ok && w.Total() > 0 {
		return w
	}
	return dice.WeightsFor(mode)
}

// normalize rewrites preset names as typed in a file (" Hard ") to their
// canonical form. Unknown names are left for Validate to report.
func (c *GameConfig) normalize() {
	if m, err := dice.ParseMode(string(c.Dice.Mode)); err == nil {
		c.Dice.Mode = m
	}
	if len(c.Dice.Modes) == 0 {
		return
	}
	// Defaults are canonical, so a differently spelled key came from a file
	// and wins over its canonical twin.
	modes := make(map[dice.Mode]dice.Weights, len(c.Dice.Modes))
	var renamed []dice.Mode
	for name, w := range c.Dice.Modes {
		canon := dice.Mode(strings.ToLower(strings.TrimSpace(string(name))))
		if canon != name {
			renamed = append(renamed, name)
			continue
		}
		modes[canon] = w
	}
	for _, name := range renamed {
		modes[dice.Mode(strings.ToLower(strings.TrimSpace(string(name))))] = c.Dice.Modes[name]
	}
	c.Dice.Modes = modes
}

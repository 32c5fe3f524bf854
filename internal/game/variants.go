package game

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakes-foxes/internal/config"
	"github.com/vovakirdan/snakes-foxes/internal/registry"
)

// Variants differ only in board size. Zero dimensions keep the configured
// board.
var variants = []registry.Info{
	{
		ID:          "classic",
		Title:       "Snakes and Foxes",
		Description: "The configured board, six rings of ten by default",
	},
	{
		ID:           "small",
		Title:        "Snakes and Foxes (small)",
		Description:  "Four rings of eight for a quick game",
		Rings:        4,
		NodesPerRing: 8,
	},
	{
		ID:           "large",
		Title:        "Snakes and Foxes (large)",
		Description:  "Eight rings of twelve and a longer trip out",
		Rings:        8,
		NodesPerRing: 12,
	},
}

func init() {
	for _, info := range variants {
		registry.Register(info, factoryFor(info))
	}
}

func factoryFor(info registry.Info) registry.Factory {
	return func(cfg config.GameConfig, logger *log.Logger) (registry.Game, error) {
		if info.Rings > 0 {
			cfg.Board.Rings = info.Rings
			cfg.Board.NodesPerRing = info.NodesPerRing
		}
		g, err := New(Options{
			Variant: info.ID,
			Title:   info.Title,
			Config:  cfg,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

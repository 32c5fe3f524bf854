package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakes-foxes/internal/platform/tui"
	"github.com/vovakirdan/snakes-foxes/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a hot-seat game",
	Long: `Start a two-player game on one keyboard. The variant defaults to classic.

Controls:
  Space/R        - Roll the dice
  Left/Right/Tab - Choose among the highlighted moves
  Enter/Click    - Move there
  P              - Pause
  N              - New game (after game over)
  Esc/B          - Back
  Q/Ctrl+C       - Quit
  Ctrl+S         - Save a screenshot

Difficulty options:
  easy   - More move pips, fewer foxes and snakes
  medium - The classic dice
  hard   - Pursuers come more often

Examples:
  foxes play
  foxes play large
  foxes play small --difficulty easy
  foxes play --config ./my-board.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	variant := "classic"
	if len(args) == 1 {
		variant = args[0]
	}
	if !registry.Exists(variant) {
		return fmt.Errorf("unknown variant %q, run 'foxes list' to see them", variant)
	}

	_, err := playVariant(variant)
	return err
}

// playVariant runs one hot-seat session and reports whether the player
// went back rather than quitting.
func playVariant(variant string) (bool, error) {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return false, err
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	g, err := registry.Create(variant, gameCfg, logger)
	if err != nil {
		return false, err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	back, err := tui.Run(g, store, terminalConfig(), logger)
	if err != nil {
		return false, fmt.Errorf("running game: %w", err)
	}
	return back, nil
}

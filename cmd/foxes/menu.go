package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakes-foxes/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a game ends, Esc returns you to the menu to play again.

Examples:
  foxes menu
  foxes menu --fps 30
  foxes menu --db ./results.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg := terminalConfig()

	for {
		res, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}
		cfg = res.Config

		switch res.Item.Kind {
		case tui.MenuPlay:
			back, err := playVariant(res.Item.Variant)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}

		case tui.MenuResults:
			back, err := showResults(cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}

		default:
			return fmt.Errorf("menu entry %s is only available over SSH", res)
		}
	}
}

func showResults(width, height int) (bool, error) {
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	return tui.RunResults(store, width, height)
}

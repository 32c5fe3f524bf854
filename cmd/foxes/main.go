// foxes is Snakes and Foxes, a two-player race around a ring board, played
// in the terminal or over SSH.
//
// Usage:
//
//	foxes list               - List board variants
//	foxes play [variant]     - Play a hot-seat game
//	foxes menu               - Pick a variant interactively
//	foxes results [variant]  - Show recent results and win counts
//	foxes serve              - Start SSH server for remote and online play
//	foxes config init        - Write the default config for editing
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible dice
//	--db <path>           - Set database path (default: $XDG_DATA_HOME/snakes-foxes/results.db)
//	--config <path>       - Use a specific config YAML
//	--difficulty <mode>   - Dice preset: easy, medium, hard
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snakes-foxes/internal/config"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/dice"
	_ "github.com/vovakirdan/snakes-foxes/internal/game" // registers the board variants
	"github.com/vovakirdan/snakes-foxes/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "foxes",
	Short: "Snakes and Foxes - a ring board race in your terminal",
	Long: `Snakes and Foxes is a two-player board game on concentric rings.
Roll the dice, run out to the outer ring and make it back to the center
before the foxes and snakes catch you.

Available commands:
  list     - Show the board variants
  play     - Play a hot-seat game directly
  menu     - Interactive variant picker
  results  - Recent results and win counts
  serve    - Start SSH server for remote and online play
  config   - Write or show the game configuration

Examples:
  foxes play
  foxes play small --difficulty hard
  foxes menu
  foxes serve --ssh :2222
  foxes results classic`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (default $XDG_DATA_HOME/"+storage.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Dice preset: easy, medium, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadGameConfig loads the config and applies --difficulty on top.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		mode, err := dice.ParseMode(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, mode)
	}
	return cfg, nil
}

// newLogger returns a logger writing to w at the --log-level level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}

// fileLogger logs to the XDG state directory so output does not tear the
// alternate screen. It falls back to discarding.
func fileLogger() (*log.Logger, func()) {
	path, err := xdg.StateFile(filepath.Join("snakes-foxes", "foxes.log"))
	if err == nil {
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if openErr == nil {
			if logger, lvlErr := newLogger(f); lvlErr == nil {
				return logger, func() { f.Close() }
			}
			f.Close()
		}
	}
	return log.New(io.Discard), func() {}
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the results database, or returns nil with a warning so
// play can continue without recording.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return nil
	}
	return store
}

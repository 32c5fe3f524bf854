package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakes-foxes/internal/registry"
	"github.com/vovakirdan/snakes-foxes/internal/storage"
)

var (
	flagResultsLimit int
	flagResultsClear bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [variant]",
	Short: "Show recent results and win counts",
	Long: `Display the most recent finished games and the win counts per variant.
Without a variant every game is listed.

Examples:
  foxes results
  foxes results classic --limit 20
  foxes results small --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of games to show")
	resultsCmd.Flags().BoolVar(&flagResultsClear, "clear", false, "Delete the results of the variant")
}

func runResults(_ *cobra.Command, args []string) error {
	variant := ""
	if len(args) == 1 {
		variant = args[0]
		if !registry.Exists(variant) {
			return fmt.Errorf("unknown variant %q, run 'foxes list' to see them", variant)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	if flagResultsClear {
		if variant == "" {
			return fmt.Errorf("--clear needs a variant")
		}
		if err := store.ClearResults(variant); err != nil {
			return err
		}
		fmt.Printf("Cleared results of %s.\n", variant)
		return nil
	}

	results, err := store.RecentResults(variant, flagResultsLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Println("Run 'foxes play' to finish a first game!")
		return nil
	}

	fmt.Println("Recent games")
	fmt.Println()
	fmt.Printf("  %-16s  %-8s  %-6s  %-8s  %-6s  %-6s  %s\n", "Date", "Variant", "Board", "Winner", "Turns", "Pieces", "Reason")
	fmt.Printf("  %-16s  %-8s  %-6s  %-8s  %-6s  %-6s  %s\n", "----", "-------", "-----", "------", "-----", "------", "------")
	for _, r := range results {
		reason := r.Reason
		if r.Online {
			reason += " (online)"
		}
		fmt.Printf("  %-16s  %-8s  %-6s  %-8s  %-6d  %-6s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Variant,
			fmt.Sprintf("%dx%d", r.Rings, r.NodesPerRing),
			winnerLabel(r.Winner),
			r.Turns,
			fmt.Sprintf("%d:%d", r.Pieces1, r.Pieces2),
			reason,
		)
	}

	all, err := store.AllStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load stats: %v\n", err)
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		if variant == "" || id == variant {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	fmt.Println()
	fmt.Println("Win counts")
	fmt.Println()
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-8s  %3d games  P1 %3d  P2 %3d  no winner %3d  avg %.1f turns\n",
			id, st.Games, st.Wins[0], st.Wins[1], st.NoWinner, st.AvgTurns)
	}
	return nil
}

func winnerLabel(seat int) string {
	switch seat {
	case 0:
		return "P1"
	case 1:
		return "P2"
	default:
		return "-"
	}
}

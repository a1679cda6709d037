package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagRunsLimit       int
	flagRunsClear       bool
	flagRunsInteractive bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List journaled runs",
	Long: `Display the most recent runs from the journal.

With -i, opens an interactive table where Enter replays the selected run
and checks that it reproduces the recorded outcome.

Examples:
  flappy runs
  flappy runs --limit 50
  flappy runs -i
  flappy runs --clear`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete every journaled run")
	runsCmd.Flags().BoolVarP(&flagRunsInteractive, "interactive", "i", false, "Browse runs in an interactive table")
}

func runRuns(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening run journal: %w", err)
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run journal cleared.")
		return nil
	}

	if flagRunsInteractive {
		gameCfg, err := loadGameConfig()
		if err != nil {
			return err
		}
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunJournal(store, gameCfg, width, height)
	}

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recent runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-36s  %-12s  %-5s  %-8s  %s\n", "ID", "Player", "Score", "Cause", "Date")
	fmt.Printf("  %-36s  %-12s  %-5s  %-8s  %s\n", "--", "------", "-----", "-----", "----")
	for _, r := range runs {
		fmt.Printf("  %-36s  %-12s  %-5d  %-8s  %s\n",
			r.ID, r.Player, r.Score, r.Cause, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.BestScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

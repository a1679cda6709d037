package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-simulate a journaled run",
	Long: `Replay a run from its seed and recorded presses and compare the
outcome with the journal. The world config must match the one the run
was played with.

Examples:
  flappy replay 3f2a9c1e-5b7d-4c1a-9e2f-0a1b2c3d4e5f
  flappy replay <run-id> --config ./my-flappy.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening run journal: %w", err)
	}
	defer store.Close()

	rec, err := store.RunByID(args[0])
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no run with id %q", args[0])
	}
	if err != nil {
		return err
	}

	snap, ok := tui.VerifyRun(gameCfg, rec)

	fmt.Printf("Run %s by %s\n", rec.ID, rec.Player)
	fmt.Printf("  recorded: score %d, %s at tick %d, hash %016x\n", rec.Score, rec.Cause, rec.Ticks, rec.Hash)
	fmt.Printf("  replayed: score %d, %s at tick %d, hash %016x\n", snap.Score, snap.Cause, snap.Tick, snap.Hash())

	if !ok {
		return errors.New("replay diverged from the journal")
	}
	fmt.Println("Replay matches.")
	return nil
}

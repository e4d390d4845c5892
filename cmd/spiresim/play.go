package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiresim/spiresim/internal/game"
	"github.com/spiresim/spiresim/internal/platform/tui"
	"github.com/spiresim/spiresim/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run interactively",
	Long: `Start an interactive run in the terminal.

Controls:
  Left/Right   - Select map node or card
  Up/Down      - Select option
  Enter        - Confirm
  Tab          - Cycle battle target
  E            - End turn
  X            - Skip reward
  R / S        - Rest / Smith at a campfire
  B / Esc      - Leave shop
  N            - New run (after the run ends)
  Q / Ctrl+C   - Quit

Examples:
  spiresim play
  spiresim play --seed 42
  spiresim play --config ./my-engine.yaml`,
	Run: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadEngineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	world, err := game.NewWorld(flagSeed, cfg, flagCharacter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating run: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the run still works
		store = nil
	}

	runErr := tui.Run(world, store)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running: %v\n", runErr)
		os.Exit(1)
	}
}

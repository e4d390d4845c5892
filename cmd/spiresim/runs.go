package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spiresim/spiresim/internal/platform/tui"
	"github.com/spiresim/spiresim/internal/storage"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse recorded run history",
	Long: `Open an interactive table of recorded runs.

Keys:
  Up/Down      - Scroll
  Tab/S-Tab    - Switch character
  O            - Toggle recent/best ordering
  Q/Esc        - Quit

Examples:
  spiresim runs
  spiresim runs --db ./runs.db`,
	Run: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.RunRunboard(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

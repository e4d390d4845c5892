// spiresim is a deterministic roguelike run simulator for the terminal.
//
// Usage:
//
//	spiresim play               - Play a run interactively
//	spiresim rollout            - Drive random-policy rollouts headlessly
//	spiresim runs               - Browse recorded run history
//	spiresim serve              - Start SSH server for remote play
//	spiresim characters         - List playable characters
//
// Global flags:
//
//	--seed <value>   - RNG seed for reproducible runs (0 = random)
//	--db <path>      - Runs database path (default: ~/.spiresim/runs.db)
//	--config <path>  - Custom engine config YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiresim/spiresim/internal/config"
)

var (
	// Global flags
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagCharacter string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spiresim",
	Short: "spiresim - deterministic spire-climbing runs in your terminal",
	Long: `spiresim simulates deck-building roguelike runs with a fully
deterministic engine: the same seed and the same commands always produce
the same run.

Available commands:
  play        - Play a run interactively
  rollout     - Drive headless random-policy rollouts
  runs        - Browse recorded run history
  serve       - Start SSH server for remote play
  characters  - List playable characters

Examples:
  spiresim play
  spiresim play --seed 42
  spiresim rollout --count 100
  spiresim runs
  spiresim serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.spiresim/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagCharacter, "character", "", "Character to play (default: ironclad)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(rolloutCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(charactersCmd)
}

// loadEngineConfig resolves the engine config from the global flag.
func loadEngineConfig() (config.EngineConfig, error) {
	return config.Load(flagConfig)
}

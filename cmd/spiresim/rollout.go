package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/spiresim/spiresim/internal/game"
	"github.com/spiresim/spiresim/internal/rng"
	"github.com/spiresim/spiresim/internal/storage"
)

var (
	flagRolloutCount int
	flagRolloutSteps int
	flagRolloutSave  bool
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Drive headless random-policy rollouts",
	Long: `Run complete episodes without a UI, stepping the engine with a
random legal policy. Useful for soak testing the engine and for producing
baseline statistics.

Every command the policy emits passes the legality table, so any error the
engine returns during a rollout is reported as an engine fault.

Examples:
  spiresim rollout
  spiresim rollout --count 100
  spiresim rollout --seed 42 --count 1
  spiresim rollout --count 50 --save`,
	Run: runRollout,
}

func init() {
	rolloutCmd.Flags().IntVar(&flagRolloutCount, "count", 10, "Number of episodes to run")
	rolloutCmd.Flags().IntVar(&flagRolloutSteps, "max-steps", 10000, "Step cap per episode")
	rolloutCmd.Flags().BoolVar(&flagRolloutSave, "save", false, "Record finished episodes in the runs database")
}

func runRollout(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rollout",
	})

	cfg, err := loadEngineConfig()
	if err != nil {
		logger.Fatal("cannot load config", "error", err)
	}

	var store *storage.Store
	if flagRolloutSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Fatal("cannot open runs database", "error", err)
		}
		defer store.Close()
	}

	baseSeed := flagSeed
	if baseSeed == 0 {
		baseSeed, _ = rng.NewSeed()
	}

	var victories, defeats, truncated, faults int
	var totalFloor, totalSteps int

	for i := 0; i < flagRolloutCount; i++ {
		seed := baseSeed + int64(i)
		world, err := game.NewWorld(seed, cfg, flagCharacter)
		if err != nil {
			logger.Fatal("cannot create world", "seed", seed, "error", err)
		}
		policy := rng.New(seed ^ 0x5eed)
		started := time.Now()

		var snap game.Snapshot
		steps := 0
		for ; steps < flagRolloutSteps; steps++ {
			snap = world.Snapshot()
			if snap.EpisodeOver {
				break
			}
			cmd := game.RandomCommand(world, policy)
			if snap, err = world.Apply(cmd); err != nil {
				var inv *game.InvariantViolationError
				if errors.As(err, &inv) {
					logger.Error("invariant violation", "seed", seed, "step", steps, "command", cmd, "error", err)
				} else {
					logger.Error("legal command rejected", "seed", seed, "step", steps, "command", cmd, "error", err)
				}
				faults++
			}
		}

		switch {
		case snap.Screen == game.ScreenVictory:
			victories++
		case snap.Screen == game.ScreenGameOver:
			defeats++
		default:
			truncated++
		}
		totalFloor += snap.Floor
		totalSteps += steps

		logger.Info("episode finished",
			"seed", seed,
			"screen", snap.Screen,
			"act", snap.Act,
			"floor", snap.Floor,
			"steps", steps,
			"rng_draws", snap.RNGDraws,
		)

		if store != nil {
			if _, saveErr := store.SaveRun(storage.RunRecord{
				Seed:              seed,
				Character:         world.Character(),
				FloorReached:      snap.Floor,
				Act:               snap.Act,
				Victory:           snap.Screen == game.ScreenVictory,
				Steps:             steps,
				SuspiciousRegains: world.SuspiciousRegains(),
				Duration:          int(time.Since(started).Seconds()),
			}); saveErr != nil {
				logger.Warn("cannot save run", "seed", seed, "error", saveErr)
			}
		}
	}

	fmt.Printf("\n%d episodes: %d victories, %d defeats, %d truncated\n",
		flagRolloutCount, victories, defeats, truncated)
	if flagRolloutCount > 0 {
		fmt.Printf("avg floor %.1f, avg steps %.1f\n",
			float64(totalFloor)/float64(flagRolloutCount),
			float64(totalSteps)/float64(flagRolloutCount))
	}
	if faults > 0 {
		fmt.Printf("%d engine faults\n", faults)
		os.Exit(1)
	}
}

package game

import (
	"errors"
	"testing"

	"github.com/spiresim/spiresim/internal/config"
	"github.com/spiresim/spiresim/internal/rng"
)

func newTestWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w, err := NewWorld(seed, config.Default(), "")
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestNewWorldInitialState(t *testing.T) {
	w := newTestWorld(t, 7)
	snap := w.Snapshot()

	if snap.Screen != ScreenMap {
		t.Fatalf("initial screen = %s, want MAP", snap.Screen)
	}
	if snap.Act != 1 || snap.Floor != 0 {
		t.Fatalf("initial act/floor = %d/%d, want 1/0", snap.Act, snap.Floor)
	}
	if snap.Y != -1 {
		t.Fatalf("initial y = %d, want -1 (not yet on the map)", snap.Y)
	}
	if snap.HP != 80 || snap.MaxHP != 80 {
		t.Fatalf("initial hp = %d/%d, want 80/80", snap.HP, snap.MaxHP)
	}
	if snap.Gold != 99 {
		t.Fatalf("initial gold = %d, want 99", snap.Gold)
	}
	if snap.DeckSize != 10 {
		t.Fatalf("initial deck size = %d, want 10", snap.DeckSize)
	}
	if snap.RelicCount != 1 {
		t.Fatalf("initial relic count = %d, want 1", snap.RelicCount)
	}
	if snap.EpisodeOver {
		t.Fatal("fresh episode reports over")
	}
}

func TestGuardrailTotality(t *testing.T) {
	// Every screen/kind pair must have a definite answer; no combination
	// may panic or fall through.
	for _, screen := range AllScreens {
		for _, kind := range AllCommandKinds {
			legal := CommandLegal(screen, kind)
			if kind == KindReset && !legal {
				t.Errorf("reset illegal on %s", screen)
			}
			if screen.Terminal() && kind != KindReset && legal {
				t.Errorf("%s legal on terminal screen %s", kind, screen)
			}
		}
	}

	if CommandLegal(ScreenEvent, KindRegainControl) {
		t.Error("regain_control legal on EVENT, but events have a required choice")
	}
	if !CommandLegal(ScreenCardReward, KindRegainControl) {
		t.Error("regain_control illegal on CARD_REWARD")
	}
}

func TestIllegalCommandLeavesWorldUnchanged(t *testing.T) {
	w := newTestWorld(t, 11)
	before := w.Snapshot()

	_, err := w.Apply(EndTurn{})
	var illegal *IllegalCommandError
	if !errors.As(err, &illegal) {
		t.Fatalf("EndTurn on MAP: err = %v, want IllegalCommandError", err)
	}
	if got := w.Snapshot(); got != before {
		t.Fatalf("world changed on rejected command: %+v -> %+v", before, got)
	}
}

func TestChooseMapNodeValidation(t *testing.T) {
	w := newTestWorld(t, 13)
	before := w.Snapshot()

	if _, err := w.Apply(ChooseMapNode{X: -1}); err == nil {
		t.Fatal("negative column accepted")
	}
	if _, err := w.Apply(ChooseMapNode{X: w.Map().Width}); err == nil {
		t.Fatal("column past the map edge accepted")
	}

	// A row-0 column with no node must be rejected too.
	for x := 0; x < w.Map().Width; x++ {
		if w.Map().NodeAt(x, 0) == nil {
			_, err := w.Apply(ChooseMapNode{X: x})
			var illegal *IllegalCommandError
			if !errors.As(err, &illegal) {
				t.Fatalf("empty column %d: err = %v, want IllegalCommandError", x, err)
			}
			break
		}
	}

	if got := w.Snapshot(); got != before {
		t.Fatalf("world changed on rejected map choice")
	}
}

func TestChooseMapNodeRejectedOnBossRow(t *testing.T) {
	w := newTestWorld(t, 29)
	w.x, w.y = w.worldMap.BossX(), w.worldMap.Height-1
	before := w.Snapshot()

	_, err := w.Apply(ChooseMapNode{X: 0})
	var illegal *IllegalCommandError
	if !errors.As(err, &illegal) {
		t.Fatalf("boss row map choice: err = %v, want IllegalCommandError", err)
	}
	if got := w.Snapshot(); got != before {
		t.Fatalf("world changed on rejected boss-row choice")
	}
}

func TestFirstNodeOpensBattle(t *testing.T) {
	w := newTestWorld(t, 17)

	x := firstReachableColumn(w)
	snap, err := w.Apply(ChooseMapNode{X: x})
	if err != nil {
		t.Fatalf("ChooseMapNode(%d): %v", x, err)
	}

	// Row 0 is always a regular combat.
	if snap.Screen != ScreenBattle {
		t.Fatalf("screen = %s after first node, want BATTLE", snap.Screen)
	}
	if w.Battle() == nil {
		t.Fatal("no battle sub-state on BATTLE screen")
	}
	if snap.Floor != 1 || snap.Y != 0 || snap.X != x {
		t.Fatalf("position = floor %d (%d,%d), want floor 1 (%d,0)", snap.Floor, snap.X, snap.Y, x)
	}
	if snap.MonstersAlive == 0 || snap.HandSize == 0 {
		t.Fatalf("battle not set up: %d monsters, %d cards in hand", snap.MonstersAlive, snap.HandSize)
	}
}

// warpToLastRow places the world on the row just below the boss, at the
// given act and floor, with a freshly generated act map.
func warpToLastRow(t *testing.T, w *World, act, floor int) {
	t.Helper()
	w.act = act
	w.floor = floor
	w.worldMap = w.generateMap(act)
	row := w.worldMap.Row(w.worldMap.Height - 2)
	if len(row) == 0 {
		t.Fatal("no nodes on the last row")
	}
	w.x, w.y = row[0].X, w.worldMap.Height-2
}

// defeatBoss enters the boss node and wins the fight with one attack.
func defeatBoss(t *testing.T, w *World) Snapshot {
	t.Helper()

	snap, err := w.Apply(ChooseMapNode{X: w.worldMap.BossX()})
	if err != nil {
		t.Fatalf("ChooseMapNode(boss): %v", err)
	}
	if snap.Screen != ScreenBattle {
		t.Fatalf("boss node opened %s, want BATTLE", snap.Screen)
	}

	b := w.Battle()
	if len(b.Monsters) != 1 {
		t.Fatalf("boss encounter has %d monsters, want 1", len(b.Monsters))
	}
	b.Monsters[0].HP = 1

	attack := -1
	for i, c := range b.Hand {
		if c.Damage > 0 && c.Cost <= b.Energy {
			attack = i
			break
		}
	}
	if attack < 0 {
		t.Fatal("no playable attack in the opening hand")
	}

	snap, err = w.Apply(PlayCard{Card: attack, Target: 0})
	if err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if snap.Screen != ScreenCardReward {
		t.Fatalf("boss victory landed on %s, want CARD_REWARD", snap.Screen)
	}
	return snap
}

func TestActTwoBossDefeatAdvancesAct(t *testing.T) {
	w := newTestWorld(t, 101)
	warpToLastRow(t, w, 2, 32)

	defeatBoss(t, w)

	// Reward chain: card reward first, then the boss relic, then the act
	// boundary in one indivisible step.
	snap, err := w.Apply(SkipCardReward{})
	if err != nil {
		t.Fatalf("SkipCardReward: %v", err)
	}
	if snap.Screen != ScreenBossRelicReward {
		t.Fatalf("after reward: screen = %s, want BOSS_RELIC_REWARD", snap.Screen)
	}
	if len(w.BossRelicChoices()) == 0 {
		t.Fatal("no boss relics offered")
	}

	snap, err = w.Apply(ChooseBossRelic{Option: 0})
	if err != nil {
		t.Fatalf("ChooseBossRelic: %v", err)
	}
	if snap.Act != 3 {
		t.Errorf("act = %d, want 3", snap.Act)
	}
	if snap.Floor != 34 {
		t.Errorf("floor = %d, want 34", snap.Floor)
	}
	if snap.Y != -1 {
		t.Errorf("y = %d, want -1", snap.Y)
	}
	if snap.Screen != ScreenMap {
		t.Errorf("screen = %s, want MAP", snap.Screen)
	}
	if snap.EpisodeOver {
		t.Error("episode reported over at an act boundary")
	}
}

func TestFinalBossDefeatEntersVictory(t *testing.T) {
	w := newTestWorld(t, 103)
	warpToLastRow(t, w, 3, 49)

	snap := defeatBoss(t, w)
	if snap.Floor != 50 {
		t.Fatalf("boss fight floor = %d, want 50", snap.Floor)
	}

	snap, err := w.Apply(SkipCardReward{})
	if err != nil {
		t.Fatalf("SkipCardReward: %v", err)
	}
	if snap.Screen != ScreenVictory {
		t.Fatalf("screen = %s, want VICTORY", snap.Screen)
	}
	if !snap.EpisodeOver {
		t.Error("VICTORY did not report the episode over")
	}
	if snap.Act != 3 || snap.Floor != 50 {
		t.Errorf("finished at act %d floor %d, want 3/50", snap.Act, snap.Floor)
	}
}

func TestIdleContinuationOnSubFlowIsViolation(t *testing.T) {
	w := newTestWorld(t, 31)
	w.screen = ScreenTreasure
	w.cont = ContIdle
	before := w.Snapshot()

	_, err := w.Apply(OpenTreasure{})
	var inv *InvariantViolationError
	if !errors.As(err, &inv) {
		t.Fatalf("idle continuation dismissal: err = %v, want InvariantViolationError", err)
	}
	if got := w.Snapshot(); got != before {
		t.Fatalf("world changed on invariant violation: %+v -> %+v", before, got)
	}
}

func TestApplyRecoversFromInternalPanic(t *testing.T) {
	// A BATTLE screen with no battle sub-state behind it makes execution
	// panic; the barrier must turn that into a typed result with the
	// world intact.
	w := newTestWorld(t, 37)
	w.screen = ScreenBattle
	before := w.Snapshot()

	_, err := w.Apply(EndTurn{})
	var inv *InvariantViolationError
	if !errors.As(err, &inv) {
		t.Fatalf("internal panic: err = %v, want InvariantViolationError", err)
	}
	if got := w.Snapshot(); got != before {
		t.Fatalf("world changed on recovered panic: %+v -> %+v", before, got)
	}
}

func TestRegainControlAtCampfireCountsSuspicious(t *testing.T) {
	w := newTestWorld(t, 41)
	w.screen = ScreenCampfire
	w.cont = ContGoToMap

	snap, err := w.Apply(RegainControl{})
	if err != nil {
		t.Fatalf("RegainControl on CAMPFIRE: %v", err)
	}
	if snap.Screen != ScreenMap {
		t.Fatalf("regain landed on %s, want MAP", snap.Screen)
	}
	if w.SuspiciousRegains() != 1 {
		t.Fatalf("suspicious regains = %d, want 1", w.SuspiciousRegains())
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	const seed = 19
	w := newTestWorld(t, seed)
	fresh := w.Snapshot()

	driveSteps(t, w, rng.New(seed), 40)

	snap, err := w.Apply(Reset{Seed: seed})
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if snap != fresh {
		t.Fatalf("reset snapshot differs from fresh world:\n got %+v\nwant %+v", snap, fresh)
	}
}

func TestDeterministicTrajectories(t *testing.T) {
	const seed = 23
	a := newTestWorld(t, seed)
	b := newTestWorld(t, seed)
	policyA := rng.New(seed + 1)
	policyB := rng.New(seed + 1)

	for step := 0; step < 400; step++ {
		if a.Snapshot().EpisodeOver {
			break
		}
		cmdA := pickCommand(a, policyA)
		cmdB := pickCommand(b, policyB)
		if cmdA.String() != cmdB.String() {
			t.Fatalf("step %d: policies diverged: %s vs %s", step, cmdA, cmdB)
		}
		snapA, errA := a.Apply(cmdA)
		snapB, errB := b.Apply(cmdB)
		if (errA == nil) != (errB == nil) {
			t.Fatalf("step %d: error divergence: %v vs %v", step, errA, errB)
		}
		if snapA != snapB {
			t.Fatalf("step %d (%s): snapshots diverged:\n a=%+v\n b=%+v", step, cmdA, snapA, snapB)
		}
	}
}

// TestEpisodeAudit drives full episodes on many seeds with a random legal
// policy and checks the global contract on every step: only typed,
// recoverable errors, monotonic progression and consistent act
// transitions.
func TestEpisodeAudit(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		w := newTestWorld(t, seed)
		policy := rng.New(seed * 977)
		prev := w.Snapshot()

		for step := 0; step < 5000; step++ {
			if prev.EpisodeOver {
				break
			}
			cmd := pickCommand(w, policy)
			snap, err := w.Apply(cmd)
			if err != nil {
				var inv *InvariantViolationError
				if errors.As(err, &inv) {
					t.Fatalf("seed %d step %d (%s): invariant violation: %v", seed, step, cmd, err)
				}
				if snap != prev {
					t.Fatalf("seed %d step %d (%s): state changed on error %v", seed, step, cmd, err)
				}
				continue
			}

			if snap.HP < 0 || snap.HP > snap.MaxHP {
				t.Fatalf("seed %d step %d: hp %d/%d out of range", seed, step, snap.HP, snap.MaxHP)
			}
			if snap.Floor < prev.Floor {
				t.Fatalf("seed %d step %d: floor went %d -> %d", seed, step, prev.Floor, snap.Floor)
			}
			if snap.Act != prev.Act {
				if snap.Act != prev.Act+1 {
					t.Fatalf("seed %d step %d: act jumped %d -> %d", seed, step, prev.Act, snap.Act)
				}
				if snap.Y != -1 || snap.Screen != ScreenMap {
					t.Fatalf("seed %d step %d: act boundary landed on %s y=%d, want MAP y=-1",
						seed, step, snap.Screen, snap.Y)
				}
			}
			if snap.Screen == ScreenVictory && snap.Act != config.Default().Acts {
				t.Fatalf("seed %d step %d: victory in act %d", seed, step, snap.Act)
			}
			if (snap.Screen == ScreenBattle) != (w.Battle() != nil) {
				t.Fatalf("seed %d step %d: screen %s but battle presence %v",
					seed, step, snap.Screen, w.Battle() != nil)
			}
			prev = snap
		}

		if w.SuspiciousRegains() != 0 {
			t.Errorf("seed %d: policy flagged %d suspicious regains", seed, w.SuspiciousRegains())
		}
	}
}

func TestRegainControlSkipsReward(t *testing.T) {
	// Win a fight on some seed, then throw the reward away. The world must
	// return to the map and count the skip as suspicious.
	for seed := int64(1); seed < 50; seed++ {
		w := newTestWorld(t, seed)
		policy := rng.New(seed)
		for step := 0; step < 2000 && !w.Snapshot().EpisodeOver; step++ {
			if w.Snapshot().Screen == ScreenCardReward {
				snap, err := w.Apply(RegainControl{})
				if err != nil {
					t.Fatalf("seed %d: RegainControl on CARD_REWARD: %v", seed, err)
				}
				if snap.Screen != ScreenMap {
					t.Fatalf("seed %d: regain landed on %s, want MAP", seed, snap.Screen)
				}
				if w.SuspiciousRegains() != 1 {
					t.Fatalf("seed %d: suspicious regains = %d, want 1", seed, w.SuspiciousRegains())
				}
				return
			}
			w.Apply(pickCommand(w, policy))
		}
	}
	t.Fatal("no seed produced a card reward within the step budget")
}

// firstReachableColumn returns the leftmost row-0 column the fresh world
// can move to.
func firstReachableColumn(w *World) int {
	for x := 0; x < w.Map().Width; x++ {
		if w.Map().Reachable(0, -1, x) && w.Map().NodeAt(x, 0) != nil {
			return x
		}
	}
	return 0
}

// pickCommand wraps the reference random policy for the driver tests.
func pickCommand(w *World, policy *rng.Stream) Command {
	return RandomCommand(w, policy)
}

// driveSteps advances the world with the random policy, ignoring the
// occasional rejected command.
func driveSteps(t *testing.T, w *World, policy *rng.Stream, steps int) {
	t.Helper()
	for i := 0; i < steps && !w.Snapshot().EpisodeOver; i++ {
		w.Apply(pickCommand(w, policy))
	}
}

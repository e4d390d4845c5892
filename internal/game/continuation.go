package game

// Continuation records what happens when the current sub-flow screen is
// dismissed. There is no unset variant: every transition that opens a
// sub-flow sets a concrete continuation first, and ContIdle is only valid
// while the world sits on the map or a terminal screen.
type Continuation int

const (
	ContIdle Continuation = iota
	ContGoToMap
	ContGoToBossReward
	ContAdvanceAct
	ContEnterVictory
)

// String returns the continuation name used in errors and snapshots.
func (c Continuation) String() string {
	switch c {
	case ContIdle:
		return "idle"
	case ContGoToMap:
		return "go_to_map"
	case ContGoToBossReward:
		return "go_to_boss_reward"
	case ContAdvanceAct:
		return "advance_act"
	case ContEnterVictory:
		return "enter_victory"
	default:
		return "unknown"
	}
}

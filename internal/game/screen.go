package game

// Screen is the current phase of the world. It gates which commands are
// legal and never changes except through a command transition.
type Screen int

const (
	ScreenMap Screen = iota
	ScreenEvent
	ScreenBattle
	ScreenCampfire
	ScreenShop
	ScreenTreasure
	ScreenCardReward
	ScreenBossRelicReward
	ScreenGameOver
	ScreenVictory
)

// String returns the screen name used in snapshots and errors.
func (s Screen) String() string {
	switch s {
	case ScreenMap:
		return "MAP"
	case ScreenEvent:
		return "EVENT"
	case ScreenBattle:
		return "BATTLE"
	case ScreenCampfire:
		return "CAMPFIRE"
	case ScreenShop:
		return "SHOP"
	case ScreenTreasure:
		return "TREASURE"
	case ScreenCardReward:
		return "CARD_REWARD"
	case ScreenBossRelicReward:
		return "BOSS_RELIC_REWARD"
	case ScreenGameOver:
		return "GAME_OVER"
	case ScreenVictory:
		return "VICTORY"
	default:
		return "UNKNOWN"
	}
}

// MarshalText serializes screens by name so snapshots stay readable.
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the screen ends the episode. Terminal screens
// have no outgoing transitions other than reset.
func (s Screen) Terminal() bool {
	return s == ScreenGameOver || s == ScreenVictory
}

// SubFlow reports whether the screen is a bounded side-activity that ends
// by resolving the pending continuation back toward the map or a terminal
// state.
func (s Screen) SubFlow() bool {
	switch s {
	case ScreenEvent, ScreenCampfire, ScreenShop, ScreenTreasure,
		ScreenCardReward, ScreenBossRelicReward:
		return true
	}
	return false
}

// AllScreens lists every screen, used by the guardrail totality sweep.
var AllScreens = []Screen{
	ScreenMap, ScreenEvent, ScreenBattle, ScreenCampfire, ScreenShop,
	ScreenTreasure, ScreenCardReward, ScreenBossRelicReward,
	ScreenGameOver, ScreenVictory,
}

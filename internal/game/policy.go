package game

import (
	"github.com/spiresim/spiresim/internal/rng"
)

// RandomCommand picks a uniformly random legal command for the world's
// current screen. It is the reference policy for rollouts and soak
// drivers: every command it emits passes the guardrail, so any error
// coming back from Apply is a bug.
func RandomCommand(w *World, policy *rng.Stream) Command {
	snap := w.Snapshot()
	switch snap.Screen {
	case ScreenMap:
		var cols []int
		for x := 0; x < w.Map().Width; x++ {
			if w.Map().Reachable(snap.X, snap.Y, x) && w.Map().NodeAt(x, snap.Y+1) != nil {
				cols = append(cols, x)
			}
		}
		return ChooseMapNode{X: cols[policy.Intn(len(cols))]}

	case ScreenBattle:
		b := w.Battle()
		playable := -1
		for i, c := range b.Hand {
			if c.Cost <= b.Energy {
				playable = i
				break
			}
		}
		if playable >= 0 && policy.Intn(3) != 0 {
			return PlayCard{Card: playable, Target: b.FirstAliveTarget()}
		}
		return EndTurn{}

	case ScreenEvent:
		return ChooseEventOption{Option: policy.Intn(len(w.Event().Options))}

	case ScreenCampfire:
		if policy.Intn(2) == 0 {
			return ChooseCampfireOption{Option: CampfireSmith}
		}
		return ChooseCampfireOption{Option: CampfireRest}

	case ScreenShop:
		if policy.Intn(2) == 0 {
			for i, item := range w.ShopStock() {
				if item.Price <= snap.Gold {
					return BuyShopItem{Item: i}
				}
			}
		}
		return LeaveShop{}

	case ScreenTreasure:
		return OpenTreasure{}

	case ScreenCardReward:
		if n := len(w.CardChoices()); n > 0 && policy.Intn(3) != 0 {
			return ChooseCardReward{Option: policy.Intn(n)}
		}
		return SkipCardReward{}

	case ScreenBossRelicReward:
		return ChooseBossRelic{Option: policy.Intn(len(w.BossRelicChoices()))}
	}
	return Reset{Seed: w.Seed()}
}

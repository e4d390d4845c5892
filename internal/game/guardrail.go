package game

// The command guardrail: a total table answering "is this command kind
// legal on this screen". It runs strictly before any state mutation; a kind
// absent from a screen's row is illegal, including kinds invented later.

var legalCommands = map[Screen]map[CommandKind]bool{
	ScreenMap: {
		KindChooseMapNode: true,
	},
	ScreenBattle: {
		KindPlayCard: true,
		KindEndTurn:  true,
	},
	ScreenEvent: {
		KindChooseEventOption: true,
		// regain_control is deliberately absent: an event always has a
		// pending required choice.
	},
	ScreenCampfire: {
		KindChooseCampfireOption: true,
		KindRegainControl:        true,
	},
	ScreenShop: {
		KindBuyShopItem:   true,
		KindLeaveShop:     true,
		KindRegainControl: true,
	},
	ScreenTreasure: {
		KindOpenTreasure:  true,
		KindRegainControl: true,
	},
	ScreenCardReward: {
		KindChooseCardReward: true,
		KindSkipCardReward:   true,
		KindRegainControl:    true,
	},
	ScreenBossRelicReward: {
		KindChooseBossRelic: true,
		KindRegainControl:   true,
	},
	ScreenGameOver: {},
	ScreenVictory:  {},
}

// CommandLegal is the pure guardrail predicate. Reset is legal everywhere;
// everything else consults the table.
func CommandLegal(screen Screen, kind CommandKind) bool {
	if kind == KindReset {
		return true
	}
	row, ok := legalCommands[screen]
	if !ok {
		return false
	}
	return row[kind]
}

// checkLegal validates cmd against the current world before execution. It
// covers the screen table plus the position-dependent rules that the table
// cannot express: boss-row map choices, map reachability and pending
// sub-flow content bounds.
func (w *World) checkLegal(cmd Command) error {
	reject := func(reason string) error {
		return &IllegalCommandError{Screen: w.screen, Command: cmd.String(), Reason: reason}
	}

	if !CommandLegal(w.screen, cmd.Kind()) {
		return &IllegalCommandError{Screen: w.screen, Command: cmd.String()}
	}

	switch c := cmd.(type) {
	case ChooseMapNode:
		if w.y >= w.worldMap.Height-1 {
			return reject("already on the boss row")
		}
		if c.X < 0 || c.X >= w.worldMap.Width {
			return reject("column out of range")
		}
		if !w.worldMap.Reachable(w.x, w.y, c.X) {
			return reject("node not reachable from current position")
		}
	case ChooseEventOption:
		if w.event == nil || c.Option < 0 || c.Option >= len(w.event.Options) {
			return reject("no such event option")
		}
	case ChooseCampfireOption:
		if c.Option != CampfireRest && c.Option != CampfireSmith {
			return reject("no such campfire option")
		}
	case ChooseCardReward:
		if c.Option < 0 || c.Option >= len(w.cardChoices) {
			return reject("no such card reward")
		}
	case ChooseBossRelic:
		if c.Option < 0 || c.Option >= len(w.bossRelicChoices) {
			return reject("no such boss relic")
		}
	case BuyShopItem:
		if c.Item < 0 || c.Item >= len(w.shopStock) {
			return reject("no such shop item")
		}
	}
	return nil
}

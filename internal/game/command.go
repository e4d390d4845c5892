package game

import "fmt"

// CommandKind identifies a command for the guardrail table. The set is
// closed: the guardrail has an answer for every kind on every screen.
type CommandKind int

const (
	KindReset CommandKind = iota
	KindPlayCard
	KindEndTurn
	KindChooseMapNode
	KindChooseEventOption
	KindChooseCampfireOption
	KindOpenTreasure
	KindChooseCardReward
	KindSkipCardReward
	KindChooseBossRelic
	KindBuyShopItem
	KindLeaveShop
	KindRegainControl
)

// String returns the wire name of the command kind.
func (k CommandKind) String() string {
	switch k {
	case KindReset:
		return "reset"
	case KindPlayCard:
		return "play_card"
	case KindEndTurn:
		return "end_turn"
	case KindChooseMapNode:
		return "choose_map_node"
	case KindChooseEventOption:
		return "choose_event_option"
	case KindChooseCampfireOption:
		return "choose_campfire_option"
	case KindOpenTreasure:
		return "choose_treasure_open"
	case KindChooseCardReward:
		return "choose_card_reward"
	case KindSkipCardReward:
		return "skip_card_reward"
	case KindChooseBossRelic:
		return "choose_boss_relic"
	case KindBuyShopItem:
		return "buy_shop_item"
	case KindLeaveShop:
		return "leave_shop"
	case KindRegainControl:
		return "regain_control"
	default:
		return "unknown"
	}
}

// AllCommandKinds lists every kind, used by the guardrail totality sweep.
var AllCommandKinds = []CommandKind{
	KindReset, KindPlayCard, KindEndTurn, KindChooseMapNode,
	KindChooseEventOption, KindChooseCampfireOption, KindOpenTreasure,
	KindChooseCardReward, KindSkipCardReward, KindChooseBossRelic,
	KindBuyShopItem, KindLeaveShop, KindRegainControl,
}

// Command is an external instruction to the world. Implementations are
// plain values; the world never retains them.
type Command interface {
	Kind() CommandKind
	fmt.Stringer
}

// Reset discards the world and recreates it from the given seed.
// Legal from every screen.
type Reset struct {
	Seed int64
}

func (Reset) Kind() CommandKind { return KindReset }
func (c Reset) String() string  { return fmt.Sprintf("reset(%d)", c.Seed) }

// PlayCard plays hand slot Card against monster slot Target. Target is
// ignored for cards that do not need one.
type PlayCard struct {
	Card   int
	Target int
}

func (PlayCard) Kind() CommandKind { return KindPlayCard }
func (c PlayCard) String() string  { return fmt.Sprintf("play_card(%d, %d)", c.Card, c.Target) }

// EndTurn ends the player turn and runs the enemy phase.
type EndTurn struct{}

func (EndTurn) Kind() CommandKind { return KindEndTurn }
func (EndTurn) String() string    { return "end_turn()" }

// ChooseMapNode moves to column X on the next map row.
type ChooseMapNode struct {
	X int
}

func (ChooseMapNode) Kind() CommandKind { return KindChooseMapNode }
func (c ChooseMapNode) String() string  { return fmt.Sprintf("choose_map_node(%d)", c.X) }

// ChooseEventOption resolves event branch Option and dismisses the screen.
type ChooseEventOption struct {
	Option int
}

func (ChooseEventOption) Kind() CommandKind { return KindChooseEventOption }
func (c ChooseEventOption) String() string  { return fmt.Sprintf("choose_event_option(%d)", c.Option) }

// CampfireOption selects what to do at a campfire.
type CampfireOption int

const (
	CampfireRest CampfireOption = iota
	CampfireSmith
)

// ChooseCampfireOption rests or upgrades a card, then dismisses the screen.
type ChooseCampfireOption struct {
	Option CampfireOption
}

func (ChooseCampfireOption) Kind() CommandKind { return KindChooseCampfireOption }
func (c ChooseCampfireOption) String() string {
	return fmt.Sprintf("choose_campfire_option(%d)", c.Option)
}

// OpenTreasure opens the chest and dismisses the screen.
type OpenTreasure struct{}

func (OpenTreasure) Kind() CommandKind { return KindOpenTreasure }
func (OpenTreasure) String() string    { return "choose_treasure_open()" }

// ChooseCardReward takes offered card Option into the deck.
type ChooseCardReward struct {
	Option int
}

func (ChooseCardReward) Kind() CommandKind { return KindChooseCardReward }
func (c ChooseCardReward) String() string  { return fmt.Sprintf("choose_card_reward(%d)", c.Option) }

// SkipCardReward declines the offered cards.
type SkipCardReward struct{}

func (SkipCardReward) Kind() CommandKind { return KindSkipCardReward }
func (SkipCardReward) String() string    { return "skip_card_reward()" }

// ChooseBossRelic takes offered boss relic Option and advances the act.
type ChooseBossRelic struct {
	Option int
}

func (ChooseBossRelic) Kind() CommandKind { return KindChooseBossRelic }
func (c ChooseBossRelic) String() string  { return fmt.Sprintf("choose_boss_relic(%d)", c.Option) }

// BuyShopItem purchases shop slot Item. The shop stays open.
type BuyShopItem struct {
	Item int
}

func (BuyShopItem) Kind() CommandKind { return KindBuyShopItem }
func (c BuyShopItem) String() string  { return fmt.Sprintf("buy_shop_item(%d)", c.Item) }

// LeaveShop dismisses the shop.
type LeaveShop struct{}

func (LeaveShop) Kind() CommandKind { return KindLeaveShop }
func (LeaveShop) String() string    { return "leave_shop()" }

// RegainControl forces continuation resolution from a sub-flow screen whose
// content needs no further required input. Escape hatch for stuck flows.
type RegainControl struct{}

func (RegainControl) Kind() CommandKind { return KindRegainControl }
func (RegainControl) String() string    { return "regain_control()" }

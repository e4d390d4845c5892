// Package game implements the engine core: the per-episode world state, its
// screen state machine, the command guardrail and the continuation mechanism
// that hands control back after a sub-flow closes. A World is strictly
// sequential and shares nothing with other instances, so independent worlds
// can be stepped in parallel without locking.
package game

import (
	"fmt"

	"github.com/spiresim/spiresim/internal/config"
	"github.com/spiresim/spiresim/internal/content"
	"github.com/spiresim/spiresim/internal/game/battle"
	"github.com/spiresim/spiresim/internal/game/spiremap"
	"github.com/spiresim/spiresim/internal/rng"
)

// Resources is the player-owned world state outside combat.
type Resources struct {
	HP     int
	MaxHP  int
	Gold   int
	Deck   []content.Card
	Relics []content.Relic
}

// ShopItem is one purchasable shop slot; exactly one of Card or Relic is
// set.
type ShopItem struct {
	Card  *content.Card
	Relic *content.Relic
	Price int
}

// Name returns the display name of the item.
func (s ShopItem) Name() string {
	if s.Card != nil {
		return s.Card.Name
	}
	if s.Relic != nil {
		return s.Relic.Name
	}
	return "?"
}

// World is the aggregate mutable state of one simulated episode. Exactly one
// command is processed at a time; Apply either commits a fully valid new
// state or leaves the world untouched.
type World struct {
	cfg       config.EngineConfig
	character content.Character

	screen Screen
	act    int
	floor  int
	x, y   int

	res Resources

	worldMap *spiremap.Map
	bat      *battle.Battle
	cont     Continuation
	stream   *rng.Stream

	// Pending sub-flow content, populated while the matching screen is
	// active and cleared when it closes.
	event            *content.Event
	cardChoices      []content.Card
	bossRelicChoices []content.Relic
	shopStock        []ShopItem

	battleTier content.Tier

	suspiciousRegains int
}

// NewWorld creates a fresh episode for the given seed. A zero seed draws
// one from the system source so distinct episodes still diverge.
func NewWorld(seed int64, cfg config.EngineConfig, characterID string) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := content.Load(); err != nil {
		return nil, err
	}
	if characterID == "" {
		characterID = content.DefaultCharacterID
	}
	char, err := content.CharacterByID(characterID)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		// The wall-clock fallback seed is still usable on error.
		seed, _ = rng.NewSeed()
	}

	w := &World{
		cfg:       cfg,
		character: char,
		screen:    ScreenMap,
		act:       1,
		floor:     0,
		x:         0,
		y:         -1,
		cont:      ContIdle,
		stream:    rng.New(seed),
	}

	w.res = Resources{
		HP:    char.MaxHP,
		MaxHP: char.MaxHP,
		Gold:  char.Gold,
	}
	for _, id := range char.Deck {
		card, err := content.CardByID(id)
		if err != nil {
			return nil, err
		}
		w.res.Deck = append(w.res.Deck, card)
	}
	for _, id := range char.Relics {
		relic, err := content.RelicByID(id)
		if err != nil {
			return nil, err
		}
		w.addRelic(relic)
	}

	w.worldMap = w.generateMap(1)
	return w, nil
}

// Seed returns the seed this episode runs on.
func (w *World) Seed() int64 { return w.stream.Seed() }

// Character returns the ID of the character being played.
func (w *World) Character() string { return w.character.ID }

// Map exposes the current act map for rendering.
func (w *World) Map() *spiremap.Map { return w.worldMap }

// Battle exposes the active battle, nil outside combat.
func (w *World) Battle() *battle.Battle { return w.bat }

// Event exposes the active event, nil outside events.
func (w *World) Event() *content.Event { return w.event }

// CardChoices exposes the pending card reward offer.
func (w *World) CardChoices() []content.Card { return w.cardChoices }

// BossRelicChoices exposes the pending boss relic offer.
func (w *World) BossRelicChoices() []content.Relic { return w.bossRelicChoices }

// ShopStock exposes the current shop inventory.
func (w *World) ShopStock() []ShopItem { return w.shopStock }

// Resources exposes a copy of the player resources.
func (w *World) Resources() Resources {
	res := w.res
	res.Deck = append([]content.Card(nil), w.res.Deck...)
	res.Relics = append([]content.Relic(nil), w.res.Relics...)
	return res
}

// SuspiciousRegains counts regain_control uses that skipped content which
// was still actionable. Always zero on a well-behaved driver.
func (w *World) SuspiciousRegains() int { return w.suspiciousRegains }

func (w *World) generateMap(act int) *spiremap.Map {
	return spiremap.Generate(
		w.stream.Fork(fmt.Sprintf("map/act/%d", act)),
		w.cfg.Map.Width, w.cfg.Map.Height,
	)
}

// Apply validates and executes one command. On any error the world is left
// exactly as it was; on success the returned snapshot describes the new
// state. Internal panics surface as *InvariantViolationError, never as a
// process abort.
func (w *World) Apply(cmd Command) (snap Snapshot, err error) {
	if reset, ok := cmd.(Reset); ok {
		return w.reset(reset.Seed)
	}

	if legalErr := w.checkLegal(cmd); legalErr != nil {
		return w.Snapshot(), legalErr
	}

	next := w.clone()

	defer func() {
		if r := recover(); r != nil {
			snap = w.Snapshot()
			err = &InvariantViolationError{
				Check:   fmt.Sprintf("panic: %v", r),
				Command: cmd.String(),
			}
		}
	}()

	if execErr := next.execute(cmd); execErr != nil {
		return w.Snapshot(), execErr
	}
	if invErr := next.checkInvariants(w); invErr != nil {
		return w.Snapshot(), &InvariantViolationError{Check: invErr.Error(), Command: cmd.String()}
	}

	*w = *next
	return w.Snapshot(), nil
}

// reset rebuilds the world in place. Always legal, always succeeds on a
// seed/config pair that constructed a world before.
func (w *World) reset(seed int64) (Snapshot, error) {
	fresh, err := NewWorld(seed, w.cfg, w.character.ID)
	if err != nil {
		return w.Snapshot(), &InvariantViolationError{Check: err.Error(), Command: "reset"}
	}
	*w = *fresh
	return w.Snapshot(), nil
}

// clone deep-copies the world so execution is all-or-nothing.
func (w *World) clone() *World {
	c := *w
	c.res.Deck = append([]content.Card(nil), w.res.Deck...)
	c.res.Relics = append([]content.Relic(nil), w.res.Relics...)
	c.bat = w.bat.Clone()
	streamCopy := *w.stream
	c.stream = &streamCopy
	c.cardChoices = append([]content.Card(nil), w.cardChoices...)
	c.bossRelicChoices = append([]content.Relic(nil), w.bossRelicChoices...)
	c.shopStock = append([]ShopItem(nil), w.shopStock...)
	// worldMap and event are immutable once generated; sharing is safe.
	return &c
}

func (w *World) execute(cmd Command) error {
	switch c := cmd.(type) {
	case ChooseMapNode:
		return w.chooseMapNode(c.X)
	case PlayCard:
		if err := w.bat.PlayCard(w.stream, c.Card, c.Target); err != nil {
			return err
		}
		w.afterBattleCommand()
		return nil
	case EndTurn:
		w.bat.EndTurn(w.stream)
		w.afterBattleCommand()
		return nil
	case ChooseEventOption:
		return w.chooseEventOption(c.Option)
	case ChooseCampfireOption:
		return w.chooseCampfireOption(c.Option)
	case OpenTreasure:
		w.grantRandomRelic()
		return w.resolveContinuation()
	case ChooseCardReward:
		w.res.Deck = append(w.res.Deck, w.cardChoices[c.Option])
		w.cardChoices = nil
		return w.resolveContinuation()
	case SkipCardReward:
		w.cardChoices = nil
		return w.resolveContinuation()
	case ChooseBossRelic:
		w.addRelic(w.bossRelicChoices[c.Option])
		w.bossRelicChoices = nil
		return w.resolveContinuation()
	case BuyShopItem:
		return w.buyShopItem(c.Item)
	case LeaveShop:
		w.shopStock = nil
		return w.resolveContinuation()
	case RegainControl:
		return w.regainControl()
	default:
		return &IllegalCommandError{Screen: w.screen, Command: cmd.String(), Reason: "unknown command"}
	}
}

// chooseMapNode advances to column x on the next row and opens whatever the
// destination node holds.
func (w *World) chooseMapNode(x int) error {
	w.x, w.y = x, w.y+1
	w.floor++

	node := w.worldMap.NodeAt(w.x, w.y)
	if node == nil {
		return &InvariantViolationError{Check: "destination node vanished"}
	}

	switch node.Type {
	case spiremap.NodeCombat:
		w.startBattle(content.TierNormal)
	case spiremap.NodeElite:
		w.startBattle(content.TierElite)
	case spiremap.NodeBoss:
		w.startBattle(content.TierBoss)
	case spiremap.NodeEvent:
		events := content.Events()
		w.event = &events[w.stream.Intn(len(events))]
		w.screen = ScreenEvent
		w.cont = ContGoToMap
	case spiremap.NodeShop:
		w.stockShop()
		w.screen = ScreenShop
		w.cont = ContGoToMap
	case spiremap.NodeRest:
		w.screen = ScreenCampfire
		w.cont = ContGoToMap
	case spiremap.NodeTreasure:
		w.screen = ScreenTreasure
		w.cont = ContGoToMap
	}
	return nil
}

// startBattle creates the battle sub-state and records where control goes
// once the post-combat flow finishes. Boss fights continue into the boss
// reward flow, or straight to victory on the final act.
func (w *World) startBattle(tier content.Tier) {
	encounter := w.rollEncounter(tier)

	opts := battle.Options{
		PlayerHP:    w.res.HP,
		PlayerMaxHP: w.res.MaxHP,
		Energy:      w.energy(),
		HandSize:    w.cfg.Player.HandSize,
	}
	for _, r := range w.res.Relics {
		opts.StrengthBonus += r.Strength
		opts.FirstTurnBlock += r.FirstTurnBlock
		opts.FirstTurnVuln += r.FirstTurnVulnerable
	}

	w.bat = battle.New(w.stream, w.res.Deck, encounter, opts)
	w.battleTier = tier
	w.screen = ScreenBattle

	switch {
	case tier != content.TierBoss:
		w.cont = ContGoToMap
	case w.act < w.cfg.Acts:
		w.cont = ContGoToBossReward
	default:
		w.cont = ContEnterVictory
	}
}

// rollEncounter picks monsters for the tier from the current act's pool.
// Normal fights field one or two monsters; elites and bosses exactly one.
func (w *World) rollEncounter(tier content.Tier) []content.Monster {
	pool := content.MonsterPool(w.act, tier)
	if len(pool) == 0 {
		// Content gap: fall back to act 1 so the fight can still happen.
		pool = content.MonsterPool(1, tier)
	}

	count := 1
	if tier == content.TierNormal {
		count = 1 + w.stream.Intn(2)
	}
	encounter := make([]content.Monster, count)
	for i := range encounter {
		encounter[i] = pool[w.stream.Intn(len(pool))]
	}
	return encounter
}

// afterBattleCommand syncs combat results back into world resources and, if
// the battle just resolved, tears it down and opens the follow-up screen.
func (w *World) afterBattleCommand() {
	w.res.HP = w.bat.PlayerHP

	if !w.bat.Resolved {
		return
	}

	outcome := w.bat.Outcome
	w.bat = nil

	if outcome == battle.OutcomeDefeat {
		w.screen = ScreenGameOver
		w.cont = ContIdle
		return
	}

	for _, r := range w.res.Relics {
		if r.HealAfterCombat > 0 {
			w.heal(r.HealAfterCombat)
		}
	}
	w.res.Gold += w.rollGoldReward()
	w.cardChoices = w.rollCardChoices()
	w.screen = ScreenCardReward
	// The continuation set when the battle started still points at the
	// post-reward destination.
}

func (w *World) rollGoldReward() int {
	r := w.cfg.Rewards
	switch w.battleTier {
	case content.TierElite:
		return w.stream.Range(r.EliteGoldMin, r.EliteGoldMax)
	case content.TierBoss:
		return r.BossGold
	default:
		return w.stream.Range(r.GoldMin, r.GoldMax)
	}
}

// rollCardChoices offers reward cards drawn from the non-starter pool.
func (w *World) rollCardChoices() []content.Card {
	pool := rewardCardPool()
	n := w.cfg.Rewards.CardChoices
	if n > len(pool) {
		n = len(pool)
	}
	choices := make([]content.Card, 0, n)
	taken := make(map[string]bool, n)
	for len(choices) < n {
		c := pool[w.stream.Intn(len(pool))]
		if taken[c.ID] {
			continue
		}
		taken[c.ID] = true
		choices = append(choices, c)
	}
	return choices
}

func rewardCardPool() []content.Card {
	var pool []content.Card
	for _, c := range content.Cards() {
		if c.ID == "strike" || c.ID == "defend" {
			continue
		}
		pool = append(pool, c)
	}
	return pool
}

func (w *World) chooseEventOption(i int) error {
	opt := w.event.Options[i]

	w.res.Gold += opt.Gold
	if w.res.Gold < 0 {
		w.res.Gold = 0
	}
	if opt.MaxHP != 0 {
		w.res.MaxHP += opt.MaxHP
		if w.res.MaxHP < 1 {
			w.res.MaxHP = 1
		}
	}
	if opt.HP > 0 {
		w.heal(opt.HP)
	}
	if opt.HP < 0 {
		// Events wound but never kill.
		w.res.HP += opt.HP
		if w.res.HP < 1 {
			w.res.HP = 1
		}
	}
	if w.res.HP > w.res.MaxHP {
		w.res.HP = w.res.MaxHP
	}
	if opt.AddCard != "" {
		card, err := content.CardByID(opt.AddCard)
		if err != nil {
			return &InvariantViolationError{Check: err.Error()}
		}
		w.res.Deck = append(w.res.Deck, card)
	}
	if opt.RemoveCard && len(w.res.Deck) > 1 {
		w.removeBasicCard()
	}
	switch opt.Relic {
	case "":
	case "random":
		w.grantRandomRelic()
	default:
		relic, err := content.RelicByID(opt.Relic)
		if err != nil {
			return &InvariantViolationError{Check: err.Error()}
		}
		w.addRelic(relic)
	}

	w.event = nil
	return w.resolveContinuation()
}

// removeBasicCard prefers thinning a starter card, falling back to the
// first card in the deck.
func (w *World) removeBasicCard() {
	for i, c := range w.res.Deck {
		if c.ID == "strike" || c.ID == "defend" {
			w.res.Deck = append(w.res.Deck[:i], w.res.Deck[i+1:]...)
			return
		}
	}
	w.res.Deck = w.res.Deck[1:]
}

func (w *World) chooseCampfireOption(opt CampfireOption) error {
	if opt == CampfireSmith {
		if i := w.firstUpgradable(); i >= 0 {
			w.res.Deck[i] = w.res.Deck[i].WithUpgrade()
			return w.resolveContinuation()
		}
		// Nothing to smith: fall through to resting.
	}

	heal := w.res.MaxHP * w.cfg.Player.CampfireHealPct / 100
	for _, r := range w.res.Relics {
		heal += r.RestHealBonus
	}
	w.heal(heal)
	return w.resolveContinuation()
}

func (w *World) firstUpgradable() int {
	for i, c := range w.res.Deck {
		if c.Upgradable() {
			return i
		}
	}
	return -1
}

func (w *World) heal(n int) {
	w.res.HP += n
	if w.res.HP > w.res.MaxHP {
		w.res.HP = w.res.MaxHP
	}
}

// grantRandomRelic adds an unowned relic from the regular pool; owning
// everything turns the grant into gold.
func (w *World) grantRandomRelic() {
	var candidates []content.Relic
	for _, r := range content.RelicPool() {
		if !w.hasRelic(r.ID) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		w.res.Gold += 25
		return
	}
	w.addRelic(candidates[w.stream.Intn(len(candidates))])
}

func (w *World) hasRelic(id string) bool {
	for _, r := range w.res.Relics {
		if r.ID == id {
			return true
		}
	}
	return false
}

// addRelic stores the relic and applies its acquisition effects.
func (w *World) addRelic(r content.Relic) {
	w.res.Relics = append(w.res.Relics, r)
	if r.MaxHP != 0 {
		w.res.MaxHP += r.MaxHP
		w.heal(r.MaxHP)
	}
	w.res.Gold += r.Gold
}

// energy returns the per-turn energy including relic bonuses.
func (w *World) energy() int {
	e := w.character.Energy
	for _, r := range w.res.Relics {
		e += r.Energy
	}
	return e
}

// stockShop rolls the shop inventory: cards from the reward pool and
// unowned relics, priced in the configured bands with relic discounts
// applied.
func (w *World) stockShop() {
	shop := w.cfg.Shop
	discount := 0
	for _, r := range w.res.Relics {
		discount += r.ShopDiscount
	}
	if discount > 90 {
		discount = 90
	}
	price := func(lo, hi int) int {
		p := w.stream.Range(lo, hi)
		return p * (100 - discount) / 100
	}

	w.shopStock = nil
	pool := rewardCardPool()
	for i := 0; i < shop.CardSlots && len(pool) > 0; i++ {
		c := pool[w.stream.Intn(len(pool))]
		w.shopStock = append(w.shopStock, ShopItem{Card: &c, Price: price(shop.CardPriceMin, shop.CardPriceMax)})
	}

	var relics []content.Relic
	for _, r := range content.RelicPool() {
		if !w.hasRelic(r.ID) {
			relics = append(relics, r)
		}
	}
	for i := 0; i < shop.RelicSlots && len(relics) > 0; i++ {
		idx := w.stream.Intn(len(relics))
		r := relics[idx]
		relics = append(relics[:idx], relics[idx+1:]...)
		w.shopStock = append(w.shopStock, ShopItem{Relic: &r, Price: price(shop.RelicPriceMin, shop.RelicPriceMax)})
	}
}

func (w *World) buyShopItem(i int) error {
	item := w.shopStock[i]
	if item.Price > w.res.Gold {
		return &InsufficientGoldError{Price: item.Price, Gold: w.res.Gold}
	}
	w.res.Gold -= item.Price
	if item.Card != nil {
		w.res.Deck = append(w.res.Deck, *item.Card)
	}
	if item.Relic != nil {
		w.addRelic(*item.Relic)
	}
	w.shopStock = append(w.shopStock[:i], w.shopStock[i+1:]...)
	return nil
}

// regainControl force-resolves the continuation, discarding any pending
// offer. Uses that throw away actionable content are counted as suspicious
// rather than rejected.
func (w *World) regainControl() error {
	switch w.screen {
	case ScreenCardReward:
		if len(w.cardChoices) > 0 {
			w.suspiciousRegains++
		}
	case ScreenBossRelicReward:
		if len(w.bossRelicChoices) > 0 {
			w.suspiciousRegains++
		}
	case ScreenTreasure:
		w.suspiciousRegains++
	case ScreenCampfire:
		// Walking away from a campfire throws the rest away too.
		w.suspiciousRegains++
	}
	w.event = nil
	w.cardChoices = nil
	w.bossRelicChoices = nil
	w.shopStock = nil
	return w.resolveContinuation()
}

// resolveContinuation transfers control after a sub-flow closes. Observing
// ContIdle here while a sub-flow screen is active is the historical
// null-continuation fault; it surfaces as a typed invariant violation.
func (w *World) resolveContinuation() error {
	switch w.cont {
	case ContGoToMap:
		w.screen = ScreenMap
		w.cont = ContIdle
		return nil
	case ContGoToBossReward:
		w.bossRelicChoices = w.rollBossRelics()
		w.screen = ScreenBossRelicReward
		w.cont = ContAdvanceAct
		return nil
	case ContAdvanceAct:
		w.advanceAct()
		return nil
	case ContEnterVictory:
		w.screen = ScreenVictory
		w.cont = ContIdle
		return nil
	default:
		if w.screen.SubFlow() {
			return &InvariantViolationError{Check: "continuation idle while dismissing sub-flow screen " + w.screen.String()}
		}
		return nil
	}
}

func (w *World) rollBossRelics() []content.Relic {
	pool := content.BossRelicPool()
	n := w.cfg.Rewards.BossRelics
	if n > len(pool) {
		n = len(pool)
	}
	choices := make([]content.Relic, 0, n)
	taken := make(map[string]bool, n)
	for len(choices) < n {
		r := pool[w.stream.Intn(len(pool))]
		if taken[r.ID] {
			continue
		}
		taken[r.ID] = true
		choices = append(choices, r)
	}
	return choices
}

// advanceAct is the single indivisible act boundary: new map, pre-map
// position, idle continuation. The floor counter steps once so the first
// node of the new act lands one floor above the boss fight.
func (w *World) advanceAct() {
	w.act++
	w.floor++
	w.worldMap = w.generateMap(w.act)
	w.x, w.y = 0, -1
	w.screen = ScreenMap
	w.cont = ContIdle
}

// checkInvariants verifies the postconditions every committed transition
// must satisfy. prev is the pre-command state for monotonicity checks.
func (w *World) checkInvariants(prev *World) error {
	h := w.worldMap.Height
	if w.y < -1 || w.y > h-1 {
		return fmt.Errorf("position y=%d outside [-1, %d]", w.y, h-1)
	}
	if w.y >= 0 && w.x >= 0 {
		if w.screen != ScreenGameOver && w.worldMap.NodeAt(w.x, w.y) == nil {
			return fmt.Errorf("position (%d,%d) is not a map node", w.x, w.y)
		}
	}
	if (w.bat != nil) != (w.screen == ScreenBattle) {
		return fmt.Errorf("battle presence (%v) disagrees with screen %s", w.bat != nil, w.screen)
	}
	if (w.screen == ScreenMap || w.screen.Terminal()) && w.cont != ContIdle {
		return fmt.Errorf("continuation %s pending on screen %s", w.cont, w.screen)
	}
	if w.screen.SubFlow() && w.cont == ContIdle {
		return fmt.Errorf("idle continuation on sub-flow screen %s", w.screen)
	}
	if w.act < prev.act || w.act > w.cfg.Acts {
		return fmt.Errorf("act moved from %d to %d", prev.act, w.act)
	}
	if w.floor < prev.floor {
		return fmt.Errorf("floor moved backwards from %d to %d", prev.floor, w.floor)
	}
	if w.res.HP < 0 || w.res.HP > w.res.MaxHP {
		return fmt.Errorf("hp %d outside [0, %d]", w.res.HP, w.res.MaxHP)
	}
	return nil
}

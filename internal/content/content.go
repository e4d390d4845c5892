// Package content holds the rules content the engine skeleton plugs into:
// card, monster, event and relic definitions loaded from embedded YAML, and
// the character registry. The engine core treats all of it as data.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/cards.yaml
var cardsYAML []byte

//go:embed data/monsters.yaml
var monstersYAML []byte

//go:embed data/events.yaml
var eventsYAML []byte

//go:embed data/relics.yaml
var relicsYAML []byte

// Card is a playable card. Damage and block are base values; Hits defaults
// to 1 when the card deals damage.
type Card struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Cost       int          `yaml:"cost"`
	Damage     int          `yaml:"damage"`
	Hits       int          `yaml:"hits"`
	Block      int          `yaml:"block"`
	Draw       int          `yaml:"draw"`
	Strength   int          `yaml:"strength"`
	Vulnerable int          `yaml:"vulnerable"`
	Weak       int          `yaml:"weak"`
	AllEnemies bool         `yaml:"all_enemies"`
	Exhaust    bool         `yaml:"exhaust"`
	Upgraded   bool         `yaml:"-"`
	Upgrade    *CardUpgrade `yaml:"upgrade"`
}

// CardUpgrade lists the fields an upgrade overrides. Nil fields keep the
// base value.
type CardUpgrade struct {
	Cost       *int `yaml:"cost"`
	Damage     *int `yaml:"damage"`
	Block      *int `yaml:"block"`
	Draw       *int `yaml:"draw"`
	Strength   *int `yaml:"strength"`
	Vulnerable *int `yaml:"vulnerable"`
	Weak       *int `yaml:"weak"`
}

// Upgradable reports whether the card has an upgrade defined and has not
// been upgraded yet.
func (c Card) Upgradable() bool {
	return !c.Upgraded && c.Upgrade != nil
}

// Upgraded returns the upgraded variant of the card. Cards without an
// upgrade definition are returned unchanged.
func (c Card) WithUpgrade() Card {
	if !c.Upgradable() {
		return c
	}
	u := c.Upgrade
	if u.Cost != nil {
		c.Cost = *u.Cost
	}
	if u.Damage != nil {
		c.Damage = *u.Damage
	}
	if u.Block != nil {
		c.Block = *u.Block
	}
	if u.Draw != nil {
		c.Draw = *u.Draw
	}
	if u.Strength != nil {
		c.Strength = *u.Strength
	}
	if u.Vulnerable != nil {
		c.Vulnerable = *u.Vulnerable
	}
	if u.Weak != nil {
		c.Weak = *u.Weak
	}
	c.Name += "+"
	c.Upgraded = true
	return c
}

// String returns "Name (cost)" for display.
func (c Card) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Cost)
}

// Tier separates regular encounters, elites and bosses.
type Tier string

const (
	TierNormal Tier = "normal"
	TierElite  Tier = "elite"
	TierBoss   Tier = "boss"
)

// Move is one entry of a monster's move table. Weight drives the intent
// roll; a move marked opener is forced on the first turn when present.
type Move struct {
	Name       string `yaml:"name"`
	Damage     int    `yaml:"damage"`
	Hits       int    `yaml:"hits"`
	Block      int    `yaml:"block"`
	Strength   int    `yaml:"strength"`
	Vulnerable int    `yaml:"vulnerable"`
	Weak       int    `yaml:"weak"`
	Weight     int    `yaml:"weight"`
	Opener     bool   `yaml:"opener"`
}

// Monster is a monster definition. Actual HP is rolled in [MinHP, MaxHP]
// when an encounter is built.
type Monster struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Acts  []int  `yaml:"acts"`
	Tier  Tier   `yaml:"tier"`
	MinHP int    `yaml:"min_hp"`
	MaxHP int    `yaml:"max_hp"`
	Moves []Move `yaml:"moves"`
}

// EventOption is one branch of an event. All deltas apply atomically.
type EventOption struct {
	Label      string `yaml:"label"`
	HP         int    `yaml:"hp"`
	MaxHP      int    `yaml:"max_hp"`
	Gold       int    `yaml:"gold"`
	AddCard    string `yaml:"add_card"`
	RemoveCard bool   `yaml:"remove_card"`
	Relic      string `yaml:"relic"`
}

// Event is an event definition with its option list.
type Event struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name"`
	Options []EventOption `yaml:"options"`
}

// Relic is a passive item. Exactly the hooks the engine consults are
// modeled; everything else stays zero.
type Relic struct {
	ID                  string `yaml:"id"`
	Name                string `yaml:"name"`
	Boss                bool   `yaml:"boss"`
	MaxHP               int    `yaml:"max_hp"`
	Gold                int    `yaml:"gold"`
	Energy              int    `yaml:"energy"`
	Strength            int    `yaml:"strength"`
	HealAfterCombat     int    `yaml:"heal_after_combat"`
	RestHealBonus       int    `yaml:"rest_heal_bonus"`
	ShopDiscount        int    `yaml:"shop_discount"`
	FirstTurnBlock      int    `yaml:"first_turn_block"`
	FirstTurnVulnerable int    `yaml:"first_turn_vulnerable"`
}

type library struct {
	cards    []Card
	cardByID map[string]Card

	monsters []Monster

	events []Event

	relics    []Relic
	relicByID map[string]Relic
}

var (
	lib     library
	loadErr error
	once    sync.Once
)

// Load parses the embedded content. Safe to call repeatedly; the first
// error is sticky.
func Load() error {
	once.Do(func() { loadErr = load() })
	return loadErr
}

func load() error {
	var cardFile struct {
		Cards []Card `yaml:"cards"`
	}
	if err := yaml.Unmarshal(cardsYAML, &cardFile); err != nil {
		return fmt.Errorf("content: parse cards: %w", err)
	}
	lib.cards = cardFile.Cards
	lib.cardByID = make(map[string]Card, len(lib.cards))
	for i := range lib.cards {
		c := &lib.cards[i]
		if c.Damage > 0 && c.Hits == 0 {
			c.Hits = 1
		}
		if _, dup := lib.cardByID[c.ID]; dup {
			return fmt.Errorf("content: duplicate card id %q", c.ID)
		}
		lib.cardByID[c.ID] = *c
	}

	var monsterFile struct {
		Monsters []Monster `yaml:"monsters"`
	}
	if err := yaml.Unmarshal(monstersYAML, &monsterFile); err != nil {
		return fmt.Errorf("content: parse monsters: %w", err)
	}
	lib.monsters = monsterFile.Monsters
	for i := range lib.monsters {
		m := &lib.monsters[i]
		if len(m.Moves) == 0 {
			return fmt.Errorf("content: monster %q has no moves", m.ID)
		}
		for j := range m.Moves {
			mv := &m.Moves[j]
			if mv.Damage > 0 && mv.Hits == 0 {
				mv.Hits = 1
			}
		}
	}

	var eventFile struct {
		Events []Event `yaml:"events"`
	}
	if err := yaml.Unmarshal(eventsYAML, &eventFile); err != nil {
		return fmt.Errorf("content: parse events: %w", err)
	}
	lib.events = eventFile.Events
	for _, e := range lib.events {
		if len(e.Options) == 0 {
			return fmt.Errorf("content: event %q has no options", e.ID)
		}
	}

	var relicFile struct {
		Relics []Relic `yaml:"relics"`
	}
	if err := yaml.Unmarshal(relicsYAML, &relicFile); err != nil {
		return fmt.Errorf("content: parse relics: %w", err)
	}
	lib.relics = relicFile.Relics
	lib.relicByID = make(map[string]Relic, len(lib.relics))
	for _, r := range lib.relics {
		if _, dup := lib.relicByID[r.ID]; dup {
			return fmt.Errorf("content: duplicate relic id %q", r.ID)
		}
		lib.relicByID[r.ID] = r
	}

	return validateReferences()
}

func validateReferences() error {
	for _, e := range lib.events {
		for _, opt := range e.Options {
			if opt.AddCard != "" {
				if _, ok := lib.cardByID[opt.AddCard]; !ok {
					return fmt.Errorf("content: event %q references unknown card %q", e.ID, opt.AddCard)
				}
			}
			if opt.Relic != "" && opt.Relic != "random" {
				if _, ok := lib.relicByID[opt.Relic]; !ok {
					return fmt.Errorf("content: event %q references unknown relic %q", e.ID, opt.Relic)
				}
			}
		}
	}
	return nil
}

// MustLoad panics on content errors. Intended for program start; tests use
// Load directly.
func MustLoad() {
	if err := Load(); err != nil {
		panic(err)
	}
}

// CardByID returns the card definition for id.
func CardByID(id string) (Card, error) {
	if err := Load(); err != nil {
		return Card{}, err
	}
	c, ok := lib.cardByID[id]
	if !ok {
		return Card{}, fmt.Errorf("content: unknown card %q", id)
	}
	return c, nil
}

// Cards returns all card definitions in file order.
func Cards() []Card {
	MustLoad()
	out := make([]Card, len(lib.cards))
	copy(out, lib.cards)
	return out
}

// MonsterPool returns the monsters available for the given act and tier,
// in file order.
func MonsterPool(act int, tier Tier) []Monster {
	MustLoad()
	var out []Monster
	for _, m := range lib.monsters {
		if m.Tier != tier {
			continue
		}
		for _, a := range m.Acts {
			if a == act {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Events returns the event pool in file order.
func Events() []Event {
	MustLoad()
	out := make([]Event, len(lib.events))
	copy(out, lib.events)
	return out
}

// RelicByID returns the relic definition for id.
func RelicByID(id string) (Relic, error) {
	if err := Load(); err != nil {
		return Relic{}, err
	}
	r, ok := lib.relicByID[id]
	if !ok {
		return Relic{}, fmt.Errorf("content: unknown relic %q", id)
	}
	return r, nil
}

// RelicPool returns non-boss relics in file order.
func RelicPool() []Relic {
	MustLoad()
	var out []Relic
	for _, r := range lib.relics {
		if !r.Boss {
			out = append(out, r)
		}
	}
	return out
}

// BossRelicPool returns boss relics in file order.
func BossRelicPool() []Relic {
	MustLoad()
	var out []Relic
	for _, r := range lib.relics {
		if r.Boss {
			out = append(out, r)
		}
	}
	return out
}

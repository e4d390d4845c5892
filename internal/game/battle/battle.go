// Package battle implements the transient combat sub-state. A Battle is
// created when the world enters combat and destroyed when combat resolves;
// nothing in here outlives that window. All randomness is drawn from the
// stream passed in by the caller so consumption order stays part of the
// world's deterministic trajectory.
package battle

import (
	"fmt"

	"github.com/spiresim/spiresim/internal/content"
	"github.com/spiresim/spiresim/internal/rng"
)

// Outcome is the terminal result of a battle.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

// IllegalTargetError reports an invalid card/target combination. The battle
// state is unchanged when it is returned.
type IllegalTargetError struct {
	CardIndex int
	Target    int
	Reason    string
}

func (e *IllegalTargetError) Error() string {
	return fmt.Sprintf("illegal target: card %d target %d: %s", e.CardIndex, e.Target, e.Reason)
}

// InsufficientEnergyError reports a card play the player cannot afford.
type InsufficientEnergyError struct {
	Cost   int
	Energy int
}

func (e *InsufficientEnergyError) Error() string {
	return fmt.Sprintf("insufficient energy: need %d, have %d", e.Cost, e.Energy)
}

// MonsterState is one combatant on the enemy side. Dead monsters stay in
// the slice so indices remain stable for targeting.
type MonsterState struct {
	Name       string
	HP         int
	MaxHP      int
	Block      int
	Strength   int
	Vulnerable int
	Weak       int
	Intent     content.Move
	moves      []content.Move
}

// Alive reports whether the monster can still act or be targeted.
func (m *MonsterState) Alive() bool {
	return m.HP > 0
}

// Options configures a new battle with the world-level values combat needs.
type Options struct {
	PlayerHP    int
	PlayerMaxHP int
	Energy      int
	HandSize    int

	// Relic hooks applied on turn one.
	StrengthBonus  int
	FirstTurnBlock int
	FirstTurnVuln  int
}

// Battle holds the full combat state. Created exactly once per encounter.
type Battle struct {
	PlayerHP    int
	PlayerMaxHP int
	Block       int
	Strength    int
	Vulnerable  int
	Weak        int

	Energy     int
	baseEnergy int
	handSize   int

	Hand    []content.Card
	Draw    []content.Card
	Discard []content.Card
	Exhaust []content.Card

	Monsters []MonsterState

	Turn     int
	Resolved bool
	Outcome  Outcome
}

// New builds a battle from the player's deck and an encounter. Stream
// consumption order: deck shuffle, then per monster in index order HP roll
// and opening intent.
func New(stream *rng.Stream, deck []content.Card, encounter []content.Monster, opts Options) *Battle {
	b := &Battle{
		PlayerHP:    opts.PlayerHP,
		PlayerMaxHP: opts.PlayerMaxHP,
		Strength:    opts.StrengthBonus,
		Block:       opts.FirstTurnBlock,
		Energy:      opts.Energy,
		baseEnergy:  opts.Energy,
		handSize:    opts.HandSize,
		Turn:        1,
	}

	b.Draw = make([]content.Card, len(deck))
	copy(b.Draw, deck)
	stream.Shuffle(len(b.Draw), func(i, j int) {
		b.Draw[i], b.Draw[j] = b.Draw[j], b.Draw[i]
	})

	b.Monsters = make([]MonsterState, len(encounter))
	for i, def := range encounter {
		hp := stream.Range(def.MinHP, def.MaxHP)
		b.Monsters[i] = MonsterState{
			Name:       def.Name,
			HP:         hp,
			MaxHP:      hp,
			Vulnerable: opts.FirstTurnVuln,
			moves:      def.Moves,
		}
		b.Monsters[i].Intent = rollIntent(stream, &b.Monsters[i], true)
	}

	b.drawCards(stream, b.handSize)
	return b
}

// rollIntent picks the monster's next move. An opener move, when defined,
// is forced on the first roll; afterwards the weighted table applies.
func rollIntent(stream *rng.Stream, m *MonsterState, first bool) content.Move {
	if first {
		for _, mv := range m.moves {
			if mv.Opener {
				return mv
			}
		}
	}
	weights := make([]int, len(m.moves))
	for i, mv := range m.moves {
		weights[i] = mv.Weight
	}
	return m.moves[stream.WeightedIndex(weights)]
}

// drawCards moves up to n cards from the draw pile to the hand, reshuffling
// the discard pile into the draw pile when it runs dry.
func (b *Battle) drawCards(stream *rng.Stream, n int) {
	for i := 0; i < n; i++ {
		if len(b.Draw) == 0 {
			if len(b.Discard) == 0 {
				return
			}
			b.Draw = b.Discard
			b.Discard = nil
			stream.Shuffle(len(b.Draw), func(i, j int) {
				b.Draw[i], b.Draw[j] = b.Draw[j], b.Draw[i]
			})
		}
		b.Hand = append(b.Hand, b.Draw[len(b.Draw)-1])
		b.Draw = b.Draw[:len(b.Draw)-1]
	}
}

// PlayCard plays the card in hand slot handIdx against target (a monster
// index; ignored for cards that do not need one). Returns a typed error and
// leaves the battle untouched on misuse.
func (b *Battle) PlayCard(stream *rng.Stream, handIdx, target int) error {
	if b.Resolved {
		return &IllegalTargetError{CardIndex: handIdx, Target: target, Reason: "battle already resolved"}
	}
	if handIdx < 0 || handIdx >= len(b.Hand) {
		return &IllegalTargetError{CardIndex: handIdx, Target: target, Reason: "no card in that slot"}
	}
	card := b.Hand[handIdx]

	needsTarget := card.Damage > 0 && !card.AllEnemies
	if needsTarget {
		if target < 0 || target >= len(b.Monsters) {
			return &IllegalTargetError{CardIndex: handIdx, Target: target, Reason: "no monster in that slot"}
		}
		if !b.Monsters[target].Alive() {
			return &IllegalTargetError{CardIndex: handIdx, Target: target, Reason: "target already dead"}
		}
	}
	if card.Cost > b.Energy {
		return &InsufficientEnergyError{Cost: card.Cost, Energy: b.Energy}
	}

	// Commit: pay, remove from hand, apply effects.
	b.Energy -= card.Cost
	b.Hand = append(b.Hand[:handIdx], b.Hand[handIdx+1:]...)

	if card.Damage > 0 {
		if card.AllEnemies {
			for i := range b.Monsters {
				if b.Monsters[i].Alive() {
					b.attackMonster(&b.Monsters[i], card)
				}
			}
		} else {
			b.attackMonster(&b.Monsters[target], card)
		}
	}
	if card.Vulnerable > 0 || card.Weak > 0 {
		b.applyDebuffs(card, target)
	}
	b.Block += card.Block
	b.Strength += card.Strength
	if card.Draw > 0 {
		b.drawCards(stream, card.Draw)
	}

	if card.Exhaust {
		b.Exhaust = append(b.Exhaust, card)
	} else {
		b.Discard = append(b.Discard, card)
	}

	if b.aliveCount() == 0 {
		b.Resolved = true
		b.Outcome = OutcomeVictory
	}
	return nil
}

// attackMonster applies one card's hits to a single monster.
func (b *Battle) attackMonster(m *MonsterState, card content.Card) {
	for h := 0; h < card.Hits && m.Alive(); h++ {
		dmg := card.Damage + b.Strength
		if b.Weak > 0 {
			dmg = dmg * 3 / 4
		}
		if m.Vulnerable > 0 {
			dmg = dmg * 3 / 2
		}
		if dmg < 0 {
			dmg = 0
		}
		if m.Block > 0 {
			absorbed := min(m.Block, dmg)
			m.Block -= absorbed
			dmg -= absorbed
		}
		m.HP -= dmg
		if m.HP < 0 {
			m.HP = 0
		}
	}
}

func (b *Battle) applyDebuffs(card content.Card, target int) {
	apply := func(m *MonsterState) {
		m.Vulnerable += card.Vulnerable
		m.Weak += card.Weak
	}
	if card.AllEnemies {
		for i := range b.Monsters {
			if b.Monsters[i].Alive() {
				apply(&b.Monsters[i])
			}
		}
		return
	}
	if target >= 0 && target < len(b.Monsters) && b.Monsters[target].Alive() {
		apply(&b.Monsters[target])
	}
}

// EndTurn runs the enemy phase: discard hand, monsters act in index order,
// statuses tick, intents re-roll, and a fresh hand is drawn. Combat may
// resolve mid-phase if the player dies.
func (b *Battle) EndTurn(stream *rng.Stream) {
	if b.Resolved {
		return
	}

	b.Discard = append(b.Discard, b.Hand...)
	b.Hand = nil

	for i := range b.Monsters {
		m := &b.Monsters[i]
		if !m.Alive() {
			continue
		}
		m.Block = 0
		b.monsterAct(m)
		if b.PlayerHP <= 0 {
			b.PlayerHP = 0
			b.Resolved = true
			b.Outcome = OutcomeDefeat
			return
		}
	}

	// Status durations tick at end of the enemy phase.
	if b.Vulnerable > 0 {
		b.Vulnerable--
	}
	if b.Weak > 0 {
		b.Weak--
	}
	for i := range b.Monsters {
		m := &b.Monsters[i]
		if m.Vulnerable > 0 {
			m.Vulnerable--
		}
		if m.Weak > 0 {
			m.Weak--
		}
	}

	// New player turn: intents re-roll in index order, then energy, block
	// and hand reset.
	for i := range b.Monsters {
		if b.Monsters[i].Alive() {
			b.Monsters[i].Intent = rollIntent(stream, &b.Monsters[i], false)
		}
	}
	b.Turn++
	b.Energy = b.baseEnergy
	b.Block = 0
	b.drawCards(stream, b.handSize)
}

// monsterAct applies one monster's current intent.
func (b *Battle) monsterAct(m *MonsterState) {
	mv := m.Intent

	for h := 0; h < mv.Hits; h++ {
		dmg := mv.Damage + m.Strength
		if m.Weak > 0 {
			dmg = dmg * 3 / 4
		}
		if b.Vulnerable > 0 {
			dmg = dmg * 3 / 2
		}
		if dmg < 0 {
			dmg = 0
		}
		if b.Block > 0 {
			absorbed := min(b.Block, dmg)
			b.Block -= absorbed
			dmg -= absorbed
		}
		b.PlayerHP -= dmg
	}

	m.Block += mv.Block
	m.Strength += mv.Strength
	b.Vulnerable += mv.Vulnerable
	b.Weak += mv.Weak
}

func (b *Battle) aliveCount() int {
	n := 0
	for i := range b.Monsters {
		if b.Monsters[i].Alive() {
			n++
		}
	}
	return n
}

// AliveMonsters returns how many monsters can still act.
func (b *Battle) AliveMonsters() int {
	return b.aliveCount()
}

// FirstAliveTarget returns the lowest alive monster index, or -1.
func (b *Battle) FirstAliveTarget() int {
	for i := range b.Monsters {
		if b.Monsters[i].Alive() {
			return i
		}
	}
	return -1
}

// Clone deep-copies the battle. Used by the world's all-or-nothing command
// pipeline.
func (b *Battle) Clone() *Battle {
	if b == nil {
		return nil
	}
	c := *b
	c.Hand = append([]content.Card(nil), b.Hand...)
	c.Draw = append([]content.Card(nil), b.Draw...)
	c.Discard = append([]content.Card(nil), b.Discard...)
	c.Exhaust = append([]content.Card(nil), b.Exhaust...)
	c.Monsters = append([]MonsterState(nil), b.Monsters...)
	return &c
}

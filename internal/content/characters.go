package content

import (
	"fmt"
	"sort"
	"sync"
)

// Character is a playable character: starting resources and deck.
type Character struct {
	ID     string
	Name   string
	MaxHP  int
	Gold   int
	Energy int
	Deck   []string // card IDs, duplicates allowed
	Relics []string // relic IDs
}

// CharacterFactory creates a fresh Character value.
type CharacterFactory func() Character

var (
	charFactories = make(map[string]CharacterFactory)
	charMu        sync.RWMutex
)

// RegisterCharacter adds a character factory.
// Panics if the ID is already registered.
func RegisterCharacter(id string, f CharacterFactory) {
	charMu.Lock()
	defer charMu.Unlock()

	if _, exists := charFactories[id]; exists {
		panic(fmt.Sprintf("content: character %q already registered", id))
	}
	charFactories[id] = f
}

// CharacterByID instantiates a character by its ID.
func CharacterByID(id string) (Character, error) {
	charMu.RLock()
	defer charMu.RUnlock()

	f, ok := charFactories[id]
	if !ok {
		return Character{}, fmt.Errorf("content: unknown character %q", id)
	}
	return f(), nil
}

// CharacterExists checks if a character is registered.
func CharacterExists(id string) bool {
	charMu.RLock()
	defer charMu.RUnlock()

	_, ok := charFactories[id]
	return ok
}

// CharacterIDs returns all registered character IDs, sorted.
func CharacterIDs() []string {
	charMu.RLock()
	defer charMu.RUnlock()

	ids := make([]string, 0, len(charFactories))
	for id := range charFactories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultCharacterID is used when the caller does not pick one.
const DefaultCharacterID = "ironclad"

func init() {
	RegisterCharacter(DefaultCharacterID, func() Character {
		return Character{
			ID:     DefaultCharacterID,
			Name:   "Ironclad",
			MaxHP:  80,
			Gold:   99,
			Energy: 3,
			Deck: []string{
				"strike", "strike", "strike", "strike", "strike",
				"defend", "defend", "defend", "defend",
				"bash",
			},
			Relics: []string{"burning_blood"},
		}
	})
}

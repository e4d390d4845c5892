package content

import "testing"

func TestDefaultCharacter(t *testing.T) {
	c, err := CharacterByID(DefaultCharacterID)
	if err != nil {
		t.Fatalf("CharacterByID(%s) failed: %v", DefaultCharacterID, err)
	}
	if c.MaxHP != 80 || c.Gold != 99 || c.Energy != 3 {
		t.Errorf("ironclad starts with HP %d gold %d energy %d, want 80/99/3", c.MaxHP, c.Gold, c.Energy)
	}
	if len(c.Deck) != 10 {
		t.Errorf("starting deck size %d, want 10", len(c.Deck))
	}

	// Every referenced card and relic must exist in content.
	for _, id := range c.Deck {
		if _, err := CardByID(id); err != nil {
			t.Errorf("starting deck references unknown card %q", id)
		}
	}
	for _, id := range c.Relics {
		if _, err := RelicByID(id); err != nil {
			t.Errorf("starting relics reference unknown relic %q", id)
		}
	}
}

func TestCharacterRegistry(t *testing.T) {
	if !CharacterExists(DefaultCharacterID) {
		t.Errorf("default character not registered")
	}
	if CharacterExists("no_such_character") {
		t.Error("Exists returned true for unregistered character")
	}
	if _, err := CharacterByID("no_such_character"); err == nil {
		t.Error("CharacterByID accepted an unknown id")
	}

	ids := CharacterIDs()
	found := false
	for _, id := range ids {
		if id == DefaultCharacterID {
			found = true
		}
	}
	if !found {
		t.Errorf("CharacterIDs() = %v, missing %q", ids, DefaultCharacterID)
	}
}

package content

import "testing"

func TestLoad(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
}

func TestCardByID(t *testing.T) {
	c, err := CardByID("strike")
	if err != nil {
		t.Fatalf("CardByID(strike) failed: %v", err)
	}
	if c.Name != "Strike" || c.Cost != 1 || c.Damage != 6 {
		t.Errorf("unexpected strike definition: %+v", c)
	}
	if c.Hits != 1 {
		t.Errorf("damage card should default to 1 hit, got %d", c.Hits)
	}

	if _, err := CardByID("no_such_card"); err == nil {
		t.Error("CardByID accepted an unknown id")
	}
}

func TestCardUpgrade(t *testing.T) {
	c, err := CardByID("bash")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Upgradable() {
		t.Fatal("bash should be upgradable")
	}

	up := c.WithUpgrade()
	if !up.Upgraded {
		t.Error("WithUpgrade did not mark card upgraded")
	}
	if up.Damage != 10 || up.Vulnerable != 3 {
		t.Errorf("bash+ = damage %d vulnerable %d, want 10/3", up.Damage, up.Vulnerable)
	}
	if up.Name != "Bash+" {
		t.Errorf("upgraded name = %q", up.Name)
	}
	if up.Upgradable() {
		t.Error("upgraded card reported as still upgradable")
	}

	// Base definition untouched.
	again, _ := CardByID("bash")
	if again.Damage != 8 {
		t.Errorf("base bash mutated: damage %d", again.Damage)
	}
}

func TestMonsterPool(t *testing.T) {
	for act := 1; act <= 3; act++ {
		for _, tier := range []Tier{TierNormal, TierElite, TierBoss} {
			pool := MonsterPool(act, tier)
			if len(pool) == 0 {
				t.Errorf("no %s monsters for act %d", tier, act)
			}
			for _, m := range pool {
				if m.MinHP <= 0 || m.MaxHP < m.MinHP {
					t.Errorf("monster %q has bad HP range %d..%d", m.ID, m.MinHP, m.MaxHP)
				}
				for _, mv := range m.Moves {
					if mv.Damage > 0 && mv.Hits == 0 {
						t.Errorf("monster %q move %q has damage but 0 hits", m.ID, mv.Name)
					}
				}
			}
		}
	}

	if pool := MonsterPool(1, TierBoss); len(pool) != 1 {
		t.Errorf("act 1 boss pool has %d entries, want 1", len(pool))
	}
}

func TestRelicPools(t *testing.T) {
	for _, r := range RelicPool() {
		if r.Boss {
			t.Errorf("boss relic %q in regular pool", r.ID)
		}
	}
	boss := BossRelicPool()
	if len(boss) == 0 {
		t.Fatal("empty boss relic pool")
	}
	for _, r := range boss {
		if !r.Boss {
			t.Errorf("non-boss relic %q in boss pool", r.ID)
		}
	}
}

func TestEventOptionsResolve(t *testing.T) {
	events := Events()
	if len(events) == 0 {
		t.Fatal("empty event pool")
	}
	for _, e := range events {
		if len(e.Options) == 0 {
			t.Errorf("event %q has no options", e.ID)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestEmbeddedDefaultMatchesCode(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	want := Default()
	if cfg.Map != want.Map || cfg.Acts != want.Acts {
		t.Errorf("embedded default = %+v, want %+v", cfg, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	data := []byte("map:\n  width: 5\n  height: 10\nacts: 2\nplayer:\n  hand_size: 4\n  campfire_heal_pct: 25\nrewards:\n  card_choices: 2\n  gold_min: 5\n  gold_max: 9\n  boss_relics: 1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(custom) failed: %v", err)
	}
	if cfg.Map.Width != 5 || cfg.Map.Height != 10 || cfg.Acts != 2 {
		t.Errorf("custom config not applied: %+v", cfg)
	}
}

func TestLoadMissingCustomPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load accepted a missing custom path")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"narrow map", func(c *EngineConfig) { c.Map.Width = 1 }},
		{"short map", func(c *EngineConfig) { c.Map.Height = 2 }},
		{"zero acts", func(c *EngineConfig) { c.Acts = 0 }},
		{"zero hand", func(c *EngineConfig) { c.Player.HandSize = 0 }},
		{"heal pct", func(c *EngineConfig) { c.Player.CampfireHealPct = 150 }},
		{"gold range", func(c *EngineConfig) { c.Rewards.GoldMax = c.Rewards.GoldMin - 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate accepted %s", tc.name)
			}
		})
	}
}

func TestLoadInvalidCustomConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte("map:\n  width: 0\n  height: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted an invalid custom config")
	}
}

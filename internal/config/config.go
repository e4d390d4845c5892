// Package config provides YAML-based engine tuning for the simulation:
// map dimensions, act count, starting resources and reward shapes.
package config

// EngineConfig contains all tunables for a simulated run.
type EngineConfig struct {
	Map     MapConfig     `yaml:"map"`
	Acts    int           `yaml:"acts"`
	Player  PlayerConfig  `yaml:"player"`
	Rewards RewardsConfig `yaml:"rewards"`
	Shop    ShopConfig    `yaml:"shop"`
}

// MapConfig sets the act map dimensions. Height includes the boss row.
type MapConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlayerConfig overrides character starting values when non-zero.
type PlayerConfig struct {
	HandSize        int `yaml:"hand_size"`
	CampfireHealPct int `yaml:"campfire_heal_pct"`
}

// RewardsConfig shapes post-combat rewards.
type RewardsConfig struct {
	CardChoices  int `yaml:"card_choices"`
	GoldMin      int `yaml:"gold_min"`
	GoldMax      int `yaml:"gold_max"`
	EliteGoldMin int `yaml:"elite_gold_min"`
	EliteGoldMax int `yaml:"elite_gold_max"`
	BossGold     int `yaml:"boss_gold"`
	BossRelics   int `yaml:"boss_relics"`
}

// ShopConfig shapes shop inventories.
type ShopConfig struct {
	CardSlots     int `yaml:"card_slots"`
	RelicSlots    int `yaml:"relic_slots"`
	CardPriceMin  int `yaml:"card_price_min"`
	CardPriceMax  int `yaml:"card_price_max"`
	RelicPriceMin int `yaml:"relic_price_min"`
	RelicPriceMax int `yaml:"relic_price_max"`
}

// Default returns the stock engine configuration: the classic 7x16 act map
// and three acts.
func Default() EngineConfig {
	return EngineConfig{
		Map:  MapConfig{Width: 7, Height: 16},
		Acts: 3,
		Player: PlayerConfig{
			HandSize:        5,
			CampfireHealPct: 30,
		},
		Rewards: RewardsConfig{
			CardChoices:  3,
			GoldMin:      10,
			GoldMax:      20,
			EliteGoldMin: 25,
			EliteGoldMax: 40,
			BossGold:     100,
			BossRelics:   3,
		},
		Shop: ShopConfig{
			CardSlots:     3,
			RelicSlots:    2,
			CardPriceMin:  45,
			CardPriceMax:  80,
			RelicPriceMin: 140,
			RelicPriceMax: 200,
		},
	}
}

// Validate rejects configurations the engine invariants cannot hold under.
func (c EngineConfig) Validate() error {
	switch {
	case c.Map.Width < 3:
		return errValidate("map.width must be at least 3")
	case c.Map.Height < 4:
		return errValidate("map.height must be at least 4")
	case c.Acts < 1:
		return errValidate("acts must be at least 1")
	case c.Player.HandSize < 1:
		return errValidate("player.hand_size must be at least 1")
	case c.Player.CampfireHealPct < 0 || c.Player.CampfireHealPct > 100:
		return errValidate("player.campfire_heal_pct must be in [0, 100]")
	case c.Rewards.CardChoices < 1:
		return errValidate("rewards.card_choices must be at least 1")
	case c.Rewards.GoldMax < c.Rewards.GoldMin:
		return errValidate("rewards.gold_max must be >= rewards.gold_min")
	case c.Shop.CardSlots < 0 || c.Shop.RelicSlots < 0:
		return errValidate("shop slots cannot be negative")
	}
	return nil
}

type validationError string

func errValidate(msg string) error { return validationError(msg) }

func (e validationError) Error() string { return "config: " + string(e) }

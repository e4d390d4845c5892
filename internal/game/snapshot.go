package game

// Snapshot is a fixed-shape observation of the world. Every field is
// present on every screen; fields with no live source report zero. Drivers
// and learned policies consume this rather than reaching into the world.
type Snapshot struct {
	Screen Screen `json:"screen"`
	Act    int    `json:"act"`
	Floor  int    `json:"floor"`
	X      int    `json:"x"`
	Y      int    `json:"y"`

	HP         int `json:"hp"`
	MaxHP      int `json:"max_hp"`
	Gold       int `json:"gold"`
	DeckSize   int `json:"deck_size"`
	RelicCount int `json:"relic_count"`

	// Battle view, zeroed outside combat.
	Turn          int `json:"turn"`
	Energy        int `json:"energy"`
	HandSize      int `json:"hand_size"`
	MonstersAlive int `json:"monsters_alive"`

	RNGDraws    uint64 `json:"rng_draws"`
	EpisodeOver bool   `json:"episode_over"`
}

// Snapshot captures the current observation.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Screen:      w.screen,
		Act:         w.act,
		Floor:       w.floor,
		X:           w.x,
		Y:           w.y,
		HP:          w.res.HP,
		MaxHP:       w.res.MaxHP,
		Gold:        w.res.Gold,
		DeckSize:    len(w.res.Deck),
		RelicCount:  len(w.res.Relics),
		RNGDraws:    w.stream.Draws(),
		EpisodeOver: w.screen.Terminal(),
	}
	if w.bat != nil {
		snap.Turn = w.bat.Turn
		snap.Energy = w.bat.Energy
		snap.HandSize = len(w.bat.Hand)
		snap.MonstersAlive = w.bat.AliveMonsters()
	}
	return snap
}

// Package tui provides the interactive terminal frontend, locally and over
// SSH via Wish.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiresim/spiresim/internal/game"
	"github.com/spiresim/spiresim/internal/storage"
)

// Model is the Bubble Tea model for an interactive run. It is a thin shell
// over game.World: keys translate to commands, Apply does the rest, and
// rejected commands surface in the status line instead of mutating
// anything.
type Model struct {
	world *game.World
	store *storage.Store

	keys KeyMap
	help help.Model

	cursor int // selection index on the current screen
	target int // monster target in battle

	width, height int

	status   string
	steps    int
	started  time.Time
	runSaved bool
	quitting bool
}

// NewModel creates a model around an existing world. store may be nil;
// finished runs are then simply not recorded.
func NewModel(world *game.World, store *storage.Store) Model {
	return Model{
		world:   world,
		store:   store,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		started: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	snap := m.world.Snapshot()

	if snap.EpisodeOver {
		if key.Matches(msg, m.keys.NewRun) {
			m.apply(game.Reset{Seed: time.Now().UnixNano()})
			m.cursor, m.target = 0, 0
			m.steps = 0
			m.started = time.Now()
			m.runSaved = false
		}
		return m, nil
	}

	switch snap.Screen {
	case game.ScreenMap:
		m.handleMapKey(msg, snap)
	case game.ScreenBattle:
		m.handleBattleKey(msg)
	case game.ScreenEvent:
		m.handleChoiceKey(msg, len(m.world.Event().Options), func(i int) game.Command {
			return game.ChooseEventOption{Option: i}
		})
	case game.ScreenCampfire:
		switch {
		case key.Matches(msg, m.keys.Rest):
			m.apply(game.ChooseCampfireOption{Option: game.CampfireRest})
		case key.Matches(msg, m.keys.Smith):
			m.apply(game.ChooseCampfireOption{Option: game.CampfireSmith})
		}
	case game.ScreenTreasure:
		if key.Matches(msg, m.keys.Confirm) {
			m.apply(game.OpenTreasure{})
		}
	case game.ScreenShop:
		if key.Matches(msg, m.keys.Leave) {
			m.apply(game.LeaveShop{})
			break
		}
		m.handleChoiceKey(msg, len(m.world.ShopStock()), func(i int) game.Command {
			return game.BuyShopItem{Item: i}
		})
	case game.ScreenCardReward:
		if key.Matches(msg, m.keys.Skip) || key.Matches(msg, m.keys.Leave) {
			m.apply(game.SkipCardReward{})
			break
		}
		m.handleChoiceKey(msg, len(m.world.CardChoices()), func(i int) game.Command {
			return game.ChooseCardReward{Option: i}
		})
	case game.ScreenBossRelicReward:
		m.handleChoiceKey(msg, len(m.world.BossRelicChoices()), func(i int) game.Command {
			return game.ChooseBossRelic{Option: i}
		})
	}
	return m, nil
}

// handleMapKey moves the selection across the reachable columns of the
// next row and confirms into a ChooseMapNode.
func (m *Model) handleMapKey(msg tea.KeyMsg, snap game.Snapshot) {
	cols := m.reachableColumns(snap)
	if len(cols) == 0 {
		return
	}
	if m.cursor >= len(cols) {
		m.cursor = len(cols) - 1
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(cols)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		m.apply(game.ChooseMapNode{X: cols[m.cursor]})
		m.cursor = 0
	}
}

func (m *Model) handleBattleKey(msg tea.KeyMsg) {
	b := m.world.Battle()
	if m.cursor >= len(b.Hand) && len(b.Hand) > 0 {
		m.cursor = len(b.Hand) - 1
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(b.Hand)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Target):
		m.target = m.nextAliveTarget(m.target)
	case key.Matches(msg, m.keys.Confirm):
		if len(b.Hand) == 0 {
			return
		}
		if !b.Monsters[m.target].Alive() {
			m.target = b.FirstAliveTarget()
		}
		m.apply(game.PlayCard{Card: m.cursor, Target: m.target})
		if b = m.world.Battle(); b != nil && m.cursor >= len(b.Hand) && len(b.Hand) > 0 {
			m.cursor = len(b.Hand) - 1
		}
	case key.Matches(msg, m.keys.EndTurn):
		m.apply(game.EndTurn{})
		m.cursor = 0
	}
}

// handleChoiceKey is the shared up/down/confirm handling for list screens.
func (m *Model) handleChoiceKey(msg tea.KeyMsg, n int, build func(int) game.Command) {
	if n == 0 {
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}

	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		m.apply(build(m.cursor))
		m.cursor = 0
	}
}

func (m *Model) nextAliveTarget(from int) int {
	b := m.world.Battle()
	if b == nil || len(b.Monsters) == 0 {
		return 0
	}
	for i := 1; i <= len(b.Monsters); i++ {
		idx := (from + i) % len(b.Monsters)
		if b.Monsters[idx].Alive() {
			return idx
		}
	}
	return from
}

// apply runs a command and routes rejection into the status line. The
// world guarantees it is untouched when an error comes back.
func (m *Model) apply(cmd game.Command) {
	snap, err := m.world.Apply(cmd)
	m.steps++
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""

	if snap.EpisodeOver && !m.runSaved {
		m.saveRun(snap)
		m.runSaved = true
	}
}

// saveRun records the finished episode, best effort.
func (m *Model) saveRun(snap game.Snapshot) {
	if m.store == nil {
		return
	}
	//nolint:errcheck // Best-effort save, the session continues regardless
	m.store.SaveRun(storage.RunRecord{
		Seed:              m.world.Seed(),
		Character:         m.world.Character(),
		FloorReached:      snap.Floor,
		Act:               snap.Act,
		Victory:           snap.Screen == game.ScreenVictory,
		Steps:             m.steps,
		SuspiciousRegains: m.world.SuspiciousRegains(),
		Duration:          int(time.Since(m.started).Seconds()),
	})
}

// reachableColumns lists the columns the player may move to, left to
// right.
func (m *Model) reachableColumns(snap game.Snapshot) []int {
	var cols []int
	sm := m.world.Map()
	for x := 0; x < sm.Width; x++ {
		if sm.Reachable(snap.X, snap.Y, x) && sm.NodeAt(x, snap.Y+1) != nil {
			cols = append(cols, x)
		}
	}
	return cols
}

// Run starts the Bubble Tea program with the given model.
func Run(world *game.World, store *storage.Store) error {
	p := tea.NewProgram(
		NewModel(world, store),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spiresim/spiresim/internal/content"
	"github.com/spiresim/spiresim/internal/storage"
)

const maxRunsShown = 100

// RunboardKeyMap defines the key bindings for the run history view.
type RunboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextChar   key.Binding
	PrevChar   key.Binding
	SortToggle key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextChar, k.SortToggle, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextChar, k.PrevChar},
		{k.SortToggle, k.Quit},
	}
}

// DefaultRunboardKeyMap returns default key bindings.
func DefaultRunboardKeyMap() RunboardKeyMap {
	return RunboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextChar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next character"),
		),
		PrevChar: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev character"),
		),
		SortToggle: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "recent/best"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunboardModel is the Bubble Tea model for browsing run history.
type RunboardModel struct {
	characters []string
	charCursor int
	store      *storage.Store
	runs       []storage.RunRecord
	stats      *storage.RunStats
	byBest     bool
	table      table.Model
	help       help.Model
	keys       RunboardKeyMap
	width      int
	height     int
	quitting   bool
}

// NewRunboardModel creates a runboard over the given store.
func NewRunboardModel(store *storage.Store, width, height int) RunboardModel {
	columns := []table.Column{
		{Title: "Seed", Width: 20},
		{Title: "Floor", Width: 6},
		{Title: "Act", Width: 4},
		{Title: "Result", Width: 8},
		{Title: "Steps", Width: 6},
		{Title: "When", Width: 17},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height-8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder())
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("10")).Bold(true)
	t.SetStyles(styles)

	m := RunboardModel{
		characters: content.CharacterIDs(),
		store:      store,
		table:      t,
		help:       help.New(),
		keys:       DefaultRunboardKeyMap(),
		width:      width,
		height:     height,
	}
	m.reload()
	return m
}

// reload fetches runs and stats for the selected character.
func (m *RunboardModel) reload() {
	if m.store == nil || len(m.characters) == 0 {
		return
	}
	char := m.characters[m.charCursor]

	var err error
	if m.byBest {
		m.runs, err = m.store.BestRuns(char, maxRunsShown)
	} else {
		m.runs, err = m.store.RecentRuns(char, maxRunsShown)
	}
	if err != nil {
		m.runs = nil
	}
	m.stats, _ = m.store.GetRunStats(char)

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		result := "defeat"
		if r.Victory {
			result = "victory"
		}
		rows[i] = table.Row{
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.FloorReached),
			strconv.Itoa(r.Act),
			result,
			strconv.Itoa(r.Steps),
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Init implements tea.Model.
func (m RunboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runboard.
func (m RunboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 8)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextChar):
			if len(m.characters) > 0 {
				m.charCursor = (m.charCursor + 1) % len(m.characters)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevChar):
			if len(m.characters) > 0 {
				m.charCursor = (m.charCursor - 1 + len(m.characters)) % len(m.characters)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.SortToggle):
			m.byBest = !m.byBest
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the runboard.
func (m RunboardModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.characters) == 0 {
		return "no characters registered"
	}

	order := "recent"
	if m.byBest {
		order = "best"
	}
	header := titleStyle.Render("RUN HISTORY") +
		dimStyle.Render(fmt.Sprintf("  %s, %s first", m.characters[m.charCursor], order))

	summary := ""
	if m.stats != nil && m.stats.RunCount > 0 {
		summary = dimStyle.Render(fmt.Sprintf(
			"%d runs, %d victories, best floor %d, avg floor %.1f",
			m.stats.RunCount, m.stats.Victories, m.stats.BestFloor, m.stats.AvgFloor,
		))
	}

	return header + "\n" + summary + "\n\n" + m.table.View() + "\n\n" + m.help.View(m.keys)
}

// RunRunboard starts the runboard as a standalone program.
func RunRunboard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewRunboardModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

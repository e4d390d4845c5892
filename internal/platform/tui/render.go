package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spiresim/spiresim/internal/game"
	"github.com/spiresim/spiresim/internal/game/battle"
	"github.com/spiresim/spiresim/internal/game/spiremap"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	hpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	goldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	energyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	deadStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("240"))
	playerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.world.Snapshot()

	var body string
	switch snap.Screen {
	case game.ScreenMap:
		body = m.viewMap(snap)
	case game.ScreenBattle:
		body = m.viewBattle(snap)
	case game.ScreenEvent:
		body = m.viewEvent()
	case game.ScreenCampfire:
		body = m.viewCampfire()
	case game.ScreenShop:
		body = m.viewShop(snap)
	case game.ScreenTreasure:
		body = "A chest sits in the middle of the room.\n\n" +
			dimStyle.Render("enter to open it")
	case game.ScreenCardReward:
		body = m.viewCardReward()
	case game.ScreenBossRelicReward:
		body = m.viewBossRelicReward()
	case game.ScreenGameOver:
		body = titleStyle.Render("DEFEAT") + "\n\n" +
			fmt.Sprintf("You fell on floor %d, act %d.\n\n", snap.Floor, snap.Act) +
			dimStyle.Render("n for a new run, q to quit")
	case game.ScreenVictory:
		body = titleStyle.Render("VICTORY") + "\n\n" +
			fmt.Sprintf("The spire is cleared on floor %d.\n\n", snap.Floor) +
			dimStyle.Render("n for a new run, q to quit")
	}

	var sb strings.Builder
	sb.WriteString(m.statusBar(snap))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	if m.status != "" {
		sb.WriteString("\n\n")
		sb.WriteString(statusStyle.Render(m.status))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// statusBar is the single line of run vitals shown on every screen.
func (m Model) statusBar(snap game.Snapshot) string {
	parts := []string{
		titleStyle.Render("SPIRESIM"),
		fmt.Sprintf("act %d", snap.Act),
		fmt.Sprintf("floor %d", snap.Floor),
		hpStyle.Render(fmt.Sprintf("hp %d/%d", snap.HP, snap.MaxHP)),
		goldStyle.Render(fmt.Sprintf("%dg", snap.Gold)),
		dimStyle.Render(fmt.Sprintf("deck %d", snap.DeckSize)),
		dimStyle.Render(fmt.Sprintf("relics %d", snap.RelicCount)),
	}
	return strings.Join(parts, "  ")
}

// viewMap draws the act layout top-down with the player position and the
// reachable next-row choices highlighted.
func (m Model) viewMap(snap game.Snapshot) string {
	sm := m.world.Map()
	cols := m.reachableColumns(snap)
	cursor := m.cursor
	if cursor >= len(cols) {
		cursor = len(cols) - 1
	}

	var sb strings.Builder
	for y := sm.Height - 1; y >= 0; y-- {
		for x := 0; x < sm.Width; x++ {
			node := sm.NodeAt(x, y)
			cell := "  "
			switch {
			case node == nil:
			case x == snap.X && y == snap.Y:
				cell = playerStyle.Render("@ ")
			case y == snap.Y+1 && contains(cols, x):
				s := string(node.Type.Symbol()) + " "
				if cursor >= 0 && cols[cursor] == x {
					cell = selectedStyle.Render(s)
				} else {
					cell = s
				}
			case y <= snap.Y:
				cell = dimStyle.Render(string(node.Type.Symbol()) + " ")
			default:
				cell = string(node.Type.Symbol()) + " "
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(legend()))
	return sb.String()
}

func legend() string {
	types := []spiremap.NodeType{
		spiremap.NodeCombat, spiremap.NodeElite, spiremap.NodeEvent,
		spiremap.NodeShop, spiremap.NodeRest, spiremap.NodeTreasure,
		spiremap.NodeBoss,
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%c %s", t.Symbol(), t)
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewBattle(snap game.Snapshot) string {
	b := m.world.Battle()
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("turn %d  %s  block %d",
		b.Turn,
		energyStyle.Render(fmt.Sprintf("energy %d", b.Energy)),
		b.Block,
	))
	if b.Strength != 0 {
		sb.WriteString(fmt.Sprintf("  str %+d", b.Strength))
	}
	sb.WriteString("\n\n")

	for i := range b.Monsters {
		mon := &b.Monsters[i]
		line := fmt.Sprintf("%s  %d/%d hp", mon.Name, mon.HP, mon.MaxHP)
		if mon.Block > 0 {
			line += fmt.Sprintf("  block %d", mon.Block)
		}
		if mon.Vulnerable > 0 {
			line += fmt.Sprintf("  vuln %d", mon.Vulnerable)
		}
		if mon.Weak > 0 {
			line += fmt.Sprintf("  weak %d", mon.Weak)
		}
		line += "  " + dimStyle.Render("intends: "+describeIntent(mon))

		switch {
		case !mon.Alive():
			line = deadStyle.Render(fmt.Sprintf("%s  dead", mon.Name))
		case i == m.target:
			line = selectedStyle.Render("> ") + line
		default:
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for i, c := range b.Hand {
		label := fmt.Sprintf("[%d] %s", c.Cost, c.Name)
		if i == m.cursor {
			label = selectedStyle.Render(label)
		}
		sb.WriteString(label)
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("draw %d  discard %d  exhaust %d",
		len(b.Draw), len(b.Discard), len(b.Exhaust))))
	return sb.String()
}

func describeIntent(mon *battle.MonsterState) string {
	in := mon.Intent
	switch {
	case in.Damage > 0 && in.Hits > 1:
		return fmt.Sprintf("%s %dx%d", in.Name, in.Damage+mon.Strength, in.Hits)
	case in.Damage > 0:
		return fmt.Sprintf("%s %d", in.Name, in.Damage+mon.Strength)
	default:
		return in.Name
	}
}

func (m Model) viewEvent() string {
	ev := m.world.Event()
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(ev.Name))
	sb.WriteString("\n\n")
	for i, opt := range ev.Options {
		line := opt.Label
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) viewCampfire() string {
	return "The fire crackles.\n\n" +
		"  r  rest and recover\n" +
		"  s  smith, upgrade a card\n"
}

func (m Model) viewShop(snap game.Snapshot) string {
	stock := m.world.ShopStock()
	var sb strings.Builder
	sb.WriteString("The merchant grins.\n\n")
	for i, item := range stock {
		price := goldStyle.Render(fmt.Sprintf("%dg", item.Price))
		if item.Price > snap.Gold {
			price = dimStyle.Render(fmt.Sprintf("%dg", item.Price))
		}
		line := fmt.Sprintf("%s  %s", item.Name(), price)
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("enter to buy, b to leave"))
	return sb.String()
}

func (m Model) viewCardReward() string {
	var sb strings.Builder
	sb.WriteString("Choose a card:\n\n")
	for i, c := range m.world.CardChoices() {
		line := fmt.Sprintf("[%d] %s", c.Cost, c.Name)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("enter to take, x to skip"))
	return sb.String()
}

func (m Model) viewBossRelicReward() string {
	var sb strings.Builder
	sb.WriteString("The boss leaves a relic behind:\n\n")
	for i, r := range m.world.BossRelicChoices() {
		line := r.Name
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

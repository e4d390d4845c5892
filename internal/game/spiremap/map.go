// Package spiremap models the per-act floor layout: a bounded grid of nodes
// with forward-only edges from each row to the next. Row height-1 is the boss
// row; it holds a single node with no outgoing edges.
package spiremap

import (
	"fmt"
	"sort"
)

// NodeType tags what a map node contains.
type NodeType int

const (
	NodeCombat NodeType = iota
	NodeElite
	NodeEvent
	NodeShop
	NodeRest
	NodeTreasure
	NodeBoss
)

// String returns a short human-readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case NodeCombat:
		return "combat"
	case NodeElite:
		return "elite"
	case NodeEvent:
		return "event"
	case NodeShop:
		return "shop"
	case NodeRest:
		return "rest"
	case NodeTreasure:
		return "treasure"
	case NodeBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Symbol returns the single-rune map glyph for the node type.
func (t NodeType) Symbol() rune {
	switch t {
	case NodeCombat:
		return 'M'
	case NodeElite:
		return 'E'
	case NodeEvent:
		return '?'
	case NodeShop:
		return '$'
	case NodeRest:
		return 'R'
	case NodeTreasure:
		return 'T'
	case NodeBoss:
		return 'B'
	default:
		return '.'
	}
}

// Node is a single room on the act map. Children lists the x coordinates of
// connected nodes on row Y+1.
type Node struct {
	X        int
	Y        int
	Type     NodeType
	Children []int
}

// Map is the layout for one act. Rows 0..Height-2 hold regular nodes,
// row Height-1 holds the boss node.
type Map struct {
	Width  int
	Height int
	rows   []map[int]*Node
}

// BossX returns the x coordinate of the boss node.
func (m *Map) BossX() int {
	return m.Width / 2
}

// NodeAt returns the node at (x, y), or nil if the cell is empty or out of
// bounds.
func (m *Map) NodeAt(x, y int) *Node {
	if y < 0 || y >= m.Height {
		return nil
	}
	return m.rows[y][x]
}

// Row returns the nodes on row y sorted by x.
func (m *Map) Row(y int) []*Node {
	if y < 0 || y >= m.Height {
		return nil
	}
	nodes := make([]*Node, 0, len(m.rows[y]))
	for _, n := range m.rows[y] {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].X < nodes[j].X })
	return nodes
}

// ChildrenOf returns the x coordinates reachable from (x, y) on row y+1.
// Nil for empty cells and for the boss row.
func (m *Map) ChildrenOf(x, y int) []int {
	n := m.NodeAt(x, y)
	if n == nil {
		return nil
	}
	return n.Children
}

// Reachable reports whether a move to column toX is legal from (fromX, fromY).
// fromY = -1 means the pre-map position at the start of an act; from there any
// row-0 node may be chosen.
func (m *Map) Reachable(fromX, fromY, toX int) bool {
	if fromY == -1 {
		return m.NodeAt(toX, 0) != nil
	}
	for _, cx := range m.ChildrenOf(fromX, fromY) {
		if cx == toX {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants: edges only go to the next row
// and land on existing nodes, every node below the boss row has at least one
// outgoing edge, and the boss row has none.
func (m *Map) Validate() error {
	for y := 0; y < m.Height; y++ {
		for _, n := range m.rows[y] {
			if n.X < 0 || n.X >= m.Width {
				return fmt.Errorf("spiremap: node (%d,%d) outside width %d", n.X, n.Y, m.Width)
			}
			if y == m.Height-1 {
				if len(n.Children) != 0 {
					return fmt.Errorf("spiremap: boss node (%d,%d) has outgoing edges", n.X, n.Y)
				}
				continue
			}
			if len(n.Children) == 0 {
				return fmt.Errorf("spiremap: node (%d,%d) has no outgoing edge", n.X, n.Y)
			}
			for _, cx := range n.Children {
				if m.NodeAt(cx, y+1) == nil {
					return fmt.Errorf("spiremap: edge (%d,%d)->(%d,%d) points at empty cell", n.X, n.Y, cx, y+1)
				}
			}
		}
	}
	if len(m.rows[0]) == 0 {
		return fmt.Errorf("spiremap: empty starting row")
	}
	if len(m.rows[m.Height-1]) != 1 {
		return fmt.Errorf("spiremap: boss row holds %d nodes, want 1", len(m.rows[m.Height-1]))
	}
	return nil
}

// CountByType tallies node types across the map. Used by tests and the TUI
// legend.
func (m *Map) CountByType() map[NodeType]int {
	counts := make(map[NodeType]int)
	for y := 0; y < m.Height; y++ {
		for _, n := range m.rows[y] {
			counts[n.Type]++
		}
	}
	return counts
}

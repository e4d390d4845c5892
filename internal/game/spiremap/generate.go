package spiremap

import (
	"github.com/spiresim/spiresim/internal/rng"
)

const (
	// DefaultWidth and DefaultHeight give the classic 7-wide act with 15
	// node rows plus the boss row.
	DefaultWidth  = 7
	DefaultHeight = 16

	pathCount = 4
)

// Generate builds an act map from the given stream. The same stream state
// always produces the same layout.
//
// Layout strategy: trace pathCount walks from row 0 up to the last node row,
// each step moving at most one column sideways, then connect the final row to
// the boss node and assign node types under placement constraints.
func Generate(stream *rng.Stream, width, height int) *Map {
	if width < 3 {
		width = DefaultWidth
	}
	if height < 4 {
		height = DefaultHeight
	}

	m := &Map{Width: width, Height: height}
	m.rows = make([]map[int]*Node, height)
	for y := range m.rows {
		m.rows[y] = make(map[int]*Node)
	}

	lastRow := height - 2

	for p := 0; p < pathCount; p++ {
		x := stream.Intn(width)
		for y := 0; y <= lastRow; y++ {
			node := m.ensureNode(x, y)
			if y == lastRow {
				break
			}
			nx := m.nextColumn(stream, x, y)
			node.addChild(nx)
			x = nx
		}
	}

	// Boss node and edges from the last node row.
	boss := m.ensureNode(m.BossX(), height-1)
	boss.Type = NodeBoss
	for _, n := range m.rows[lastRow] {
		n.addChild(boss.X)
	}

	m.assignTypes(stream)
	return m
}

// ensureNode returns the node at (x, y), creating it if absent.
func (m *Map) ensureNode(x, y int) *Node {
	if n := m.rows[y][x]; n != nil {
		return n
	}
	n := &Node{X: x, Y: y}
	m.rows[y][x] = n
	return n
}

func (n *Node) addChild(x int) {
	for _, cx := range n.Children {
		if cx == x {
			return
		}
	}
	n.Children = append(n.Children, x)
}

// nextColumn picks the column for the next row step: stay or drift one
// column, clamped to the grid, rejecting drifts that would cross an existing
// edge from a neighboring node.
func (m *Map) nextColumn(stream *rng.Stream, x, y int) int {
	dx := stream.Intn(3) - 1
	nx := x + dx
	if nx < 0 {
		nx = 0
	}
	if nx >= m.Width {
		nx = m.Width - 1
	}
	if m.crossesEdge(x, y, nx) {
		return x
	}
	return nx
}

// crossesEdge reports whether the edge (x,y)->(nx,y+1) would cross an edge
// already drawn from a neighbor on row y.
func (m *Map) crossesEdge(x, y, nx int) bool {
	if nx == x {
		return false
	}
	neighbor := x + 1
	if nx < x {
		neighbor = x - 1
	}
	n := m.NodeAt(neighbor, y)
	if n == nil {
		return false
	}
	for _, cx := range n.Children {
		if (nx > x && cx <= x) || (nx < x && cx >= x) {
			return true
		}
	}
	return false
}

// Type placement weights; elites stay out of the early rows and the midpoint
// row is always treasure, the final node row always rest, mirroring the
// classic act shape.
var typeWeights = []struct {
	t NodeType
	w int
}{
	{NodeCombat, 45},
	{NodeEvent, 22},
	{NodeElite, 14},
	{NodeRest, 12},
	{NodeShop, 7},
}

func (m *Map) assignTypes(stream *rng.Stream) {
	lastRow := m.Height - 2
	treasureRow := lastRow / 2

	weights := make([]int, len(typeWeights))

	for y := 0; y <= lastRow; y++ {
		for _, n := range m.Row(y) {
			switch {
			case y == 0:
				n.Type = NodeCombat
			case y == treasureRow:
				n.Type = NodeTreasure
			case y == lastRow:
				n.Type = NodeRest
			default:
				for i, tw := range typeWeights {
					weights[i] = tw.w
					if tw.t == NodeElite && y < 5 {
						weights[i] = 0
					}
					if tw.t == NodeRest && y < 5 {
						weights[i] = 0
					}
				}
				n.Type = typeWeights[stream.WeightedIndex(weights)].t
			}
		}
	}
}

package spiremap

import (
	"testing"

	"github.com/spiresim/spiresim/internal/rng"
)

func TestGenerateValid(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		m := Generate(rng.New(seed), DefaultWidth, DefaultHeight)
		if err := m.Validate(); err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	m1 := Generate(rng.New(42), DefaultWidth, DefaultHeight)
	m2 := Generate(rng.New(42), DefaultWidth, DefaultHeight)

	for y := 0; y < m1.Height; y++ {
		r1, r2 := m1.Row(y), m2.Row(y)
		if len(r1) != len(r2) {
			t.Fatalf("row %d: %d nodes vs %d", y, len(r1), len(r2))
		}
		for i := range r1 {
			if r1[i].X != r2[i].X || r1[i].Type != r2[i].Type {
				t.Fatalf("row %d node %d differs: (%d,%v) vs (%d,%v)",
					y, i, r1[i].X, r1[i].Type, r2[i].X, r2[i].Type)
			}
			if len(r1[i].Children) != len(r2[i].Children) {
				t.Fatalf("row %d node %d child count differs", y, i)
			}
		}
	}
}

func TestBossRow(t *testing.T) {
	m := Generate(rng.New(7), DefaultWidth, DefaultHeight)

	bossRow := m.Row(m.Height - 1)
	if len(bossRow) != 1 {
		t.Fatalf("boss row has %d nodes, want 1", len(bossRow))
	}
	boss := bossRow[0]
	if boss.Type != NodeBoss {
		t.Errorf("boss node type = %v", boss.Type)
	}
	if len(boss.Children) != 0 {
		t.Errorf("boss node has %d children", len(boss.Children))
	}

	// Every node on the last regular row leads to the boss.
	for _, n := range m.Row(m.Height - 2) {
		if !m.Reachable(n.X, n.Y, boss.X) {
			t.Errorf("node (%d,%d) cannot reach boss", n.X, n.Y)
		}
	}
}

func TestReachableFromStart(t *testing.T) {
	m := Generate(rng.New(3), DefaultWidth, DefaultHeight)

	found := false
	for x := 0; x < m.Width; x++ {
		if m.Reachable(0, -1, x) {
			if m.NodeAt(x, 0) == nil {
				t.Errorf("start reachability reported for empty cell x=%d", x)
			}
			found = true
		}
	}
	if !found {
		t.Error("no starting node reachable from the pre-map position")
	}

	// Unreachable forward moves are rejected.
	start := m.Row(0)[0]
	for x := 0; x < m.Width; x++ {
		legal := false
		for _, cx := range start.Children {
			if cx == x {
				legal = true
			}
		}
		if m.Reachable(start.X, 0, x) != legal {
			t.Errorf("Reachable(%d, 0, %d) = %v, want %v", start.X, x, !legal, legal)
		}
	}
}

func TestTypePlacementConstraints(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		m := Generate(rng.New(seed), DefaultWidth, DefaultHeight)

		for _, n := range m.Row(0) {
			if n.Type != NodeCombat {
				t.Errorf("seed %d: row 0 node (%d,0) is %v, want combat", seed, n.X, n.Type)
			}
		}
		for _, n := range m.Row(m.Height - 2) {
			if n.Type != NodeRest {
				t.Errorf("seed %d: last row node is %v, want rest", seed, n.Type)
			}
		}
		for y := 1; y < 5; y++ {
			for _, n := range m.Row(y) {
				if n.Type == NodeElite {
					t.Errorf("seed %d: elite at row %d", seed, y)
				}
			}
		}
	}
}

func TestValidateCatchesBrokenEdges(t *testing.T) {
	m := Generate(rng.New(1), DefaultWidth, DefaultHeight)
	n := m.Row(0)[0]
	n.Children = append(n.Children, m.Width+3)

	if err := m.Validate(); err == nil {
		t.Error("Validate accepted an edge into an empty cell")
	}
}

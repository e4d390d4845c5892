package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Seed: 1, Character: "ironclad", FloorReached: 12, Act: 1, Steps: 140},
		{Seed: 2, Character: "ironclad", FloorReached: 33, Act: 2, Steps: 390},
		{Seed: 3, Character: "ironclad", FloorReached: 50, Act: 3, Victory: true, Steps: 610},
		{Seed: 4, Character: "silent", FloorReached: 5, Act: 1, Steps: 60},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	best, err := store.BestRuns("ironclad", 10)
	if err != nil {
		t.Fatalf("BestRuns() failed: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("Expected 3 ironclad runs, got %d", len(best))
	}
	if best[0].FloorReached != 50 || !best[0].Victory {
		t.Errorf("Expected the victory run first, got %+v", best[0])
	}
	if best[1].FloorReached != 33 || best[2].FloorReached != 12 {
		t.Errorf("Runs not ordered by floor: %v, %v", best[1].FloorReached, best[2].FloorReached)
	}

	other, err := store.BestRuns("silent", 10)
	if err != nil {
		t.Fatalf("BestRuns() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 silent run, got %d", len(other))
	}
}

func TestStoreRecentRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun(RunRecord{Seed: int64(i), Character: "ironclad", FloorReached: i, Act: 1})
	}

	recent, err := store.RecentRuns("ironclad", 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("Expected 3 runs with limit, got %d", len(recent))
	}
	// Newest insert comes back first.
	if recent[0].Seed != 4 {
		t.Errorf("Expected most recent run (seed 4) first, got seed %d", recent[0].Seed)
	}
}

func TestStoreRunStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetRunStats("ironclad")
	if err != nil {
		t.Fatalf("GetRunStats() failed: %v", err)
	}
	if stats.RunCount != 0 || stats.BestFloor != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveRun(RunRecord{Seed: 1, Character: "ironclad", FloorReached: 10, Act: 1, Steps: 100})
	store.SaveRun(RunRecord{Seed: 2, Character: "ironclad", FloorReached: 50, Act: 3, Victory: true, Steps: 500})

	stats, err = store.GetRunStats("ironclad")
	if err != nil {
		t.Fatalf("GetRunStats() failed: %v", err)
	}
	if stats.RunCount != 2 {
		t.Errorf("Expected 2 runs, got %d", stats.RunCount)
	}
	if stats.Victories != 1 {
		t.Errorf("Expected 1 victory, got %d", stats.Victories)
	}
	if stats.BestFloor != 50 {
		t.Errorf("Expected best floor 50, got %d", stats.BestFloor)
	}
	if stats.AvgFloor != 30 {
		t.Errorf("Expected avg floor 30, got %v", stats.AvgFloor)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Seed: 1, Character: "ironclad", FloorReached: 10, Act: 1})
	store.SaveRun(RunRecord{Seed: 2, Character: "silent", FloorReached: 20, Act: 2})

	if err := store.ClearRuns("ironclad"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	ironclad, _ := store.RecentRuns("ironclad", 10)
	if len(ironclad) != 0 {
		t.Errorf("Expected 0 ironclad runs after clear, got %d", len(ironclad))
	}
	silent, _ := store.RecentRuns("silent", 10)
	if len(silent) != 1 {
		t.Errorf("Silent runs should not be affected by clearing ironclad")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

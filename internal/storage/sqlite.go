// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished episode: how it was seeded and how far it got.
type RunRecord struct {
	ID                int64
	Seed              int64
	Character         string
	FloorReached      int
	Act               int
	Victory           bool
	Steps             int
	SuspiciousRegains int
	Duration          int // seconds
	CreatedAt         time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			character TEXT NOT NULL,
			floor_reached INTEGER NOT NULL,
			act INTEGER NOT NULL,
			victory INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			suspicious_regains INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_character ON runs(character);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(character, floor_reached DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished episode. Returns the ID of the inserted
// record.
func (s *Store) SaveRun(run RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (seed, character, floor_reached, act, victory, steps, suspicious_regains, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Seed,
		run.Character,
		run.FloorReached,
		run.Act,
		run.Victory,
		run.Steps,
		run.SuspiciousRegains,
		run.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs for the character, newest
// first.
func (s *Store) RecentRuns(character string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, character, floor_reached, act, victory, steps, suspicious_regains, duration_secs, created_at
		 FROM runs
		 WHERE character = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		character, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// BestRuns retrieves the character's runs ordered by floor reached.
func (s *Store) BestRuns(character string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, seed, character, floor_reached, act, victory, steps, suspicious_regains, duration_secs, created_at
		 FROM runs
		 WHERE character = ?
		 ORDER BY floor_reached DESC, id ASC
		 LIMIT ?`,
		character, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Seed, &r.Character, &r.FloorReached, &r.Act,
			&r.Victory, &r.Steps, &r.SuspiciousRegains, &r.Duration, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunStats contains aggregated statistics for a character.
type RunStats struct {
	Character  string
	RunCount   int
	Victories  int
	BestFloor  int
	AvgFloor   float64
	AvgSteps   float64
	LastPlayed time.Time
}

// GetRunStats retrieves aggregated statistics for a character.
func (s *Store) GetRunStats(character string) (*RunStats, error) {
	stats := &RunStats{Character: character}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(victory), 0),
		        COALESCE(MAX(floor_reached), 0),
		        COALESCE(AVG(floor_reached), 0),
		        COALESCE(AVG(steps), 0)
		 FROM runs WHERE character = ?`,
		character,
	).Scan(&stats.RunCount, &stats.Victories, &stats.BestFloor, &stats.AvgFloor, &stats.AvgSteps)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE character = ? ORDER BY created_at DESC LIMIT 1`,
		character,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		switch v := lastPlayed.(type) {
		case time.Time:
			stats.LastPlayed = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				stats.LastPlayed = parsed
			}
		}
	}

	return stats, nil
}

// ClearRuns deletes all runs for the given character.
func (s *Store) ClearRuns(character string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE character = ?", character)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

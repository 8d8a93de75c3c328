// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeLost Outcome = "lost" // Player HP reached 0
	OutcomeQuit Outcome = "quit" // Player left a live run
)

// Store manages the SQLite database connection for run records.
type Store struct {
	db *sql.DB
}

// Run is one recorded run.
type Run struct {
	ID         int64
	ScenarioID string
	Outcome    Outcome
	Turns      int
	Kills      int
	FinalHP    int
	Seed       int64
	CreatedAt  time.Time
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	ScenarioID string
	Runs       int
	Losses     int
	BestTurns  int
	AvgTurns   float64
	TotalKills int64
	LastPlayed time.Time
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

	// Create parent directories
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
			scenario_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			turns INTEGER NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			final_hp INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(scenario_id, turns DESC);
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

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (scenario_id, outcome, turns, kills, final_hp, seed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ScenarioID, string(r.Outcome), r.Turns, r.Kills, r.FinalHP, r.Seed,
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

const runColumns = `id, scenario_id, outcome, turns, kills, final_hp, seed, created_at`

// RecentRuns retrieves the latest N runs for the given scenario, newest first.
func (s *Store) RecentRuns(scenarioID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scenario_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		scenarioID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// BestRun returns the run that survived the most turns, ties broken by
// kills and then by age. Returns nil if the scenario has no runs.
func (s *Store) BestRun(scenarioID string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scenario_id = ?
		 ORDER BY turns DESC, kills DESC, id ASC
		 LIMIT 1`,
		scenarioID,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ScenarioStats retrieves aggregated statistics for a scenario.
func (s *Store) ScenarioStats(scenarioID string) (*ScenarioStats, error) {
	stats := &ScenarioStats{ScenarioID: scenarioID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(turns), 0),
		        COALESCE(AVG(turns), 0),
		        COALESCE(SUM(kills), 0)
		 FROM runs WHERE scenario_id = ?`,
		string(OutcomeLost), scenarioID,
	).Scan(&stats.Runs, &stats.Losses, &stats.BestTurns, &stats.AvgTurns, &stats.TotalKills)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE scenario_id = ? ORDER BY created_at DESC LIMIT 1`,
		scenarioID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearRuns deletes all runs for the given scenario.
func (s *Store) ClearRuns(scenarioID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scenario_id = ?", scenarioID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var outcome string
	var createdAt any
	err := row.Scan(&r.ID, &r.ScenarioID, &outcome, &r.Turns, &r.Kills, &r.FinalHP, &r.Seed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.Outcome = Outcome(outcome)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

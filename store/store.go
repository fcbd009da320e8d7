// Package store provides SQLite-based persistence for analysis runs, so
// repeated searches over the same models can be compared later.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/petrikit/go-petrikit/results"
)

// Store handles SQLite database operations for run records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		net_name TEXT,
		places INTEGER NOT NULL,
		transitions INTEGER NOT NULL,
		arcs INTEGER NOT NULL,
		reachable_states TEXT,
		fixpoint_iterations INTEGER DEFAULT 0,
		attempts INTEGER DEFAULT 0,
		cuts INTEGER DEFAULT 0,
		found INTEGER NOT NULL DEFAULT 0,
		marking TEXT,
		objective INTEGER DEFAULT 0,
		compute_seconds REAL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run record. A missing id is assigned.
func (s *Store) SaveRun(report *results.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	marking, err := json.Marshal(report.Marking)
	if err != nil {
		return fmt.Errorf("marshal marking: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (
			id, mode, net_name, places, transitions, arcs,
			reachable_states, fixpoint_iterations, attempts, cuts,
			found, marking, objective, compute_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Mode, report.Net.Name,
		report.Net.Places, report.Net.Transitions, report.Net.Arcs,
		report.ReachableStates, report.FixpointIterations,
		report.Attempts, report.Cuts,
		report.Found, string(marking), report.Objective,
		report.ComputeSeconds, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun retrieves a single run by id.
func (s *Store) GetRun(id string) (*results.Report, error) {
	row := s.db.QueryRow(`
		SELECT id, mode, net_name, places, transitions, arcs,
		       reachable_states, fixpoint_iterations, attempts, cuts,
		       found, marking, objective, compute_seconds, created_at
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]*results.Report, error) {
	rows, err := s.db.Query(`
		SELECT id, mode, net_name, places, transitions, arcs,
		       reachable_states, fixpoint_iterations, attempts, cuts,
		       found, marking, objective, compute_seconds, created_at
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*results.Report
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*results.Report, error) {
	var report results.Report
	var marking sql.NullString
	err := row.Scan(
		&report.ID, &report.Mode, &report.Net.Name,
		&report.Net.Places, &report.Net.Transitions, &report.Net.Arcs,
		&report.ReachableStates, &report.FixpointIterations,
		&report.Attempts, &report.Cuts,
		&report.Found, &marking, &report.Objective,
		&report.ComputeSeconds, &report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if marking.Valid && marking.String != "" && marking.String != "null" {
		if err := json.Unmarshal([]byte(marking.String), &report.Marking); err != nil {
			return nil, fmt.Errorf("unmarshal marking: %w", err)
		}
	}
	return &report, nil
}

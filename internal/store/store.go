// Package store persists classification runs to SQLite so operators can
// compare how a table's backup partition evolves between menu versions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"psclassify/internal/partition"
	"psclassify/internal/report"
)

// Store is a run-history database. Safe for concurrent use; database/sql
// serializes access to the single connection pool.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the run index.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Source    string
	Mode      string
	Backups   int
	Signals   int
	Unparsed  int
}

// RunResult is one classified seed of a stored run.
type RunResult struct {
	Seed      string
	Class     string // "backup" or "signal"
	Main      string
	Criterion string
	Prescale  int64
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	source     TEXT NOT NULL,
	mode       TEXT NOT NULL,
	backups    INTEGER NOT NULL,
	signals    INTEGER NOT NULL,
	unparsed   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_results (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	seed      TEXT NOT NULL,
	class     TEXT NOT NULL,
	main      TEXT NOT NULL DEFAULT '',
	criterion TEXT NOT NULL DEFAULT '',
	prescale  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_results_run ON run_results(run_id);
`

// Open opens (and if needed creates) the run-history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a classification result and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, source string, mode report.Mode, res *partition.Result) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source, mode, backups, signals, unparsed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UnixMilli(), source, string(mode),
		len(res.Backups), len(res.Signals), len(res.Unparsed))
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO run_results (run_id, seed, class, main, criterion, prescale)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("store: prepare results: %w", err)
	}
	defer insert.Close()

	for _, row := range report.BackupRows(res, report.ModeInclusive) {
		if _, err := insert.ExecContext(ctx, id, row.Backup, "backup", row.Main, row.Criterion, row.Prescale); err != nil {
			return "", fmt.Errorf("store: insert backup row: %w", err)
		}
	}
	for _, name := range res.Signals {
		if _, err := insert.ExecContext(ctx, id, name, "signal", "", "", res.Prescales[name]); err != nil {
			return "", fmt.Errorf("store: insert signal row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, source, mode, backups, signals, unparsed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r  RunSummary
			ts int64
		)
		if err := rows.Scan(&r.ID, &ts, &r.Source, &r.Mode, &r.Backups, &r.Signals, &r.Unparsed); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns every classified seed of a stored run.
func (s *Store) RunResults(ctx context.Context, runID string) ([]RunResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seed, class, main, criterion, prescale
		 FROM run_results WHERE run_id = ? ORDER BY class, seed, main`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		if err := rows.Scan(&r.Seed, &r.Class, &r.Main, &r.Criterion, &r.Prescale); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

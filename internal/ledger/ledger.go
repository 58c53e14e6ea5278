// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records conversion runs and their per-note outcomes in a
// local SQLite database so past runs can be inspected after the fact.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/enex2md/pkg/types"
)

// defaultLimit caps Runs when the caller passes a non-positive limit.
const defaultLimit = 20

// ErrRunNotFound is returned by Outcomes for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Ledger manages the run ledger SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			engine TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			converted INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			stage TEXT,
			error TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its outcomes in one transaction and returns the run
// ID, generating one when run.ID is empty.
func (l *Ledger) Record(ctx context.Context, run types.RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, output_dir, engine, started_at, finished_at, converted, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.OutputDir, run.Engine,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Converted, run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, position, title, path, status, stage, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range run.Outcomes {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, o.Title, o.Path, string(o.Status), string(o.Stage), o.Error,
		)
		if err != nil {
			return "", fmt.Errorf("inserting outcome %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// Runs returns up to limit recorded runs, most recent first. Outcomes are
// not loaded.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, input, output_dir, engine, started_at, finished_at, converted, failed
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var (
			r                 types.RunRecord
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.OutputDir, &r.Engine,
			&started, &finished, &r.Converted, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var err error
		if r.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("scanning run %s: started_at: %w", r.ID, err)
		}
		if r.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("scanning run %s: finished_at: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// parseTime reads a timestamp written by Record.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Outcomes returns the per-note outcomes of run runID in input order.
func (l *Ledger) Outcomes(ctx context.Context, runID string) ([]types.NoteOutcome, error) {
	var exists int
	if err := l.db.QueryRowContext(ctx,
		`SELECT count(*) FROM runs WHERE id = ?`, runID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT title, path, status, COALESCE(stage, ''), COALESCE(error, '')
		 FROM outcomes WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []types.NoteOutcome{}
	for rows.Next() {
		var (
			o             types.NoteOutcome
			status, stage string
		)
		if err := rows.Scan(&o.Title, &o.Path, &status, &stage, &o.Error); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = types.NoteStatus(status)
		o.Stage = types.Stage(stage)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

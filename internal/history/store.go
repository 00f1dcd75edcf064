// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records extract and probe runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/devkit/pkg/types"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = ".devkit/history.db"

// timeLayout is fixed-width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Kind names the command that produced a run.
type Kind string

const (
	KindExtract Kind = "extract"
	KindProbe   Kind = "probe"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Run is one recorded invocation.
type Run struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Target    string        `json:"target"`
	Status    Status        `json:"status"`
	Detail    string        `json:"detail,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and ensures the schema exists.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			target TEXT,
			status TEXT NOT NULL,
			detail TEXT,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind_started ON runs(kind, started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts run, assigning an ID when it has none. It returns the ID.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, target, status, detail, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), run.Target, string(run.Status), run.Detail,
		run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first. An empty kind matches all runs.
func (s *Store) List(ctx context.Context, kind Kind, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, kind, target, status, detail, started_at, duration_ms FROM runs`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r              Run
			kindStr, state string
			target, detail sql.NullString
			started        string
			durationMS     int64
		)
		if err := rows.Scan(&r.ID, &kindStr, &target, &state, &detail, &started, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Kind = Kind(kindStr)
		r.Status = Status(state)
		r.Target = target.String
		r.Detail = detail.String
		r.Duration = time.Duration(durationMS) * time.Millisecond
		t, err := time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at %q of run %s: %w", started, r.ID, err)
		}
		r.StartedAt = t
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

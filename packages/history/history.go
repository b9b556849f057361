// Package history records per-file run outcomes in a SQLite database.
// The store is write-mostly: recorded outcomes never influence later
// runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	file        TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	failures    INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS runs_run_id ON runs (run_id);
`

// Record is one file's outcome within one run.
type Record struct {
	RunID    string
	File     string
	Outcome  string
	Duration time.Duration
	Failures int
	At       time.Time
}

// Store is a run-history database. database/sql serializes access, so
// a single Store is safe to share across workers.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one file outcome.
func (s *Store) Record(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, file, outcome, duration_ms, failures) VALUES (?, ?, ?, ?, ?)`,
		rec.RunID, rec.File, rec.Outcome, rec.Duration.Milliseconds(), rec.Failures,
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// Recent returns the newest limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, outcome, duration_ms, failures, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var durationMs int64
		if err := rows.Scan(&rec.RunID, &rec.File, &rec.Outcome, &durationMs, &rec.Failures, &rec.At); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

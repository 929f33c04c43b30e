// Package ledger records export runs in a local sqlite database so the
// export command can report history and the user can tell when the last
// full inventory happened. Secret values never enter the ledger — only
// timestamps, counts, and destinations.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// DirPerms is used when creating the ledger directory.
const DirPerms = 0o700

// Run is one recorded export run.
type Run struct {
	ID          int64
	StartedAt   time.Time
	EntryCount  int
	Destination string
}

// Ledger wraps the sqlite database holding export history.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path and
// applies pending schema migrations.
func Open(ctx context.Context, path string) (*Ledger, error) {
	if mkErr := os.MkdirAll(filepath.Dir(path), DirPerms); mkErr != nil {
		return nil, fmt.Errorf("ledger: creating directory: %w", mkErr)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening %s: %w", path, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun inserts one export run.
func (l *Ledger) RecordRun(ctx context.Context, startedAt time.Time, entryCount int, destination string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO export_runs (started_at, entry_count, destination) VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), entryCount, destination,
	)
	if err != nil {
		return fmt.Errorf("ledger: recording run: %w", err)
	}

	return nil
}

// History returns all recorded runs, newest first.
func (l *Ledger) History(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, entry_count, destination FROM export_runs ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger: querying history: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var (
			run Run
			ts  string
		)

		if err := rows.Scan(&run.ID, &ts, &run.EntryCount, &run.Destination); err != nil {
			return nil, fmt.Errorf("ledger: scanning run: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("ledger: parsing timestamp %q: %w", ts, err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating history: %w", err)
	}

	return runs, nil
}

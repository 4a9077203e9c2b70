// Package journal keeps a history of documents sent to printers in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS print_jobs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id  TEXT NOT NULL,
    command      TEXT NOT NULL,
    printer      TEXT NOT NULL,
    started_at   TEXT NOT NULL,
    duration_ms  INTEGER NOT NULL DEFAULT 0,
    transactions INTEGER NOT NULL DEFAULT 0,
    bytes        INTEGER NOT NULL DEFAULT 0,
    effects      TEXT NOT NULL DEFAULT '',
    error        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_print_jobs_started_at ON print_jobs(started_at);
`

// Entry is one sent document.
type Entry struct {
	ID         int64
	DocumentID string

	// Command is the CLI command that produced the document.
	Command string

	// Printer identifies the device, e.g. its path or address.
	Printer string

	StartedAt    time.Time
	Duration     time.Duration
	Transactions int
	Bytes        int
	Effects      string

	// Error is empty for documents that were sent successfully.
	Error string
}

// OK reports whether the document was sent without error.
func (e Entry) OK() bool { return e.Error == "" }

// Journal is the print history store.
type Journal struct {
	db   *sql.DB
	path string
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string { return j.path }

// Record stores e and returns its ID.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO print_jobs (
            document_id, command, printer, started_at, duration_ms,
            transactions, bytes, effects, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.DocumentID,
		e.Command,
		e.Printer,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.Duration.Milliseconds(),
		e.Transactions,
		e.Bytes,
		e.Effects,
		e.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("insert print job: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, document_id, command, printer, started_at, duration_ms,
            transactions, bytes, effects, error
        FROM print_jobs
        ORDER BY started_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query print jobs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.Command, &e.Printer, &startedAt,
			&durationMS, &e.Transactions, &e.Bytes, &e.Effects, &e.Error); err != nil {
			return nil, fmt.Errorf("scan print job: %w", err)
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"meridian/internal/exitcode"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; operators clear the journal database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version does not match
// the expected version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Entry is one executed command.
type Entry struct {
	ID         int64
	SessionID  string
	Verb       string
	Arguments  string
	Code       exitcode.Code
	StartedAt  time.Time
	FinishedAt time.Time
}

// Journal manages command history backed by SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path, creating
// the parent directory as needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}
	return open(path, false)
}

// OpenReadOnly connects to an existing journal database without creating
// one. The CLI uses this path so a stray read can never scribble a fresh
// database next to a missing daemon.
func OpenReadOnly(path string) (*Journal, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal database: %w", err)
	}
	return open(path, true)
}

func open(path string, readOnly bool) (*Journal, error) {
	dsn := path
	if readOnly {
		dsn = "file:" + path + "?mode=ro"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if readOnly {
		pragmas = pragmas[1:]
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	j := &Journal{db: db, path: path}
	if readOnly {
		if err := j.checkSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
		return j, nil
	}
	if err := j.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Path returns the database file location.
func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) initSchema(ctx context.Context) error {
	var tableExists int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		if _, err := j.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create journal schema: %w", err)
		}
		return nil
	}
	return j.checkSchema(ctx)
}

func (j *Journal) checkSchema(ctx context.Context) error {
	var version int
	err := j.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read journal schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, j.path)
	}
	return nil
}

// Record appends one executed command to the history.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO command_journal (session_id, verb, arguments, code, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID,
		e.Verb,
		e.Arguments,
		int(e.Code),
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session_id, verb, arguments, code, started_at, finished_at
         FROM command_journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// Stats returns per-code command counts over the whole history.
func (j *Journal) Stats(ctx context.Context) (map[exitcode.Code]int, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT code, COUNT(1) FROM command_journal GROUP BY code")
	if err != nil {
		return nil, fmt.Errorf("query journal stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[exitcode.Code]int)
	for rows.Next() {
		var code, count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("scan journal stats: %w", err)
		}
		stats[exitcode.Code(code)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal stats: %w", err)
	}
	return stats, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry      Entry
		code       int
		startedAt  string
		finishedAt string
	)
	if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Verb, &entry.Arguments, &code, &startedAt, &finishedAt); err != nil {
		return Entry{}, fmt.Errorf("scan journal entry: %w", err)
	}
	entry.Code = exitcode.Code(code)
	var err error
	if entry.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Entry{}, fmt.Errorf("parse started_at: %w", err)
	}
	if entry.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return Entry{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return entry, nil
}

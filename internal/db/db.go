// Package db provides SQLite access to the comms message store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/teambrain/threadctl/internal/logging"
)

// DB wraps the SQLite connection to a comms database.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// Options configures how the database is opened.
type Options struct {
	// BusyTimeoutMs is how long to wait for a locked database.
	BusyTimeoutMs int
}

// Open opens an existing comms database read path. The file must already
// exist; threadctl never creates or migrates production data.
func Open(path string, opts Options) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	busyTimeout := opts.BusyTimeoutMs
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, busyTimeout)
	db, err := open(dsn)
	if err != nil {
		return nil, err
	}
	db.logger.Debug().Str("path", path).Msg("opened comms database")
	return db, nil
}

// OpenInMemory opens a fresh in-memory database. Used by tests and fixtures.
func OpenInMemory() (*DB, error) {
	return open(":memory:")
}

func open(dsn string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{
		DB:     sqlDB,
		logger: logging.Component("db"),
	}, nil
}

// EnsureSchema creates the comms tables when they do not exist. Only test
// fixtures call this; the CLI treats the store as read-only.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS channels (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			content TEXT NOT NULL DEFAULT '',
			sender_id TEXT NOT NULL DEFAULT '',
			sender_name TEXT NOT NULL DEFAULT '',
			channel_id TEXT NOT NULL DEFAULT '',
			parent_id INTEGER,
			thread_id INTEGER,
			created_at TEXT NOT NULL DEFAULT '',
			message_type TEXT NOT NULL DEFAULT 'message'
		)`,
		`CREATE INDEX IF NOT EXISTS messages_parent_idx ON messages(parent_id)`,
		`CREATE INDEX IF NOT EXISTS messages_thread_idx ON messages(thread_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

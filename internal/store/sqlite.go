// ABOUTME: SQLite implementation of the Store interfaces using modernc.org/sqlite
// ABOUTME: Owns the relational schema and the transaction helpers shared by user/list/chat/message files

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is the canonical timestamp encoding. RFC3339Nano keeps
// sub-second ordering between messages inserted in the same second;
// msg_id breaks any remaining ties.
const timeLayout = time.RFC3339Nano

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// _txlock=immediate makes every transaction take the write lock up
	// front, so withTx's check-then-mutate sequences never upgrade a read
	// lock mid-transaction and fail with SQLITE_BUSY.
	db, err := sql.Open("sqlite", "file:"+path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys; chat cascades depend on this
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
//
// Foreign keys from chat_list and message to chat cascade on chat removal.
// Foreign keys to usr deliberately do NOT cascade: user removal is guarded
// by DeleteUser's explicit reference check instead.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS user_list (
			list_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			list_type TEXT NOT NULL,

			CHECK (list_type IN ('contact', 'block'))
		);

		CREATE TABLE IF NOT EXISTS usr (
			login        TEXT PRIMARY KEY,
			password     TEXT NOT NULL,
			phone        TEXT NOT NULL,
			block_list   INTEGER NOT NULL REFERENCES user_list(list_id),
			contact_list INTEGER NOT NULL REFERENCES user_list(list_id)
		);

		CREATE TABLE IF NOT EXISTS user_list_contains (
			list_id     INTEGER NOT NULL REFERENCES user_list(list_id),
			list_member TEXT NOT NULL REFERENCES usr(login),

			PRIMARY KEY (list_id, list_member)
		);

		CREATE INDEX IF NOT EXISTS idx_list_contains_member
			ON user_list_contains(list_member);

		CREATE TABLE IF NOT EXISTS chat (
			chat_id     INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_type   TEXT NOT NULL,
			init_sender TEXT NOT NULL REFERENCES usr(login),
			created_at  TEXT NOT NULL,

			CHECK (chat_type IN ('group', 'private'))
		);

		CREATE INDEX IF NOT EXISTS idx_chat_init_sender ON chat(init_sender);

		CREATE TABLE IF NOT EXISTS chat_list (
			chat_id INTEGER NOT NULL REFERENCES chat(chat_id) ON DELETE CASCADE,
			member  TEXT NOT NULL REFERENCES usr(login),

			PRIMARY KEY (chat_id, member)
		);

		CREATE INDEX IF NOT EXISTS idx_chat_list_member ON chat_list(member);

		CREATE TABLE IF NOT EXISTS message (
			msg_id        INTEGER PRIMARY KEY AUTOINCREMENT,
			msg_text      TEXT NOT NULL,
			sender_login  TEXT NOT NULL REFERENCES usr(login),
			chat_id       INTEGER NOT NULL REFERENCES chat(chat_id) ON DELETE CASCADE,
			msg_timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_message_chat_ts
			ON message(chat_id, msg_timestamp, msg_id);

		CREATE INDEX IF NOT EXISTS idx_message_sender ON message(sender_login);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// withTx runs fn inside an immediate transaction, committing on nil and
// rolling back on error. Every multi-step mutation goes through here so a
// mid-sequence failure never leaves partial rows behind.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// isConstraintViolation checks if the error is a SQLite UNIQUE or PRIMARY KEY
// constraint violation. FOREIGN KEY and CHECK failures deliberately don't
// match: a vanished referenced row is not a duplicate.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure SQLiteStore implements the full Store interface
var _ Store = (*SQLiteStore)(nil)

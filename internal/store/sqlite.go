package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 1

// SQLite is a Store persisted in a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared between calls.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM db_version WHERE name = 'workday'").Scan(&version)
	if err != nil {
		if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER NOT NULL
		)`); err != nil {
			return fmt.Errorf("failed to create db_version table: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO db_version (name, version) VALUES ('workday', 0)"); err != nil {
			return fmt.Errorf("failed to initialize db_version: %w", err)
		}
		version = 0
	}

	if version < 1 {
		if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS processed (
			key TEXT PRIMARY KEY,
			processed_at INTEGER NOT NULL
		)`); err != nil {
			return fmt.Errorf("failed to create processed table: %w", err)
		}
	}

	if version < schemaVersion {
		if _, err := s.db.ExecContext(ctx, "UPDATE db_version SET version = ? WHERE name = 'workday'", schemaVersion); err != nil {
			return fmt.Errorf("failed to update db_version: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Seen(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM processed WHERE key = ?", key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.wrap("lookup", err)
	}
	return true, nil
}

func (s *SQLite) Mark(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO processed (key, processed_at) VALUES (?, ?)",
		key, time.Now().Unix())
	if err != nil {
		return s.wrap("insert", err)
	}
	return nil
}

// Prune removes keys processed before cutoff and returns how many were
// deleted.
func (s *SQLite) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM processed WHERE processed_at < ?", cutoff.Unix())
	if err != nil {
		return 0, s.wrap("prune", err)
	}
	return res.RowsAffected()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) wrap(op string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return ErrClosed
	}
	return fmt.Errorf("failed to %s processed key: %w", op, err)
}

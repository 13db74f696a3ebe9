// ABOUTME: SQLite-backed session storage using modernc.org/sqlite
// ABOUTME: Stores keys in a single kv table; multi-key writes share one transaction

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Storage on a local sqlite database.
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// OpenSQLiteStorage opens (or creates) session.db inside configDir.
func OpenSQLiteStorage(ctx context.Context, configDir string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(configDir, "session.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Get implements Storage.
func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Storage.
func (s *SQLiteStorage) Set(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for k, v := range values {
		if _, err := tx.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// Remove implements Storage.
func (s *SQLiteStorage) Remove(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return tx.Commit()
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLiteSubstrate stores values in the kv_store table.
type SQLiteSubstrate struct {
	db *sqlx.DB
}

// NewSQLiteSubstrate uses an already migrated database.
func NewSQLiteSubstrate(db *sqlx.DB) *SQLiteSubstrate {
	return &SQLiteSubstrate{db: db}
}

// Get retrieves the value stored for key.
func (s *SQLiteSubstrate) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_store WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put inserts or replaces the value for key.
func (s *SQLiteSubstrate) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the database is owned by the caller.
func (s *SQLiteSubstrate) Close() error { return nil }

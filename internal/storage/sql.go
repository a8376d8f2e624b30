package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmer-market-web/internal/logger"

	"go.uber.org/zap"
)

type dialect struct {
	name   string
	get    string
	upsert string
	del    string
}

var (
	postgresDialect = dialect{
		name:   "postgres",
		get:    `SELECT value FROM kv_entries WHERE key = $1`,
		upsert: `INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		del:    `DELETE FROM kv_entries WHERE key = $1`,
	}
	sqliteDialect = dialect{
		name:   "sqlite",
		get:    `SELECT value FROM kv_entries WHERE key = ?`,
		upsert: `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		del:    `DELETE FROM kv_entries WHERE key = ?`,
	}
)

// sqliteSchema is applied by NewSQLiteStore. Postgres relies on cmd/migrate.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLStore keeps entries in a kv_entries table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: postgresDialect}
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
	}
	return &SQLStore{db: db, dialect: sqliteDialect}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("kv get failed",
			zap.String("driver", s.dialect.name),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value); err != nil {
		logger.FromCtx(ctx).Error("kv set failed",
			zap.String("driver", s.dialect.name),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Remove deletes all keys inside one transaction.
func (s *SQLStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin remove: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, s.dialect.del, k); err != nil {
			return fmt.Errorf("failed to remove %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit remove: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

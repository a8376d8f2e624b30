package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"farmer-market-web/internal/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Open builds the backend selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageDriver {
	case DriverMemory:
		return NewMemoryStore(), nil

	case DriverFile, "":
		fs, err := NewFileStore(filepath.Join(cfg.StoragePath, "storage.json"))
		if err != nil {
			return nil, err
		}
		return fs, nil

	case DriverSQLite:
		path := cfg.StoragePath
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "storage.db")
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		s, err := NewSQLiteStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return s, nil

	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDSN
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping DB: %w", err)
		}
		return NewPostgresStore(db), nil

	case DriverRedis:
		rs := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return rs, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.StorageDriver)
}

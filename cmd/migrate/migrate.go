package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"farmer-market-web/internal/logger"

	"go.uber.org/zap"
)

var errUnknownMode = errors.New("unknown mode (use up, down or status)")

type migration struct {
	version string
	up      string
	down    string
}

// loadMigrations reads migrations/*.sql from fsys in version order.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	slices.Sort(files)

	out := make([]migration, 0, len(files))
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		content := string(raw)
		out = append(out, migration{
			version: path.Base(f),
			up:      extractMigrationPart(content, "Up"),
			down:    extractMigrationPart(content, "Down"),
		})
	}
	return out, nil
}

// extractMigrationPart returns the lines between "-- +migrate <section>" and
// the next marker.
func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	var inPart bool

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "-- +migrate") {
			if inPart {
				break
			}
			inPart = strings.Contains(line, "-- +migrate "+section)
			continue
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}

func run(ctx context.Context, db *sql.DB, mode string, fsys fs.FS) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	migrations, err := loadMigrations(fsys)
	if err != nil {
		return err
	}

	switch mode {
	case "up":
		return up(ctx, db, migrations)
	case "down":
		return down(ctx, db, migrations)
	case "status":
		return status(ctx, db, migrations)
	}
	return fmt.Errorf("%w: %s", errUnknownMode, mode)
}

func applied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// inTx runs body and the bookkeeping statement in one transaction.
func inTx(ctx context.Context, db *sql.DB, body, record, version string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record %s: %w", version, err)
	}
	return tx.Commit()
}

func up(ctx context.Context, db *sql.DB, migrations []migration) error {
	log := logger.FromCtx(ctx)

	n := 0
	for _, m := range migrations {
		done, err := applied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		log.Info("applying migration", zap.String("version", m.version))
		if err := inTx(ctx, db, m.up, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			return err
		}
		n++
	}
	log.Info("migrations up to date", zap.Int("applied", n))
	return nil
}

func down(ctx context.Context, db *sql.DB, migrations []migration) error {
	log := logger.FromCtx(ctx)

	var last string
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	i := slices.IndexFunc(migrations, func(m migration) bool { return m.version == last })
	if i < 0 {
		return fmt.Errorf("migration file not found for version: %s", last)
	}

	log.Info("rolling back migration", zap.String("version", last))
	return inTx(ctx, db, migrations[i].down, `DELETE FROM schema_migrations WHERE version = $1`, last)
}

func status(ctx context.Context, db *sql.DB, migrations []migration) error {
	log := logger.FromCtx(ctx)
	for _, m := range migrations {
		done, err := applied(ctx, db, m.version)
		if err != nil {
			return err
		}
		log.Info("migration", zap.String("version", m.version), zap.Bool("applied", done))
	}
	return nil
}

package storage

import (
	"context"
	"fmt"

	"farmer-market-web/internal/logger"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// SchemaKey holds the semver of the layout the persisted feature keys use.
const SchemaKey = "schemaVersion"

// CurrentSchema is bumped whenever a persisted entity shape changes. A major
// bump drops feature collections so they reseed.
var CurrentSchema = semver.MustParse("1.0.0")

// EnsureSchema compares the stored schema version against current. When the
// stored value is missing, unparseable or on another major version it removes
// featureKeys and records current. It reports whether keys were dropped.
func EnsureSchema(ctx context.Context, s Store, current *semver.Version, featureKeys []string) (bool, error) {
	raw, ok, err := s.Get(ctx, SchemaKey)
	if err != nil {
		return false, fmt.Errorf("failed to read schema version: %w", err)
	}

	if ok {
		stored, perr := semver.NewVersion(raw)
		if perr == nil && stored.Major() == current.Major() {
			if stored.LessThan(current) {
				if err := s.Set(ctx, SchemaKey, current.String()); err != nil {
					return false, fmt.Errorf("failed to write schema version: %w", err)
				}
			}
			return false, nil
		}
	}

	if err := s.Remove(ctx, featureKeys...); err != nil {
		return false, fmt.Errorf("failed to drop feature keys: %w", err)
	}
	if err := s.Set(ctx, SchemaKey, current.String()); err != nil {
		return false, fmt.Errorf("failed to write schema version: %w", err)
	}

	if ok {
		logger.FromCtx(ctx).Info("storage schema reset",
			zap.String("from", raw),
			zap.String("to", current.String()),
		)
	}
	return true, nil
}

// Package storage is the durable key-value layer that stands in for the
// browser's localStorage. Values are opaque strings; JSON helpers sit on top.
package storage

import (
	"context"
)

// Store is a string key-value store. Get reports found=false for missing
// keys without an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes every key in one call. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
}

// Backend is a Store that owns a connection or file handle.
type Backend interface {
	Store
	Close() error
}

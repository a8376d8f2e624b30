// Package mockstore persists whole entity collections under a single
// storage key and reseeds them when the stored value is unusable.
package mockstore

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"

	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options describe how a Collection identifies and seeds its entities.
type Options[T any] struct {
	Key   string
	Seed  func() []T
	ID    func(T) string
	SetID func(*T, string)
	// NewID overrides the generated id for entities created without one.
	NewID func() string
}

// Collection is a keyed collection of T stored as one JSON array.
type Collection[T any] struct {
	mu    sync.Mutex
	store storage.Store
	opts  Options[T]
}

func New[T any](store storage.Store, opts Options[T]) *Collection[T] {
	if opts.Seed == nil {
		opts.Seed = func() []T { return nil }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Collection[T]{store: store, opts: opts}
}

func (c *Collection[T]) Key() string { return c.opts.Key }

// Load returns the stored collection. A missing, unparseable, non-array or
// empty value is replaced by the seed, which is written back immediately.
func (c *Collection[T]) Load(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *Collection[T]) load(ctx context.Context) []T {
	var items []T
	found, err := storage.GetJSON(ctx, c.store, c.opts.Key, &items)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		logger.FromCtx(ctx).Warn("failed to read collection",
			zap.String("key", c.opts.Key),
			zap.Error(err),
		)
	}
	if err != nil || !found || len(items) == 0 {
		seed := c.opts.Seed()
		if seed == nil {
			seed = []T{}
		}
		c.save(ctx, seed)
		return seed
	}
	return items
}

// Save writes the whole collection. Write failures are logged and dropped.
func (c *Collection[T]) Save(ctx context.Context, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save(ctx, items)
}

func (c *Collection[T]) save(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	if err := storage.SetJSON(ctx, c.store, c.opts.Key, items); err != nil {
		logger.FromCtx(ctx).Warn("failed to persist collection",
			zap.String("key", c.opts.Key),
			zap.Int("size", len(items)),
			zap.Error(err),
		)
	}
}

// Create prepends entity. With SetID configured, an entity without an id or
// with one already in the collection gets a fresh unique id.
func (c *Collection[T]) Create(ctx context.Context, entity T) (T, []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	if id := c.opts.ID(entity); c.opts.SetID != nil && (id == "" || c.index(items, id) >= 0) {
		c.opts.SetID(&entity, c.uniqueID(items))
	}
	items = append([]T{entity}, items...)
	c.save(ctx, items)
	return entity, items
}

// maxIDDraws bounds how often NewID is retried before falling back to a
// numbered suffix.
const maxIDDraws = 32

func (c *Collection[T]) uniqueID(items []T) string {
	free := func(id string) bool { return id != "" && c.index(items, id) < 0 }

	id := c.opts.NewID()
	for i := 1; i < maxIDDraws && !free(id); i++ {
		id = c.opts.NewID()
	}
	if free(id) {
		return id
	}
	if id == "" {
		id = uuid.NewString()
	}
	base := id
	for n := 2; !free(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// Get returns the entity with id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	if i := c.index(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// Update applies patch to the entity with id. Nothing is written when id is
// unknown.
func (c *Collection[T]) Update(ctx context.Context, id string, patch func(*T)) (bool, []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	i := c.index(items, id)
	if i < 0 {
		return false, items
	}
	patch(&items[i])
	c.save(ctx, items)
	return true, items
}

// UpdateIf patches the entity with id only when check accepts its current
// value. Check and patch run under one lock. The returned entity is the one
// stored afterwards; found is false when id is unknown.
func (c *Collection[T]) UpdateIf(ctx context.Context, id string, check func(T) error, patch func(*T)) (entity T, found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	i := c.index(items, id)
	if i < 0 {
		return entity, false, nil
	}
	if err := check(items[i]); err != nil {
		return items[i], true, err
	}
	patch(&items[i])
	c.save(ctx, items)
	return items[i], true, nil
}

// Upsert replaces the entity sharing entity's id, or prepends it.
func (c *Collection[T]) Upsert(ctx context.Context, entity T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.load(ctx)
	if i := c.index(items, c.opts.ID(entity)); i >= 0 {
		items[i] = entity
	} else {
		items = append([]T{entity}, items...)
	}
	c.save(ctx, items)
	return items
}

func (c *Collection[T]) Remove(ctx context.Context, id string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := slices.DeleteFunc(c.load(ctx), func(e T) bool { return c.opts.ID(e) == id })
	c.save(ctx, items)
	return items
}

// RemoveAll stores an empty collection. The next Load reseeds it.
func (c *Collection[T]) RemoveAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save(ctx, []T{})
}

func (c *Collection[T]) ResetToSeed(ctx context.Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	seed := c.opts.Seed()
	c.save(ctx, seed)
	return seed
}

// CycleStatus advances the entity's status to the next value in order,
// wrapping around. A status outside order moves to order[0].
func CycleStatus[T any, S comparable](ctx context.Context, c *Collection[T], id string, order []S, get func(T) S, set func(*T, S)) (bool, []T) {
	if len(order) == 0 {
		return false, c.Load(ctx)
	}
	return c.Update(ctx, id, func(e *T) {
		next := (slices.Index(order, get(*e)) + 1) % len(order)
		set(e, order[next])
	})
}

func (c *Collection[T]) index(items []T, id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(items, func(e T) bool { return c.opts.ID(e) == id })
}

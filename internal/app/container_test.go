package app

import (
	"context"
	"testing"
	"time"

	"farmer-market-web/internal/produce"
	"farmer-market-web/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh store records schema", func(t *testing.T) {
		store := storage.NewMemoryStore()

		c, err := New(ctx, store, nil)
		require.NoError(t, err)

		v, ok, _ := store.Get(ctx, storage.SchemaKey)
		assert.True(t, ok)
		assert.Equal(t, storage.CurrentSchema.String(), v)
		assert.False(t, c.Session.Authenticated())
		assert.Len(t, c.Deliveries.List(ctx), 11)
	})

	t.Run("Older major drops feature keys but keeps session", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, storage.SchemaKey, "0.9.0"))
		require.NoError(t, store.Set(ctx, produce.StorageKey, `[{"id":"x"}]`))
		require.NoError(t, store.Set(ctx, "token", "tok"))

		c, err := New(ctx, store, nil)
		require.NoError(t, err)

		_, ok, _ := store.Get(ctx, produce.StorageKey)
		assert.False(t, ok)
		assert.Equal(t, "tok", c.Session.Token())
	})

	t.Run("Simulated system metrics without upstream", func(t *testing.T) {
		c, err := New(ctx, storage.NewMemoryStore(), nil)
		require.NoError(t, err)
		assert.True(t, c.System.Snapshot(ctx).Simulated)
	})
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	r := NewRegistry(backend, nil)

	a, err := r.Get(ctx, "a")
	require.NoError(t, err)
	again, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	b, err := r.Get(ctx, "b")
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	require.NoError(t, a.Session.SetToken(ctx, "tok-a"))
	v, ok, _ := backend.Get(ctx, "session:a:token")
	assert.True(t, ok)
	assert.Equal(t, "tok-a", v)
	assert.False(t, b.Session.Authenticated())

	t.Run("Evicted sessions rehydrate", func(t *testing.T) {
		base := time.Now()
		r.now = func() time.Time { return base.Add(time.Hour) }
		assert.Equal(t, 2, r.Evict(30*time.Minute))
		assert.Equal(t, 0, r.Len())

		a2, err := r.Get(ctx, "a")
		require.NoError(t, err)
		assert.NotSame(t, a, a2)
		assert.Equal(t, "tok-a", a2.Session.Token())
	})
}

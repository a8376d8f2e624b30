package trackorder

import (
	"context"
	"testing"

	"farmer-market-web/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewMemoryStore())

	assert.Len(t, s.List(ctx, Filter{}), 4)
	assert.Len(t, s.List(ctx, Filter{Search: "MART"}), 1)
	assert.Len(t, s.List(ctx, Filter{Search: "yam"}), 1)
	assert.Len(t, s.List(ctx, Filter{Status: "Delivered"}), 1)
	assert.Empty(t, s.List(ctx, Filter{Status: "Cancelled"}))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewMemoryStore())

	orders, err := s.Delete(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	_, err = s.Get(ctx, "2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Delete(ctx, "2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	s := NewService(mem)
	s.List(ctx, Filter{})

	s.ClearAll(ctx)

	raw, _, _ := mem.Get(ctx, StorageKey)
	assert.Equal(t, "[]", raw)
	assert.Len(t, s.List(ctx, Filter{}), 4)
}

func TestOrder_Totals(t *testing.T) {
	o := Seed()[3]
	assert.Equal(t, 14400.0, o.LineTotal())
	assert.Equal(t, "₦14,400", o.FormattedTotal())
	assert.Equal(t, "Oct 17, 2025", o.DisplayDate())
	assert.Equal(t, "soon", Order{Date: "soon"}.DisplayDate())
}

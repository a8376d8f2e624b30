package cart

import (
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tomatoes = Product{ID: 1, Name: "Fresh Tomatoes", Price: 400, Unit: "kg", Farm: "Ikorodu Farms"}
	yam      = Product{ID: 2, Name: "Yam Tubers", Price: 1200, Unit: "kg"}
)

func TestStore_Add(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(tomatoes, 2))
	require.NoError(t, s.Add(tomatoes, 3))
	require.NoError(t, s.Add(yam, 1))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Quantity)

	assert.ErrorIs(t, s.Add(yam, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.Add(Product{}, 1), ErrInvalidProduct)
}

func TestStore_UpdateQty(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(tomatoes, 2))

	require.NoError(t, s.UpdateQty(tomatoes.ID, 4))
	assert.Equal(t, 4, s.Items()[0].Quantity)

	require.NoError(t, s.UpdateQty(tomatoes.ID, 0))
	assert.Empty(t, s.Items())

	assert.ErrorIs(t, s.UpdateQty(99, 1), ErrCartItemNotFound)
}

func TestStore_Totals(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Totals{}, s.Totals())

	require.NoError(t, s.Add(tomatoes, 2))
	require.NoError(t, s.Add(yam, 1))

	assert.Equal(t, Totals{Subtotal: 2000, DeliveryFee: 2000, Total: 4000, Count: 2}, s.Totals())

	s.Remove(tomatoes.ID)
	s.Remove(yam.ID)
	assert.Zero(t, s.Totals().DeliveryFee)
}

func TestStore_Favorites(t *testing.T) {
	s := NewStore()

	assert.True(t, s.ToggleFavorite(yam))
	assert.True(t, s.IsFavorite(yam.ID))
	assert.False(t, s.ToggleFavorite(yam))
	assert.Empty(t, s.Favorites())

	s.ToggleFavorite(tomatoes)
	require.NoError(t, s.Add(tomatoes, 1))
	s.Clear()
	assert.Empty(t, s.Items())
	assert.Len(t, s.Favorites(), 1)
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()
	calls := 0
	unsub := s.Subscribe(func() {
		// Reading inside the listener must not deadlock.
		_ = s.Items()
		calls++
	})

	require.NoError(t, s.Add(tomatoes, 1))
	s.Remove(999)
	s.Clear()
	s.Clear()
	assert.Equal(t, 2, calls)

	unsub()
	unsub()
	require.NoError(t, s.Add(yam, 1))
	assert.Equal(t, 2, calls)
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Add(tomatoes, 1)
			_ = s.Totals()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Items()[0].Quantity)
}

func TestStore_Drain(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(tomatoes, 2))
	s.ToggleFavorite(yam)

	items := s.Drain()

	assert.Equal(t, []CartItem{{Product: tomatoes, Quantity: 2}}, items)
	assert.Empty(t, s.Items())
	assert.Len(t, s.Favorites(), 1)
	assert.Empty(t, s.Drain())

	t.Run("No line is lost to a concurrent add", func(t *testing.T) {
		s := NewStore()
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				_ = s.Add(tomatoes, 1)
			}
		}()

		drained := 0
		for range 100 {
			for _, it := range s.Drain() {
				drained += it.Quantity
			}
		}
		wg.Wait()
		for _, it := range s.Drain() {
			drained += it.Quantity
		}

		assert.Equal(t, 500, drained)
	})
}

func TestComputeTotals_Property(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("subtotal is the exact sum of price times quantity", prop.ForAll(
		func(prices []int, qty int) bool {
			items := make([]CartItem, len(prices))
			want := 0.0
			for i, p := range prices {
				items[i] = CartItem{Product: Product{ID: i + 1, Price: float64(p)}, Quantity: qty}
				want += float64(p * qty)
			}
			got := ComputeTotals(items)

			fee := 0.0
			if want > 0 {
				fee = DeliveryFee
			}
			return got.Subtotal == want && got.DeliveryFee == fee && got.Total == want+fee
		},
		gen.SliceOf(gen.IntRange(0, 50000)),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

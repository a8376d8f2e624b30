package produce

import (
	"context"
	"testing"
	"time"

	"farmer-market-web/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Name:          " Fresh Tomatoes ",
		Category:      "Vegetables",
		Quantity:      20,
		Price:         1200,
		AvailableDate: "2025-10-20",
		StartDate:     "2025-10-18",
		FarmLocation:  "Lagos",
	}
}

func newTestService() *service {
	s := NewService(storage.NewMemoryStore()).(*service)
	s.now = func() time.Time { return time.UnixMilli(1760000000000) }
	return s
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Publish trims and prepends", func(t *testing.T) {
		s := newTestService()
		_, err := s.SaveDraft(ctx, validInput())
		require.NoError(t, err)

		l, err := s.Publish(ctx, validInput())
		require.NoError(t, err)

		assert.Equal(t, "Fresh Tomatoes", l.Name)
		assert.Equal(t, StatusPublished, l.Status)
		assert.Equal(t, int64(1760000000000), l.CreatedAt)
		list := s.List(ctx)
		require.Len(t, list, 2)
		assert.Equal(t, l.ID, list[0].ID)
		assert.Equal(t, StatusDraft, list[1].Status)
	})

	t.Run("Update keeps previous status", func(t *testing.T) {
		s := newTestService()
		draft, err := s.SaveDraft(ctx, validInput())
		require.NoError(t, err)

		in := validInput()
		in.Price = 1500
		updated, err := s.UpdateListing(ctx, draft.ID, in)
		require.NoError(t, err)

		assert.Equal(t, draft.ID, updated.ID)
		assert.Equal(t, StatusDraft, updated.Status)
		assert.Len(t, s.List(ctx), 1)
		got, err := s.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, "₦1,500", got.FormattedPrice())
	})

	t.Run("Update of unknown id adds as published", func(t *testing.T) {
		s := newTestService()

		l, err := s.UpdateListing(ctx, "gone", validInput())
		require.NoError(t, err)

		assert.Equal(t, StatusPublished, l.Status)
		assert.Equal(t, "gone", s.List(ctx)[0].ID)
	})

	t.Run("Validation failures", func(t *testing.T) {
		s := newTestService()
		for name, mutate := range map[string]func(*Input){
			"blank name":    func(i *Input) { i.Name = "  " },
			"zero quantity": func(i *Input) { i.Quantity = 0 },
			"negative price": func(i *Input) {
				i.Price = -1
			},
			"missing location": func(i *Input) { i.FarmLocation = "" },
			"missing start":    func(i *Input) { i.StartDate = "" },
		} {
			in := validInput()
			mutate(&in)
			_, err := s.Publish(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidListing, name)
		}
		assert.Empty(t, s.List(ctx))
	})

	t.Run("Unknown action", func(t *testing.T) {
		_, err := newTestService().Submit(ctx, "archive", "", validInput())
		assert.ErrorIs(t, err, ErrUnknownAction)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	a, _ := s.Publish(ctx, validInput())
	b, _ := s.Publish(ctx, validInput())

	list := s.Delete(ctx, a.ID)

	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	_, err := s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAction_ResultMessage(t *testing.T) {
	assert.Equal(t, "Your produce has been saved as draft.", ActionDraft.ResultMessage())
	assert.Equal(t, "Your produce has been updated successfully!", ActionUpdate.ResultMessage())
}

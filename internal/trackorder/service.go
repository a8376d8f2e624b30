package trackorder

import (
	"context"
	_ "embed"

	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/mockstore"
	"farmer-market-web/internal/storage"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

var seedRows = func() []Order {
	var rows []Order
	if err := yaml.Unmarshal(seedYAML, &rows); err != nil {
		panic("trackorder: invalid seed fixture: " + err.Error())
	}
	return rows
}()

func Seed() []Order {
	return append([]Order(nil), seedRows...)
}

type Service interface {
	List(ctx context.Context, f Filter) []Order
	Get(ctx context.Context, id string) (Order, error)
	Delete(ctx context.Context, id string) ([]Order, error)
	ClearAll(ctx context.Context)
}

type service struct {
	items *mockstore.Collection[Order]
}

func NewService(store storage.Store) Service {
	return &service{
		items: mockstore.New(store, mockstore.Options[Order]{
			Key:  StorageKey,
			Seed: Seed,
			ID:   func(o Order) string { return o.ID },
		}),
	}
}

// Apply matches search against produce and buyer, then status.
func Apply(orders []Order, f Filter) []Order {
	return mockstore.Filter(orders, func(o Order) bool {
		if f.Status != "" && f.Status != "All" && string(o.Status) != f.Status {
			return false
		}
		return mockstore.ContainsFold(f.Search, o.Produce, o.Buyer)
	})
}

func (s *service) List(ctx context.Context, f Filter) []Order {
	return Apply(s.items.Load(ctx), f)
}

func (s *service) Get(ctx context.Context, id string) (Order, error) {
	o, ok := s.items.Get(ctx, id)
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string) ([]Order, error) {
	if _, ok := s.items.Get(ctx, id); !ok {
		return nil, ErrNotFound
	}
	orders := s.items.Remove(ctx, id)
	logger.FromCtx(ctx).Info("tracked order deleted", zap.String("id", id))
	return orders, nil
}

// ClearAll empties the collection. The sample orders come back on the next
// load.
func (s *service) ClearAll(ctx context.Context) {
	s.items.RemoveAll(ctx)
	logger.FromCtx(ctx).Info("tracked orders cleared")
}

package directorder

import (
	"context"
	_ "embed"
	"slices"
	"strings"

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
		panic("directorder: invalid seed fixture: " + err.Error())
	}
	return rows
}()

// Seed returns a fresh copy of the sample orders.
func Seed() []Order {
	out := make([]Order, len(seedRows))
	for i, o := range seedRows {
		o.Items = slices.Clone(o.Items)
		out[i] = o
	}
	return out
}

type Service interface {
	List(ctx context.Context, f Filter) []Order
	Get(ctx context.Context, id string) (Order, error)
	Accept(ctx context.Context, id string) (Order, error)
	Reject(ctx context.Context, id, reason, other string) (Order, error)
	ResetToSeed(ctx context.Context) []Order
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

// Apply returns orders matching f. Search covers name, location, item names
// and id.
func Apply(orders []Order, f Filter) []Order {
	return mockstore.Filter(orders, func(o Order) bool {
		if f.Status != "" && f.Status != "All" && string(o.Status) != f.Status {
			return false
		}
		fields := []string{o.Name, o.Location, o.ID}
		for _, it := range o.Items {
			fields = append(fields, it.Name)
		}
		return mockstore.ContainsFold(f.Search, fields...)
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

func (s *service) Accept(ctx context.Context, id string) (Order, error) {
	return s.transition(ctx, id, func(o *Order) {
		o.Status = StatusAccepted
	})
}

// Reject validates the reason before touching storage. With ReasonOther the
// trimmed free text becomes the stored reason.
func (s *service) Reject(ctx context.Context, id, reason, other string) (Order, error) {
	final, err := ResolveReason(reason, other)
	if err != nil {
		return Order{}, err
	}
	return s.transition(ctx, id, func(o *Order) {
		o.Status = StatusRejected
		o.RejectReason = final
	})
}

// ResolveReason returns the reason to store for a rejection.
func ResolveReason(reason, other string) (string, error) {
	switch {
	case reason == "":
		return "", ErrReasonRequired
	case reason == ReasonOther:
		text := strings.TrimSpace(other)
		if text == "" {
			return "", ErrOtherRequired
		}
		return text, nil
	case !slices.Contains(RejectReasons, reason):
		return "", ErrUnknownReason
	}
	return reason, nil
}

func (s *service) transition(ctx context.Context, id string, apply func(*Order)) (Order, error) {
	updated, found, err := s.items.UpdateIf(ctx, id, func(o Order) error {
		if !o.Actionable() {
			return ErrNotPending
		}
		return nil
	}, apply)
	if !found {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	logger.FromCtx(ctx).Info("direct order updated",
		zap.String("id", id),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *service) ResetToSeed(ctx context.Context) []Order {
	return s.items.ResetToSeed(ctx)
}

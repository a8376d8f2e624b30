package delivery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/mockstore"
	"farmer-market-web/internal/storage"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) []Delivery
	Query(ctx context.Context, f Filter, page int) View
	Schedule(ctx context.Context, form ScheduleForm) (Delivery, error)
	CycleStatus(ctx context.Context, id string) (Delivery, error)
	Filtered(ctx context.Context, f Filter) []Delivery
}

type service struct {
	store storage.Store
	items *mockstore.Collection[Delivery]
	now   func() time.Time
	newID func(time.Time) string
}

// NewService stores deliveries under StorageKey. Scheduled deliveries get
// an id that is not yet taken in the collection.
func NewService(store storage.Store) Service {
	s := &service{
		store: store,
		now:   time.Now,
		newID: randomID,
	}
	s.items = mockstore.New(store, mockstore.Options[Delivery]{
		Key:   StorageKey,
		Seed:  Seed,
		ID:    func(d Delivery) string { return d.ID },
		SetID: func(d *Delivery, id string) { d.ID = id },
		NewID: func() string { return s.newID(s.now()) },
	})
	return s
}

func randomID(now time.Time) string {
	return fmt.Sprintf("DEL-%d-%d", now.Year(), 100+rand.IntN(900))
}

func (s *service) List(ctx context.Context) []Delivery {
	if err := s.store.Remove(ctx, LegacyStorageKey); err != nil {
		logger.FromCtx(ctx).Debug("failed to drop legacy deliveries key", zap.Error(err))
	}
	return s.items.Load(ctx)
}

func (s *service) Filtered(ctx context.Context, f Filter) []Delivery {
	return Apply(s.List(ctx), f, s.now())
}

func (s *service) Query(ctx context.Context, f Filter, page int) View {
	all := s.List(ctx)
	return View{
		Page:         mockstore.Paginate(Apply(all, f, s.now()), page, PageSize),
		Recipients:   Recipients(all),
		DelayedCount: DelayedCount(all),
		Filter:       f,
	}
}

// Schedule prepends a delivery built from form. An empty datetime means now.
func (s *service) Schedule(ctx context.Context, form ScheduleForm) (Delivery, error) {
	now := s.now()

	when := now
	if strings.TrimSpace(form.Datetime) != "" {
		t, ok := Delivery{Datetime: form.Datetime}.Time()
		if !ok {
			return Delivery{}, ErrInvalidWhen
		}
		when = t
	}

	d := Delivery{
		Datetime:          when.UTC().Format("2006-01-02T15:04:05.000Z"),
		Recipient:         form.Recipient,
		RecipientLocation: form.RecipientLocation,
		ProduceSummary:    splitProduce(form.Produce),
		WeightLbs:         parseNumber(form.WeightLbs),
		Crates:            int(parseNumber(form.Crates)),
		Status:            form.Status,
	}
	if d.Recipient == "" {
		d.Recipient = UnknownRecipient
	}
	if d.Status == "" {
		d.Status = StatusScheduled
	}

	d, _ = s.items.Create(ctx, d)

	logger.FromCtx(ctx).Info("delivery scheduled",
		zap.String("id", d.ID),
		zap.String("recipient", d.Recipient),
	)
	return d, nil
}

func (s *service) CycleStatus(ctx context.Context, id string) (Delivery, error) {
	ok, items := mockstore.CycleStatus(ctx, s.items, id, CycleOrder,
		func(d Delivery) Status { return d.Status },
		func(d *Delivery, st Status) { d.Status = st },
	)
	if !ok {
		return Delivery{}, ErrNotFound
	}
	for _, d := range items {
		if d.ID == id {
			return d, nil
		}
	}
	return Delivery{}, ErrNotFound
}

func splitProduce(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseNumber mirrors a lenient numeric input: anything unparseable is 0.
func parseNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return n
}

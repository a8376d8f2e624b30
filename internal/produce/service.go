package produce

import (
	"context"
	"strings"
	"time"

	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/mockstore"
	"farmer-market-web/internal/storage"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) []Listing
	Get(ctx context.Context, id string) (Listing, error)
	Submit(ctx context.Context, action Action, editingID string, in Input) (Listing, error)
	Publish(ctx context.Context, in Input) (Listing, error)
	SaveDraft(ctx context.Context, in Input) (Listing, error)
	UpdateListing(ctx context.Context, id string, in Input) (Listing, error)
	Delete(ctx context.Context, id string) []Listing
}

type service struct {
	items *mockstore.Collection[Listing]
	now   func() time.Time
}

func NewService(store storage.Store) Service {
	return &service{
		items: mockstore.New(store, mockstore.Options[Listing]{
			Key:   StorageKey,
			ID:    func(l Listing) string { return l.ID },
			SetID: func(l *Listing, id string) { l.ID = id },
		}),
		now: time.Now,
	}
}

// Valid reports whether in has every required field and positive amounts.
func (in Input) Valid() bool {
	return strings.TrimSpace(in.Name) != "" &&
		strings.TrimSpace(in.Category) != "" &&
		in.Quantity > 0 &&
		in.Price > 0 &&
		strings.TrimSpace(in.AvailableDate) != "" &&
		strings.TrimSpace(in.StartDate) != "" &&
		strings.TrimSpace(in.FarmLocation) != ""
}

func (s *service) List(ctx context.Context) []Listing {
	return s.items.Load(ctx)
}

func (s *service) Get(ctx context.Context, id string) (Listing, error) {
	l, ok := s.items.Get(ctx, id)
	if !ok {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

func (s *service) Publish(ctx context.Context, in Input) (Listing, error) {
	return s.Submit(ctx, ActionPublish, "", in)
}

func (s *service) SaveDraft(ctx context.Context, in Input) (Listing, error) {
	return s.Submit(ctx, ActionDraft, "", in)
}

func (s *service) UpdateListing(ctx context.Context, id string, in Input) (Listing, error) {
	return s.Submit(ctx, ActionUpdate, id, in)
}

// Submit builds a listing from in and stores it. With editingID set the
// listing replaces the existing one; if that id is gone it is added at the
// top instead.
func (s *service) Submit(ctx context.Context, action Action, editingID string, in Input) (Listing, error) {
	log := logger.FromCtx(ctx)

	if !in.Valid() {
		return Listing{}, ErrInvalidListing
	}

	var status Status
	switch action {
	case ActionPublish:
		status = StatusPublished
	case ActionDraft:
		status = StatusDraft
	case ActionUpdate:
		status = s.statusForUpdate(ctx, editingID)
	default:
		return Listing{}, ErrUnknownAction
	}

	l := Listing{
		ID:            editingID,
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Quantity:      in.Quantity,
		Price:         in.Price,
		Description:   strings.TrimSpace(in.Description),
		AvailableDate: in.AvailableDate,
		StartDate:     in.StartDate,
		FarmLocation:  strings.TrimSpace(in.FarmLocation),
		ImageBase64:   in.ImageBase64,
		Status:        status,
		CreatedAt:     s.now().UnixMilli(),
	}

	if l.ID == "" {
		l, _ = s.items.Create(ctx, l)
	} else {
		s.items.Upsert(ctx, l)
	}

	log.Info("produce listing saved",
		zap.String("id", l.ID),
		zap.String("action", string(action)),
		zap.String("status", string(l.Status)),
	)
	return l, nil
}

// statusForUpdate keeps the previous status of id, defaulting to Published.
func (s *service) statusForUpdate(ctx context.Context, id string) Status {
	if id == "" {
		return StatusPublished
	}
	if prev, ok := s.items.Get(ctx, id); ok {
		return prev.Status
	}
	return StatusPublished
}

func (s *service) Delete(ctx context.Context, id string) []Listing {
	return s.items.Remove(ctx, id)
}

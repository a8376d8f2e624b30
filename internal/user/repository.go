package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/storage"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	Save(ctx context.Context, u User) error
	FindByPhone(ctx context.Context, phone string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// Rekey moves a user to a new phone number.
	Rekey(ctx context.Context, oldPhone string, u User) error
	Counts(ctx context.Context) (Counts, error)

	SaveOTP(ctx context.Context, email string, otp OTP) error
	FindOTP(ctx context.Context, email string) (OTP, bool, error)
	DeleteOTP(ctx context.Context, email string) error

	AddTicket(ctx context.Context, t Ticket) error
}

const (
	keyUsers   = "users"
	keyOTP     = "otp:"
	keyTickets = "tickets"
)

// repository keeps the user directory as one JSON document so that counts
// and email lookups need no secondary index.
type repository struct {
	mu    sync.Mutex
	store storage.Store
}

func NewRepository(store storage.Store) Repository {
	return &repository{store: store}
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (r *repository) load(ctx context.Context) (map[string]User, error) {
	users := map[string]User{}
	if _, err := storage.GetJSON(ctx, r.store, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Create(ctx context.Context, u User) (User, error) {
	log := logger.FromCtx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return User{}, err
	}
	if _, ok := users[u.Phone]; ok {
		return User{}, ErrPhoneExists
	}
	for _, existing := range users {
		if normEmail(existing.Email) == normEmail(u.Email) {
			return User{}, ErrEmailExists
		}
	}

	users[u.Phone] = u
	if err := storage.SetJSON(ctx, r.store, keyUsers, users); err != nil {
		log.Error("store: failed to insert user", zap.String("phone", u.Phone), zap.Error(err))
		return User{}, err
	}
	return u, nil
}

func (r *repository) Save(ctx context.Context, u User) error {
	return r.Rekey(ctx, u.Phone, u)
}

func (r *repository) Rekey(ctx context.Context, oldPhone string, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[oldPhone]; !ok {
		return ErrNotFound
	}
	if oldPhone != u.Phone {
		if _, taken := users[u.Phone]; taken {
			return ErrPhoneExists
		}
		delete(users, oldPhone)
	}
	users[u.Phone] = u
	return storage.SetJSON(ctx, r.store, keyUsers, users)
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return User{}, err
	}
	u, ok := users[phone]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if normEmail(u.Email) == normEmail(email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *repository) Counts(ctx context.Context) (Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return Counts{}, err
	}
	c := Counts{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case RoleFarmer:
			c.Farmers++
		case RoleBuyer:
			c.Buyers++
		}
	}
	return c, nil
}

func (r *repository) SaveOTP(ctx context.Context, email string, otp OTP) error {
	return storage.SetJSON(ctx, r.store, keyOTP+normEmail(email), otp)
}

func (r *repository) FindOTP(ctx context.Context, email string) (OTP, bool, error) {
	var otp OTP
	ok, err := storage.GetJSON(ctx, r.store, keyOTP+normEmail(email), &otp)
	return otp, ok, err
}

func (r *repository) DeleteOTP(ctx context.Context, email string) error {
	if err := r.store.Remove(ctx, keyOTP+normEmail(email)); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	return nil
}

func (r *repository) AddTicket(ctx context.Context, t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tickets []Ticket
	if _, err := storage.GetJSON(ctx, r.store, keyTickets, &tickets); err != nil {
		return err
	}
	return storage.SetJSON(ctx, r.store, keyTickets, append(tickets, t))
}

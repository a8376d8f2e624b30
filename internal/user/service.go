// Package user is the account directory behind the development stub API.
package user

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"farmer-market-web/internal/auth"
	"farmer-market-web/internal/logger"

	"go.uber.org/zap"
)

// OTPTTL is how long a reset code stays valid.
const OTPTTL = 10 * time.Minute

type Service interface {
	RegisterFarmer(ctx context.Context, in FarmerInput) (User, error)
	RegisterBuyer(ctx context.Context, in BuyerInput) (User, error)
	Login(ctx context.Context, phone, password string) (string, User, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	UpdateSettings(ctx context.Context, phone string, in SettingsInput) (User, error)
	SubmitTicket(ctx context.Context, t Ticket) error
	Counts(ctx context.Context) (Counts, error)
}

type FarmerInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

type BuyerInput struct {
	FullName string
	Phone    string
	Email    string
	Password string
}

type SettingsInput struct {
	FullName        string
	Phone           string
	CurrentPassword string
	NewPassword     string
}

type service struct {
	repo   Repository
	issuer *auth.Issuer
	now    func() time.Time
	code   func() string
}

func NewService(repo Repository, issuer *auth.Issuer) Service {
	return &service{
		repo:   repo,
		issuer: issuer,
		now:    time.Now,
		code:   func() string { return fmt.Sprintf("%06d", rand.IntN(1_000_000)) },
	}
}

func (s *service) register(ctx context.Context, u User, password string) (User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}
	u.Password = hashed
	u.CreatedAt = s.now()

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		log.Warn("failed to create user", zap.String("phone", u.Phone), zap.Error(err))
		return User{}, err
	}

	log.Info("register service completed",
		zap.String("phone", created.Phone),
		zap.String("role", string(created.Role)),
	)
	return created, nil
}

func (s *service) RegisterFarmer(ctx context.Context, in FarmerInput) (User, error) {
	return s.register(ctx, User{
		Phone:     in.Phone,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      RoleFarmer,
	}, in.Password)
}

func (s *service) RegisterBuyer(ctx context.Context, in BuyerInput) (User, error) {
	first, last, _ := strings.Cut(strings.TrimSpace(in.FullName), " ")
	return s.register(ctx, User{
		Phone:     in.Phone,
		Email:     in.Email,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Role:      RoleBuyer,
	}, in.Password)
}

func (s *service) Login(ctx context.Context, phone, password string) (string, User, error) {
	u, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		logger.FromCtx(ctx).Info("phone not found", zap.String("phone", phone))
		return "", User{}, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, u.Password) {
		logger.FromCtx(ctx).Info("password not match", zap.String("phone", phone))
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Generate(u.Phone, u.Email, string(u.Role))
	return token, u, err
}

func (s *service) Authenticate(ctx context.Context, token string) (User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return User{}, auth.ErrInvalidToken
	}
	return s.repo.FindByPhone(ctx, claims.Phone)
}

// ForgotPassword issues a fresh code for email. The stub has no mailer, so
// the code is logged and returned.
func (s *service) ForgotPassword(ctx context.Context, email string) (string, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return "", err
	}

	code := s.code()
	if err := s.repo.SaveOTP(ctx, email, OTP{Code: code, ExpiresAt: s.now().Add(OTPTTL)}); err != nil {
		return "", err
	}

	logger.FromCtx(ctx).Info("otp issued", zap.String("email", email), zap.String("otp", code))
	return code, nil
}

func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	otp, ok, err := s.repo.FindOTP(ctx, email)
	if err != nil {
		return err
	}
	if !ok || otp.Code != code || s.now().After(otp.ExpiresAt) {
		return ErrInvalidOTP
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidOTP
	}
	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hashed
	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}
	return s.repo.DeleteOTP(ctx, email)
}

// UpdateSettings changes name and phone, and the password when a new one is
// supplied together with the correct current one.
func (s *service) UpdateSettings(ctx context.Context, phone string, in SettingsInput) (User, error) {
	u, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return User{}, err
	}

	if in.NewPassword != "" {
		if !auth.CheckPasswordHash(in.CurrentPassword, u.Password) {
			return User{}, ErrWrongPassword
		}
		hashed, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return User{}, err
		}
		u.Password = hashed
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		first, last, _ := strings.Cut(name, " ")
		u.FirstName, u.LastName = first, strings.TrimSpace(last)
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}

	if err := s.repo.Rekey(ctx, phone, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) SubmitTicket(ctx context.Context, t Ticket) error {
	t.CreatedAt = s.now()
	return s.repo.AddTicket(ctx, t)
}

func (s *service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.Counts(ctx)
}

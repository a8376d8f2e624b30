// Package account runs the sign-in, registration, password and settings
// submissions: validate, call upstream, then update the session.
package account

import (
	"context"
	"strings"
	"sync"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/form"
	"farmer-market-web/internal/inflight"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/route"
	"farmer-market-web/internal/session"

	"go.uber.org/zap"
)

type Flow string

const (
	FlowSignIn         Flow = "signin"
	FlowRegisterFarmer Flow = "register_farmer"
	FlowRegisterBuyer  Flow = "register_buyer"
	FlowForgotPassword Flow = "forgot_password"
	FlowResetPassword  Flow = "reset_password"
	FlowResendOTP      Flow = "resend_otp"
	FlowVerifyCode     Flow = "verify_code"
	FlowSettings       Flow = "settings"
	FlowSupport        Flow = "support"
)

type Service struct {
	api  apiclient.API
	sess *session.Context

	mu    sync.Mutex
	slots map[Flow]*inflight.Slot
}

func NewService(api apiclient.API, sess *session.Context) *Service {
	return &Service{api: api, sess: sess, slots: make(map[Flow]*inflight.Slot)}
}

func (s *Service) slot(f Flow) *inflight.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[f]
	if !ok {
		sl = &inflight.Slot{}
		s.slots[f] = sl
	}
	return sl
}

// Pending reports whether flow has a submission in progress.
func (s *Service) Pending(f Flow) bool { return s.slot(f).Pending() }

// run starts a submission of flow, cancelling any earlier one.
func (s *Service) run(ctx context.Context, f Flow, fn func(h *inflight.Handle) (Result, error)) (Result, error) {
	h := s.slot(f).Begin(ctx)
	defer h.Done()

	res, err := fn(h)
	if err != nil {
		logger.FromCtx(ctx).Info("submission failed",
			zap.String("flow", string(f)),
			zap.Error(err),
		)
	}
	return res, err
}

// commit applies fn if h is still current, mapping a lost race to
// ErrSuperseded.
func commit(h *inflight.Handle, fn func() error) error {
	var err error
	if !h.Commit(func() { err = fn() }) {
		return ErrSuperseded
	}
	return err
}

func invalid(err error) (Result, error) {
	return Result{Message: err.Error()}, err
}

// NextForRole is where a freshly signed-in user lands.
func NextForRole(role session.Role) string {
	if d := route.DashboardFor(role); d != "" {
		return d
	}
	return NextHome
}

func (s *Service) SignIn(ctx context.Context, f form.SignIn) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowSignIn, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.Login(h.Context(), f)
		if err != nil {
			return Result{Message: apiclient.MessageOr(err, msgSignInFailed)}, err
		}

		err = commit(h, func() error {
			return s.sess.SignIn(ctx, resp.User.FirstName, resp.User.Phone, resp.User.Role, resp.Token)
		})
		if err != nil {
			return Result{Message: msgSignInFailed}, err
		}
		return Result{Next: NextForRole(session.ParseRole(resp.User.Role))}, nil
	})
}

func (s *Service) RegisterFarmer(ctx context.Context, f form.FarmerSignUp) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowRegisterFarmer, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.RegisterFarmer(h.Context(), f)
		if err != nil {
			return Result{Message: apiclient.MessageOr(err, msgServerError)}, err
		}
		if err := commit(h, func() error { return nil }); err != nil {
			return Result{}, err
		}
		return Result{Next: NextBusinessDetails, Message: resp.Message}, nil
	})
}

func (s *Service) RegisterBuyer(ctx context.Context, f form.BuyerRegistration) (Result, error) {
	if errs := f.Validate(); errs != nil {
		return Result{Message: form.BuyerRegistrationMessage, FieldErrors: errs}, errs
	}
	return s.run(ctx, FlowRegisterBuyer, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.RegisterBuyer(h.Context(), f.Payload())
		if err != nil {
			fallback := msgServerError
			if apiclient.IsNoResponse(err) {
				fallback = msgNoResponse
			}
			return Result{Message: apiclient.MessageOr(err, fallback)}, err
		}

		err = commit(h, func() error {
			if err := s.sess.SetPhone(ctx, f.PhoneNumber); err != nil {
				return err
			}
			return s.sess.SetUserName(ctx, f.FullName)
		})
		if err != nil {
			return Result{Message: msgServerError}, err
		}

		msg := resp.Message
		if msg == "" {
			msg = msgBuyerDone
		}
		return Result{Next: NextVerificationCode, Message: msg}, nil
	})
}

// otpSent accepts either an explicit success flag or a message saying the
// code went out.
func otpSent(r *apiclient.StatusResponse) bool {
	return r.Success || strings.Contains(strings.ToLower(r.Message), "otp sent")
}

func (s *Service) ForgotPassword(ctx context.Context, f form.ForgotPassword) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowForgotPassword, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.ForgotPassword(h.Context(), f.Email)
		if err != nil {
			if apiclient.IsNoResponse(err) {
				return Result{Message: msgSomethingWrong}, err
			}
			return Result{Message: apiclient.MessageOr(err, msgForgotFailed)}, err
		}
		if !otpSent(resp) {
			return Result{Message: orDefault(resp.Message, msgEmailNotFound)}, ErrNotAccepted
		}
		if err := commit(h, func() error { return nil }); err != nil {
			return Result{}, err
		}
		return Result{Next: NextOTPPage, Message: msgOTPSent, Email: f.Email}, nil
	})
}

func (s *Service) ResendOTP(ctx context.Context, f form.ResendOTP) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowResendOTP, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.ForgotPassword(h.Context(), f.Email)
		if err != nil {
			if apiclient.IsNoResponse(err) {
				return Result{Message: msgResendWrong}, err
			}
			return Result{Message: apiclient.MessageOr(err, msgResendFailed)}, err
		}
		if !otpSent(resp) {
			return Result{Message: orDefault(resp.Message, msgResendInvalid)}, ErrNotAccepted
		}
		return Result{Message: msgResent}, nil
	})
}

func (s *Service) ResetPassword(ctx context.Context, f form.ResetPassword) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowResetPassword, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.ResetPassword(h.Context(), f)
		if err != nil {
			if apiclient.IsNoResponse(err) {
				return Result{Message: msgSomethingWrong}, err
			}
			return Result{Message: apiclient.MessageOr(err, msgResetFailed)}, err
		}
		if !resp.Success {
			return Result{Message: orDefault(resp.Message, msgResetInvalid)}, ErrNotAccepted
		}
		if err := commit(h, func() error { return nil }); err != nil {
			return Result{}, err
		}
		return Result{Next: NextSignIn, Message: msgResetDone}, nil
	})
}

// VerifyCode checks the six-digit code locally; there is no upstream
// verification endpoint.
func (s *Service) VerifyCode(ctx context.Context, f form.VerificationCode) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowVerifyCode, func(h *inflight.Handle) (Result, error) {
		if err := commit(h, func() error { return nil }); err != nil {
			return Result{}, err
		}
		return Result{Next: NextSuccessPage, Message: msgVerified}, nil
	})
}

func (s *Service) SaveSettings(ctx context.Context, f form.Settings) (Result, error) {
	return s.run(ctx, FlowSettings, func(h *inflight.Handle) (Result, error) {
		resp, err := s.api.UpdateSettings(h.Context(), s.sess.Token(), f.Payload())
		if err != nil {
			return Result{Message: apiclient.MessageOr(err, msgSettingsFailed)}, err
		}

		err = commit(h, func() error {
			if err := s.sess.SetUserName(ctx, f.FullName); err != nil {
				return err
			}
			return s.sess.SetPhone(ctx, f.PhoneNumber)
		})
		if err != nil {
			return Result{Message: msgSettingsFailed}, err
		}
		return Result{Message: orDefault(resp.Message, msgSettingsSaved)}, nil
	})
}

func (s *Service) SubmitSupport(ctx context.Context, f form.Support) (Result, error) {
	if err := f.Validate(); err != nil {
		return invalid(err)
	}
	return s.run(ctx, FlowSupport, func(h *inflight.Handle) (Result, error) {
		if _, err := s.api.SubmitSupport(h.Context(), f); err != nil {
			return Result{Message: apiclient.MessageOr(err, msgSupportFailed)}, err
		}
		return Result{Message: msgSupportSent}, nil
	})
}

// Logout clears the session and sends the user to sign-in.
func (s *Service) Logout(ctx context.Context) (Result, error) {
	if err := s.sess.Logout(ctx); err != nil {
		logger.FromCtx(ctx).Warn("failed to clear session storage", zap.Error(err))
	}
	return Result{Next: NextSignIn}, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

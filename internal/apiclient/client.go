// Package apiclient talks to the upstream marketplace API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"farmer-market-web/internal/form"
	"farmer-market-web/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	PathRegisterFarmer = "/api/users/register/farmer"
	PathRegisterBuyer  = "/api/users/register/buyer"
	PathLogin          = "/api/users/login"
	PathForgotPassword = "/api/users/forgot-password"
	PathResetPassword  = "/api/users/reset-password"
	PathSettings       = "/api/users/settings"
	PathSystemMetrics  = "/api/system/metrics"
	PathSupport        = "/api/support"
)

// API is what the account flows and system page need from upstream.
type API interface {
	Login(ctx context.Context, f form.SignIn) (*LoginResponse, error)
	RegisterFarmer(ctx context.Context, f form.FarmerSignUp) (*MessageResponse, error)
	RegisterBuyer(ctx context.Context, p form.BuyerPayload) (*MessageResponse, error)
	ForgotPassword(ctx context.Context, email string) (*StatusResponse, error)
	ResetPassword(ctx context.Context, f form.ResetPassword) (*StatusResponse, error)
	UpdateSettings(ctx context.Context, token string, p form.SettingsPayload) (*MessageResponse, error)
	SubmitSupport(ctx context.Context, f form.Support) (*MessageResponse, error)
	SystemMetrics(ctx context.Context) (*Metrics, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	metrics    singleflight.Group
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("farmer-market-web/apiclient"),
	}
}

func (c *Client) Login(ctx context.Context, f form.SignIn) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, "", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterFarmer(ctx context.Context, f form.FarmerSignUp) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, PathRegisterFarmer, "", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterBuyer(ctx context.Context, p form.BuyerPayload) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, PathRegisterBuyer, "", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodPost, PathForgotPassword, "", EmailRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, f form.ResetPassword) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodPost, PathResetPassword, "", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, token string, p form.SettingsPayload) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPut, PathSettings, token, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitSupport(ctx context.Context, f form.Support) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, PathSupport, "", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SystemMetrics coalesces concurrent callers into one upstream request. The
// shared request is detached from any single caller's cancellation and is
// bounded by the client timeout; each caller waits on its own ctx.
func (c *Client) SystemMetrics(ctx context.Context) (*Metrics, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.metrics.DoChan(PathSystemMetrics, func() (any, error) {
		var out Metrics
		if err := c.do(shared, http.MethodGet, PathSystemMetrics, "", nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		m := *res.Val.(*Metrics)
		return &m, nil
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			log.Error("failed to marshal request", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := logger.RequestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("upstream request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	log.Debug("upstream response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg MessageResponse
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		log.Info("upstream rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error("failed to decode response", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

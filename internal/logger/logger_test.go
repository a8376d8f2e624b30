package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, lvl zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(lvl)
	t.Cleanup(Replace(zap.New(core)))
	return logs
}

func TestInit(t *testing.T) {
	t.Cleanup(Replace(log))

	tests := []struct {
		env       string
		infoOn    bool
		debugOn   bool
		override string
	}{
		{env: "production", infoOn: true},
		{env: "cli", infoOn: false},
		{env: "development", infoOn: true, debugOn: true},
		{env: "cli", infoOn: true, debugOn: true, override: "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.override)
			Init(tt.env)
			require.NotNil(t, log)
			assert.Equal(t, tt.infoOn, log.Core().Enabled(zapcore.InfoLevel))
			assert.Equal(t, tt.debugOn, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
		})
	}
}

func TestL(t *testing.T) {
	t.Cleanup(Replace(nil))
	t.Setenv("APP_ENV", "cli")

	l := L()
	require.NotNil(t, l)
	assert.Same(t, l, L())
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFrom(ctx))
	assert.Empty(t, SessionIDFrom(ctx))

	ctx = WithSessionID(WithRequestID(ctx, "r-1"), "s-1")
	assert.Equal(t, "r-1", RequestIDFrom(ctx))
	assert.Equal(t, "s-1", SessionIDFrom(ctx))
}

func TestFromCtx(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	FromCtx(context.Background()).Info("bare")
	FromCtx(WithRequestID(context.Background(), "r-1")).Info("request scoped")
	FromCtx(WithSessionID(WithRequestID(context.Background(), "r-2"), "s-2")).Info("session scoped")

	entries := logs.TakeAll()
	require.Len(t, entries, 3)

	assert.NotContains(t, entries[0].ContextMap(), "request_id")
	assert.Equal(t, "r-1", entries[1].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "session_id")
	assert.Equal(t, map[string]any{"request_id": "r-2", "session_id": "s-2"}, entries[2].ContextMap())
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, Sync)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("Generates ID when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "test-id-123", seen)
		assert.Equal(t, "test-id-123", w.Header().Get(RequestIDHeader))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app/dashboard":
			w.WriteHeader(http.StatusFound)
		case "/api/produce":
			w.WriteHeader(http.StatusUnauthorized)
		case "/api/system":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte("hello"))
		}
	}))

	for _, path := range []string{"/healthz", "/app/dashboard", "/api/produce", "/api/system"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Client-Type", "frontend")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.TakeAll()
	require.Len(t, entries, 4)

	first := entries[0].ContextMap()
	assert.Equal(t, "/healthz", first["path"])
	assert.EqualValues(t, http.StatusOK, first["status"])
	assert.EqualValues(t, 5, first["bytes"])
	assert.Equal(t, "frontend", first["client"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

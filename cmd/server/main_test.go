package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/app"
	"farmer-market-web/internal/config"
	"farmer-market-web/internal/httpapi"
	"farmer-market-web/internal/middleware"
	"farmer-market-web/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SessionCookie:   "fm_session",
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitEnable: true,
	}
	reg := app.NewRegistry(storage.NewMemoryStore(), apiclient.New("http://127.0.0.1:1", 0))
	h := httpapi.NewHandler(cfg, reg, middleware.NewLimiter())

	t.Run("Health Check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ok")
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("Issues session cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var found bool
		for _, c := range rr.Result().Cookies() {
			if c.Name == "fm_session" {
				found = true
				assert.True(t, c.HttpOnly)
			}
		}
		assert.True(t, found)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("Unauthenticated farmer route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/produce", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Health reports counters", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Sessions int `json:"sessions"`
			HTTP     struct {
				Requests     int `json:"requests"`
				ClientErrors int `json:"clientErrors"`
			} `json:"http"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 3, body.HTTP.Requests)
		assert.Equal(t, 1, body.HTTP.ClientErrors)
		assert.Equal(t, 2, body.Sessions)
	})
}

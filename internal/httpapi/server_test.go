package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/app"
	"farmer-market-web/internal/auth"
	"farmer-market-web/internal/config"
	"farmer-market-web/internal/storage"
	"farmer-market-web/internal/stubapi"
	"farmer-market-web/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv   *httptest.Server
	users user.Service
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	iss, err := auth.NewIssuer("testsecret", time.Hour)
	require.NoError(t, err)
	users := user.NewService(user.NewRepository(storage.NewMemoryStore()), iss)
	upstream := httptest.NewServer(stubapi.NewEngine(users))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		AppEnv:         "test",
		SessionCookie:  "fm_session",
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	reg := app.NewRegistry(storage.NewMemoryStore(), apiclient.New(upstream.URL, 5*time.Second))
	srv := httptest.NewServer(NewHandler(cfg, reg, nil))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, users: users}
}

// client returns a cookie-keeping client, i.e. one browser session.
func (e *testEnv) client(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) do(t *testing.T, c *http.Client, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (e *testEnv) signIn(t *testing.T, c *http.Client, role string) {
	t.Helper()
	ctx := context.Background()
	phone := "08012345678"
	if role == "buyer" {
		_, err := e.users.RegisterBuyer(ctx, user.BuyerInput{FullName: "Chidi Okafor", Phone: phone, Email: "c@shop.ng", Password: "secret1"})
		require.NoError(t, err)
	} else {
		_, err := e.users.RegisterFarmer(ctx, user.FarmerInput{FirstName: "Ada", Phone: phone, Email: "ada@farm.ng", Password: "secret1"})
		require.NoError(t, err)
	}

	resp, _ := e.do(t, c, http.MethodPost, "/api/account/signin", map[string]string{"phoneNumber": phone, "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNavigate(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	t.Run("Guarded page redirects to sign in", func(t *testing.T) {
		resp, _ := env.do(t, c, http.MethodGet, "/app/farmerdashboardnew/orders", nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/signin", resp.Header.Get("Location"))
	})

	t.Run("Setup page renders without token", func(t *testing.T) {
		resp, raw := env.do(t, c, http.MethodGet, "/app/businessdetails", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(raw), "BusinessDetails")
	})

	t.Run("Unknown page", func(t *testing.T) {
		resp, _ := env.do(t, c, http.MethodGet, "/app/nowhere", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Session cookie issued once", func(t *testing.T) {
		u, _ := http.NewRequest(http.MethodGet, env.srv.URL, nil)
		assert.Len(t, c.Jar.Cookies(u.URL), 1)
	})
}

func TestSignInFlow(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	t.Run("Invalid form is 422 with message", func(t *testing.T) {
		resp, raw := env.do(t, c, http.MethodPost, "/api/account/signin", map[string]string{"phoneNumber": "0801"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, string(raw), "All fields are required!")
	})

	t.Run("Wrong password passes server message", func(t *testing.T) {
		resp, raw := env.do(t, c, http.MethodPost, "/api/account/signin", map[string]string{"phoneNumber": "08099999999", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, string(raw), "Invalid phone number or password")
	})

	env.signIn(t, c, "farmer")

	t.Run("Public-only page bounces to dashboard", func(t *testing.T) {
		resp, _ := env.do(t, c, http.MethodGet, "/app/signin", nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/farmerdashboardnew", resp.Header.Get("Location"))
	})

	t.Run("Session view", func(t *testing.T) {
		_, raw := env.do(t, c, http.MethodGet, "/api/session", nil)
		v := decode[sessionView](t, raw)
		assert.True(t, v.Authenticated)
		assert.Equal(t, "Ada", v.UserName)
		assert.Equal(t, "/farmerdashboardnew", v.Dashboard)
	})

	t.Run("Logout", func(t *testing.T) {
		resp, raw := env.do(t, c, http.MethodPost, "/api/account/logout", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(raw), "/signin")

		resp, _ = env.do(t, c, http.MethodGet, "/api/produce", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestFarmerStores(t *testing.T) {
	env := newEnv(t)

	t.Run("Buyer is forbidden", func(t *testing.T) {
		c := env.client(t)
		env.signIn(t, c, "buyer")
		resp, _ := env.do(t, c, http.MethodGet, "/api/deliveries", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	env = newEnv(t)
	c := env.client(t)
	env.signIn(t, c, "farmer")

	t.Run("Produce publish", func(t *testing.T) {
		in := map[string]any{
			"action": "publish",
			"input": map[string]any{
				"name": "Tomatoes", "category": "Vegetables", "quantity": 10, "price": 1200,
				"availableDate": "2025-10-01", "startDate": "2025-09-20", "farmLocation": "Ibadan",
			},
		}
		resp, raw := env.do(t, c, http.MethodPost, "/api/produce", in)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		assert.Contains(t, string(raw), "Your produce has been uploaded successfully!")

		_, raw = env.do(t, c, http.MethodGet, "/api/produce", nil)
		assert.Len(t, decode[[]map[string]any](t, raw), 1)
	})

	t.Run("Deliveries page and export", func(t *testing.T) {
		resp, raw := env.do(t, c, http.MethodGet, "/api/deliveries?range=All&page=1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		view := decode[map[string]any](t, raw)
		assert.EqualValues(t, 11, view["total"])
		assert.EqualValues(t, 3, view["delayedCount"])

		resp, raw = env.do(t, c, http.MethodGet, "/api/deliveries/export.csv?range=All", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "deliveries_export_")
		lines := strings.Split(string(raw), "\n")
		assert.Len(t, lines, 12)
		assert.True(t, strings.HasPrefix(lines[0], `"Shipment ID"`))
	})

	t.Run("Reject needs a reason", func(t *testing.T) {
		_, raw := env.do(t, c, http.MethodGet, "/api/direct-orders", nil)
		orders := decode[[]map[string]any](t, raw)
		require.NotEmpty(t, orders)
		id := orders[0]["id"].(string)

		resp, raw := env.do(t, c, http.MethodPost, "/api/direct-orders/"+id+"/reject", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, string(raw), "Please select a reason")

		resp, _ = env.do(t, c, http.MethodPost, "/api/direct-orders/"+id+"/accept", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = env.do(t, c, http.MethodPost, "/api/direct-orders/"+id+"/accept", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Tracked orders clear", func(t *testing.T) {
		resp, raw := env.do(t, c, http.MethodDelete, "/api/orders", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(raw), "All orders cleared successfully!")

		resp, _ = env.do(t, c, http.MethodDelete, "/api/orders/nope", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCheckout(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)
	env.signIn(t, c, "buyer")

	product := map[string]any{"id": 1, "name": "Maize", "price": 11500, "unit": "bag"}
	resp, raw := env.do(t, c, http.MethodPost, "/api/cart/items", map[string]any{"product": product, "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	cv := decode[cartView](t, raw)
	assert.Equal(t, 25000.0, cv.Totals.Total)

	resp, _ = env.do(t, c, http.MethodPost, "/api/checkout", map[string]any{"method": "crypto", "customer": map[string]string{"name": "Chidi"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, raw = env.do(t, c, http.MethodPost, "/api/checkout", map[string]any{"method": "card", "customer": map[string]string{"name": "Chidi"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	_, raw = env.do(t, c, http.MethodGet, "/api/payment/acceptance", nil)
	a := decode[map[string]any](t, raw)
	assert.Equal(t, "Chidi", a["displayName"])
	assert.Equal(t, "₦25,000", a["amount"])

	_, raw = env.do(t, c, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[cartView](t, raw).Items)
}

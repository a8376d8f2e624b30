package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAccessToken(t *testing.T) {
	t.Run("Header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/users/settings", nil)
		req.Header.Set("Authorization", "Bearer header_token")
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie_token"})

		assert.Equal(t, "header_token", ExtractAccessToken(req))
	})

	t.Run("Cookie when header is not bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/users/settings", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie_token"})

		assert.Equal(t, "cookie_token", ExtractAccessToken(req))
	})

	t.Run("Nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/users/settings", nil)
		assert.Empty(t, ExtractAccessToken(req))
	})
}

package auth

import (
	"net/http"
	"strings"
)

// TokenCookie carries the same token the client keeps under session.KeyToken.
const TokenCookie = "token"

// BearerToken parses an Authorization header value. The scheme is matched
// case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ExtractAccessToken returns the bearer token of r, or the token cookie when
// the request carries no usable Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if token, ok := BearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

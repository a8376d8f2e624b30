package middleware

import (
	"net/http"

	"farmer-market-web/internal/logger"

	"github.com/google/uuid"
)

// SessionHeader lets non-browser clients carry a session without cookies.
const SessionHeader = "X-Session-ID"

// Session makes sure every request has a session id. The id comes from the
// cookie, then SessionHeader; a missing or malformed id is replaced with a
// fresh one and the cookie is (re)issued.
func Session(cookieName string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := extractSessionID(r, cookieName)
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(logger.WithSessionID(r.Context(), sid)))
		})
	}
}

func extractSessionID(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}
	if v := r.Header.Get(SessionHeader); v != "" {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}
	return ""
}

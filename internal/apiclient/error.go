package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResponse wraps transport failures where no HTTP response arrived.
	ErrNoResponse = errors.New("no response from server")
	ErrBadRequest = errors.New("failed to build request")
	ErrDecode     = errors.New("failed to decode response")
)

// APIError is a non-2xx response. Message comes from the body's "message"
// field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// MessageOr returns the server's message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsNoResponse reports whether err is a transport failure.
func IsNoResponse(err error) bool { return errors.Is(err, ErrNoResponse) }

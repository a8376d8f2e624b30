package account

import "errors"

var (
	// ErrSuperseded is returned when a newer submission of the same flow
	// started before this one finished. Nothing was committed.
	ErrSuperseded = errors.New("submission superseded")
	// ErrNotAccepted is a 2xx response that did not report success.
	ErrNotAccepted = errors.New("request not accepted")
)

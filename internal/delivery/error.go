package delivery

import "errors"

var (
	ErrNotFound      = errors.New("delivery not found")
	ErrInvalidWhen   = errors.New("invalid delivery date/time")
	ErrExportFailure = errors.New("failed to export deliveries")
)

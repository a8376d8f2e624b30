package storage

import "errors"

var (
	ErrEmptyKey      = errors.New("storage key is empty")
	ErrCorrupt       = errors.New("stored value is not valid JSON")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrMissingDSN    = errors.New("storage DSN is not set")
)

package produce

import "errors"

var (
	ErrInvalidListing = errors.New("name, category, quantity, price, dates and location are required")
	ErrUnknownAction  = errors.New("unknown produce action")
	ErrNotFound       = errors.New("produce listing not found")
)

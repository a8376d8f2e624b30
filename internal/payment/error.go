package payment

import "errors"

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrInvalidMethod = errors.New("payment method must be card or bank")
	ErrMissingName   = errors.New("customer name is required")
)

package payment

import (
	"context"
	"strings"
	"time"

	"farmer-market-web/internal/cart"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/money"

	"go.uber.org/zap"
)

type Customer struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Location string `json:"location"`
}

// Checkout settles the cart, records the receipt in pc and empties the cart.
// The cart's favorites are left untouched.
func Checkout(ctx context.Context, pc *Context, c *cart.Store, method Method, customer Customer, now time.Time) (PaymentData, error) {
	if c.Totals().Count == 0 {
		return PaymentData{}, ErrCartEmpty
	}
	if !method.Valid() {
		return PaymentData{}, ErrInvalidMethod
	}
	if strings.TrimSpace(customer.Name) == "" {
		return PaymentData{}, ErrMissingName
	}

	// The receipt covers exactly the lines taken out of the cart.
	totals := cart.ComputeTotals(c.Drain())
	if totals.Count == 0 {
		return PaymentData{}, ErrCartEmpty
	}

	d := PaymentData{
		ConfirmationID: NewConfirmationID(now),
		Amount:         totals.Total,
		Method:         method.Label(),
		CustomerName:   strings.TrimSpace(customer.Name),
		Phone:          customer.Phone,
		Address:        customer.Address,
		Location:       customer.Location,
		PaymentDate:    now.Format("02/01/2006"),
	}
	d.Instructions = Instructions(method, money.Naira(d.Amount), d.ConfirmationID)
	pc.Set(d)

	logger.FromCtx(ctx).Info("checkout completed",
		zap.String("confirmation_id", d.ConfirmationID),
		zap.Float64("amount", d.Amount),
		zap.String("method", string(method)),
	)
	return d, nil
}

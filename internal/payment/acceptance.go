package payment

import (
	"strings"
	"unicode/utf8"

	"farmer-market-web/internal/money"
)

// Acceptance is the order-accepted page for a buyer.
type Acceptance struct {
	DisplayName string       `json:"displayName"`
	Initial     string       `json:"initial"`
	Amount      string       `json:"amount,omitempty"`
	Payment     *PaymentData `json:"payment,omitempty"`
}

// DisplayName falls back to "buyer" for an unnamed session.
func DisplayName(userName string) string {
	if userName == "" {
		return "buyer"
	}
	return userName
}

// Initial is the upper-cased first letter of userName, or "?".
func Initial(userName string) string {
	if userName == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(userName)
	return strings.ToUpper(string(r))
}

func NewAcceptance(userName string, pc *Context) Acceptance {
	a := Acceptance{DisplayName: DisplayName(userName), Initial: Initial(userName)}
	if d, ok := pc.Get(); ok {
		a.Payment = &d
		a.Amount = money.Naira(d.Amount)
	}
	return a
}

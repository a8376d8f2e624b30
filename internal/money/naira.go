// Package money formats amounts for display.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Naira renders v with a naira sign and thousands separators. Whole amounts
// drop the fraction.
func Naira(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "₦0"
	}
	if v == math.Trunc(v) {
		return printer.Sprintf("₦%d", int64(v))
	}
	return printer.Sprintf("₦%.2f", v)
}

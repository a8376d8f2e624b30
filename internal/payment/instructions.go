package payment

import "strings"

// Placeholders filled in by Instructions.
const (
	varAmount         = "{{amount}}"
	varConfirmationID = "{{confirmation_id}}"
)

var steps = map[Method][]string{
	MethodCard: {
		"Enter your card number, expiry date (MM/YY) and CVV",
		"Confirm that the card details are correct",
		"Complete the one-time password check sent by your bank",
		"Wait for the payment of " + varAmount + " to be confirmed",
	},
	MethodBank: {
		"Choose Direct Bank Transfer or Instant Transfer",
		"Transfer exactly " + varAmount + " from your bank app",
		"Use " + varConfirmationID + " as the transfer narration",
		"Keep your bank receipt until the farmer confirms the order",
	},
}

var fallbackSteps = []string{"Follow the payment instructions shown on this page"}

// Steps returns the unfilled steps for method.
func Steps(method Method) []string {
	if s, ok := steps[method]; ok {
		return s
	}
	return fallbackSteps
}

// Instructions returns the steps for method with the amount and confirmation
// id filled in. Unknown placeholders are left as written.
func Instructions(method Method, amount, confirmationID string) []string {
	r := strings.NewReplacer(varAmount, amount, varConfirmationID, confirmationID)

	src := Steps(method)
	out := make([]string, len(src))
	for i, s := range src {
		out[i] = r.Replace(s)
	}
	return out
}

package directorder

import "errors"

var (
	ErrNotFound       = errors.New("order not found")
	ErrNotPending     = errors.New("only pending orders can be accepted or rejected")
	ErrReasonRequired = errors.New("rejection reason is required")
	ErrOtherRequired  = errors.New("other reason must be specified")
	ErrUnknownReason  = errors.New("unknown rejection reason")
)

// UserMessage is the prompt shown for a rejected rejection.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrReasonRequired):
		return "Please select a reason for rejection (or 'Other' and specify)."
	case errors.Is(err, ErrOtherRequired):
		return "Please specify other reason."
	}
	return err.Error()
}

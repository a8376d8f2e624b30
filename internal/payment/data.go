package payment

import "sync"

type Method string

const (
	MethodCard Method = "card"
	MethodBank Method = "bank"
)

func (m Method) Valid() bool { return m == MethodCard || m == MethodBank }

// Label is how the method is shown on the receipt.
func (m Method) Label() string {
	switch m {
	case MethodCard:
		return "Credit/Debit Card"
	case MethodBank:
		return "Bank Transfer"
	}
	return string(m)
}

// PaymentData is the receipt of the last checkout.
type PaymentData struct {
	ConfirmationID string  `json:"confirmationId"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	CustomerName   string  `json:"customerName"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	Location       string  `json:"location"`
	PaymentDate    string  `json:"paymentDate"`

	Instructions []string `json:"instructions,omitempty"`
}

// Context holds at most one PaymentData for a client.
type Context struct {
	mu   sync.RWMutex
	data *PaymentData
}

func (c *Context) Set(d PaymentData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = &d
}

// Get returns a copy of the current receipt.
func (c *Context) Get() (PaymentData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return PaymentData{}, false
	}
	return *c.data, true
}

func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

package trackorder

import (
	"time"

	"farmer-market-web/internal/money"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Statuses is the filter dropdown, "All" first.
var Statuses = []string{"All", "Pending", "Confirmed", "In Transit", "Delivered", "Cancelled"}

const StorageKey = "farmerOrders"

const (
	MessageDeleted = "Order deleted successfully!"
	MessageCleared = "All orders cleared successfully!"
)

type Order struct {
	ID       string  `json:"id" yaml:"id"`
	Produce  string  `json:"produce" yaml:"produce"`
	Buyer    string  `json:"buyer" yaml:"buyer"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
	Unit     string  `json:"unit" yaml:"unit"`
	Status   Status  `json:"status" yaml:"status"`
	Date     string  `json:"date" yaml:"date"`
	Email    string  `json:"email" yaml:"email"`
	Phone    string  `json:"phone" yaml:"phone"`
	Street   string  `json:"street" yaml:"street"`
	City     string  `json:"city" yaml:"city"`
	Country  string  `json:"country" yaml:"country"`
	Image    string  `json:"image" yaml:"image"`
}

// LineTotal is price times quantity.
func (o Order) LineTotal() float64 { return o.Price * o.Quantity }

func (o Order) FormattedTotal() string { return money.Naira(o.LineTotal()) }

// DisplayDate renders Date as "Oct 20, 2025", or the raw value when it does
// not parse.
func (o Order) DisplayDate() string {
	t, err := time.Parse("2006-01-02", o.Date)
	if err != nil {
		return o.Date
	}
	return t.Format("Jan 2, 2006")
}

type Filter struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
}

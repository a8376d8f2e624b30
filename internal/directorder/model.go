package directorder

type Status string

const (
	StatusPending    Status = "Pending"
	StatusAccepted   Status = "Accepted"
	StatusRejected   Status = "Rejected"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

const StorageKey = "directOrders_v1_seed"

// ReasonOther requires free text in place of a fixed reason.
const ReasonOther = "Others (Please specify)"

var RejectReasons = []string{
	"Out of stock",
	"Cannot meet delivery time",
	"Product quality does not meet standard",
	"Delivery location outside my service area",
	"Pricing conflict",
	ReasonOther,
}

// Toast messages shown after each action.
const (
	MessageAccepted  = "Order accepted successfully"
	MessageRejected  = "Order rejected"
	MessageRefreshed = "Data refreshed"
)

type Item struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

type Order struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Location     string  `json:"location" yaml:"location"`
	DistanceKm   float64 `json:"distanceKm" yaml:"distanceKm"`
	Items        []Item  `json:"items" yaml:"items"`
	Image        string  `json:"image" yaml:"image"`
	Status       Status  `json:"status" yaml:"status"`
	RejectReason string  `json:"rejectReason,omitempty" yaml:"rejectReason"`
	CreatedAt    string  `json:"createdAt" yaml:"createdAt"`
}

// Total is the sum of item prices.
func (o Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price
	}
	return sum
}

// Actionable reports whether the order can still be accepted or rejected.
func (o Order) Actionable() bool { return o.Status == StatusPending }

type Filter struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
}

package delivery

import "time"

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
	StatusDelayed   Status = "Delayed"
	StatusPending   Status = "Pending"
)

// CycleOrder is the demo progression used by CycleStatus.
var CycleOrder = []Status{StatusScheduled, StatusInTransit, StatusDelivered, StatusDelayed}

const (
	StorageKey = "farmerDeliveries_exact_image_v1"
	// LegacyStorageKey is an older layout that is removed on open.
	LegacyStorageKey = "farmerDeliveries"
	PageSize         = 7
	UnknownRecipient = "Unknown Recipient"
	ScheduledMessage = "New delivery scheduled!"
)

type Delivery struct {
	ID                string   `json:"id" yaml:"id"`
	Datetime          string   `json:"datetime" yaml:"datetime"`
	Recipient         string   `json:"recipient" yaml:"recipient"`
	RecipientLocation string   `json:"recipientLocation,omitempty" yaml:"recipientLocation"`
	ProduceSummary    []string `json:"produceSummary" yaml:"produceSummary"`
	WeightLbs         float64  `json:"weightLbs" yaml:"weightLbs"`
	Crates            int      `json:"crates" yaml:"crates"`
	Status            Status   `json:"status" yaml:"status"`
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time parses Datetime. Values without a zone are read in local time.
func (d Delivery) Time() (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, d.Datetime, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ScheduleForm is the "schedule delivery" dialog.
type ScheduleForm struct {
	Recipient         string `json:"recipient"`
	RecipientLocation string `json:"recipientLocation"`
	Datetime          string `json:"datetime"`
	Produce           string `json:"produce"`
	WeightLbs         string `json:"weightLbs"`
	Crates            string `json:"crates"`
	Status            Status `json:"status"`
}

type Range string

const (
	RangeAll    Range = "All"
	Range7Days  Range = "7"
	Range30Days Range = "30"
)

// Days returns the window length, or 0 for no window.
func (r Range) Days() int {
	switch r {
	case Range7Days:
		return 7
	case Range30Days:
		return 30
	}
	return 0
}

// Filter narrows the deliveries table. Zero values of Status and Recipient
// behave like "All".
type Filter struct {
	Search    string `form:"search" json:"search"`
	Status    string `form:"status" json:"status"`
	Recipient string `form:"recipient" json:"recipient"`
	Range     Range  `form:"range" json:"range"`
}

// DefaultFilter is the table's initial state.
func DefaultFilter() Filter {
	return Filter{Status: "All", Recipient: "All", Range: Range7Days}
}

package produce

import "farmer-market-web/internal/money"

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

// StorageKey is where listings are persisted.
const StorageKey = "produceList_v1"

var (
	Categories = []string{"Fruits", "Vegetables", "Grains", "Pulses", "Dairy"}
	Locations  = []string{"Lagos", "Kano", "Rivers", "Ogun", "Oyo", "Kaduna"}
)

type Listing struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	Price         float64 `json:"price"`
	Description   string  `json:"description,omitempty"`
	AvailableDate string  `json:"availableDate"`
	StartDate     string  `json:"startDate"`
	FarmLocation  string  `json:"farmLocation"`
	ImageBase64   *string `json:"imageBase64"`
	Status        Status  `json:"status"`
	CreatedAt     int64   `json:"createdAt"`
}

// FormattedPrice is the listing price as shown to buyers.
func (l Listing) FormattedPrice() string { return money.Naira(l.Price) }

// Input is the upload form.
type Input struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
	AvailableDate string  `json:"availableDate"`
	StartDate     string  `json:"startDate"`
	FarmLocation  string  `json:"farmLocation"`
	ImageBase64   *string `json:"imageBase64"`
}

type Action string

const (
	ActionPublish Action = "publish"
	ActionDraft   Action = "draft"
	ActionUpdate  Action = "update"
)

// ResultMessage is the confirmation shown after action succeeds.
func (a Action) ResultMessage() string {
	switch a {
	case ActionPublish:
		return "Your produce has been uploaded successfully!"
	case ActionDraft:
		return "Your produce has been saved as draft."
	}
	return "Your produce has been updated successfully!"
}

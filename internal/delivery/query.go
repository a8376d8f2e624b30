package delivery

import (
	"slices"
	"time"

	"farmer-market-web/internal/mockstore"
)

func isAll(v string) bool { return v == "" || v == "All" }

// Apply returns the deliveries matching f at instant now. Rows whose
// datetime does not parse are never excluded by the date window.
func Apply(items []Delivery, f Filter, now time.Time) []Delivery {
	days := f.Range.Days()
	return mockstore.Filter(items, func(d Delivery) bool {
		if !mockstore.ContainsFold(f.Search, d.ID, d.Recipient) {
			return false
		}
		if !isAll(f.Status) && string(d.Status) != f.Status {
			return false
		}
		if !isAll(f.Recipient) && d.Recipient != f.Recipient {
			return false
		}
		if days > 0 {
			if t, ok := d.Time(); ok && !mockstore.WithinDays(t, now, days) {
				return false
			}
		}
		return true
	})
}

// Recipients lists "All" followed by each distinct recipient in first-seen
// order.
func Recipients(items []Delivery) []string {
	out := []string{"All"}
	for _, d := range items {
		if !slices.Contains(out[1:], d.Recipient) {
			out = append(out, d.Recipient)
		}
	}
	return out
}

func DelayedCount(items []Delivery) int {
	n := 0
	for _, d := range items {
		if d.Status == StatusDelayed {
			n++
		}
	}
	return n
}

// View is one rendered page of the deliveries table.
type View struct {
	mockstore.Page[Delivery]
	Recipients   []string `json:"recipients"`
	DelayedCount int      `json:"delayedCount"`
	Filter       Filter   `json:"filter"`
}

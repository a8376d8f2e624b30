package cart

// DeliveryFee is charged once per order with a non-empty cart.
const DeliveryFee = 2000

type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
	Farm  string  `json:"farm"`
	Image string  `json:"image"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) LineTotal() float64 { return i.Product.Price * float64(i.Quantity) }

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	Count       int     `json:"count"`
}

// ComputeTotals sums line totals and adds the delivery fee when the subtotal
// is positive.
func ComputeTotals(items []CartItem) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.LineTotal()
	}
	if t.Subtotal > 0 {
		t.DeliveryFee = DeliveryFee
	}
	t.Total = t.Subtotal + t.DeliveryFee
	t.Count = len(items)
	return t
}

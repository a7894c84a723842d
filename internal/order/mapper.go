package order

import (
	"time"

	"liwamenu-be/internal/cart"
	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/pricing"
	"liwamenu-be/internal/restaurant"
)

// BuildPayload converts a priced cart into the order endpoint's payload.
// In-person orders carry the table; online orders carry customer and
// payment details.
func BuildPayload(
	state restaurant.State,
	summary cart.Summary,
	checkout pricing.Checkout,
	req CheckoutRequest,
	tableNumber *int,
	now time.Time,
) Payload {
	items := make([]Item, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		tags := l.SelectedTags
		if tags == nil {
			tags = []catalog.SelectedTag{}
		}
		items = append(items, Item{
			ProductID:    l.Product.ID,
			ProductName:  l.Product.Name,
			PortionID:    l.Portion.ID,
			PortionName:  l.Portion.Name,
			UnitPrice:    l.UnitPrice.Price,
			Quantity:     l.Quantity,
			SelectedTags: tags,
			ItemTotal:    l.LineTotal,
			Note:         l.Note,
		})
	}

	p := Payload{
		RestaurantID: state.RestaurantID,
		OrderType:    req.OrderType,
		Items:        items,
		TotalAmount:  checkout.Total,
		OrderNote:    req.OrderNote,
		CreatedAt:    now.UTC(),
	}

	if req.OrderType == pricing.OrderInPerson {
		p.TableNumber = tableNumber
		return p
	}

	if req.Customer != nil {
		c := *req.Customer
		p.CustomerInfo = &c
	}
	p.PaymentMethodID = req.PaymentMethodID
	if pm, ok := state.PaymentMethod(req.PaymentMethodID); ok {
		p.PaymentMethodName = pm.Name
	}
	return p
}

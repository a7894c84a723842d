package pricing

import (
	"liwamenu-be/internal/restaurant"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderInPerson OrderType = "inPerson"
	OrderOnline   OrderType = "online"
)

func (t OrderType) Valid() bool {
	return t == OrderInPerson || t == OrderOnline
}

var hundred = decimal.NewFromInt(100)

// MoneyPlaces is the scale of every amount that leaves the engine; order
// history stores NUMERIC(12, 2).
const MoneyPlaces = 2

// Checkout is the money breakdown for a cart subtotal. It never rejects;
// callers block online orders while MinOrderGap is positive.
type Checkout struct {
	OrderType      OrderType       `json:"orderType"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discountRate"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Total          decimal.Decimal `json:"total"`
	MinOrderGap    decimal.Decimal `json:"minOrderGap"`
}

// ComputeCheckout applies the order type's discount rate and, for online
// orders, the delivery fee. An unknown order type gets neither.
//
//	discount = round(subtotal * rate / 100, 2)
//	total    = round(subtotal - discount + fee, 2)
//
// Rounding is half away from zero and happens only here, so the submitted
// total and the stored one agree.
func ComputeCheckout(subtotal decimal.Decimal, orderType OrderType, s restaurant.State) Checkout {
	c := Checkout{
		OrderType:    orderType,
		Subtotal:     subtotal,
		DiscountRate: decimal.Zero,
		DeliveryFee:  decimal.Zero,
		MinOrderGap:  decimal.Zero,
	}

	switch orderType {
	case OrderInPerson:
		c.DiscountRate = s.TableOrderDiscountRate
	case OrderOnline:
		c.DiscountRate = s.OnlineOrderDiscountRate
		c.DeliveryFee = s.DeliveryPrice
	}

	if gap := s.MinOrderAmount.Sub(subtotal); gap.IsPositive() {
		c.MinOrderGap = gap
	}

	c.DiscountAmount = subtotal.Mul(c.DiscountRate).Div(hundred).Round(MoneyPlaces)
	c.Total = subtotal.Sub(c.DiscountAmount).Add(c.DeliveryFee).Round(MoneyPlaces)
	return c
}

// MinOrderProgress is subtotal as a percentage of the minimum order,
// capped at 100. A zero minimum counts as met.
func MinOrderProgress(subtotal, minOrder decimal.Decimal) decimal.Decimal {
	if !minOrder.IsPositive() {
		return hundred
	}
	p := subtotal.Mul(hundred).Div(minOrder)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

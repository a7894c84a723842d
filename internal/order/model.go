package order

import (
	"time"

	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/geo"
	"liwamenu-be/internal/pricing"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Submission modes recorded with each order.
const (
	ModeUpstream = "upstream"
	ModeLocal    = "local"
)

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// Item is one cart line as sent to the order endpoint.
type Item struct {
	ProductID    string                `json:"productId"`
	ProductName  string                `json:"productName"`
	PortionID    string                `json:"portionId"`
	PortionName  string                `json:"portionName"`
	UnitPrice    decimal.Decimal       `json:"unitPrice"`
	Quantity     int                   `json:"quantity"`
	SelectedTags []catalog.SelectedTag `json:"selectedTags"`
	ItemTotal    decimal.Decimal       `json:"itemTotal"`
	Note         string                `json:"note"`
}

// Payload is the body posted to the order endpoint.
type Payload struct {
	RestaurantID      string            `json:"restaurantId"`
	OrderType         pricing.OrderType `json:"orderType"`
	Items             []Item            `json:"items"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"`
	OrderNote         string            `json:"orderNote,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	CustomerInfo      *CustomerInfo     `json:"customerInfo,omitempty"`
	PaymentMethodID   string            `json:"paymentMethodId,omitempty"`
	PaymentMethodName string            `json:"paymentMethodName,omitempty"`
	TableNumber       *int              `json:"tableNumber,omitempty"`
}

type Order struct {
	Payload
	ID        string           `json:"id"`
	Status    Status           `json:"status"`
	SessionID string           `json:"-"`
	Checkout  pricing.Checkout `json:"checkout"`
	Mode      string           `json:"-"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// CheckoutRequest is what the diner confirms at checkout. Coordinates are
// the browser's geolocation result, absent when it was denied or failed.
type CheckoutRequest struct {
	OrderType       pricing.OrderType `json:"orderType"`
	Customer        *CustomerInfo     `json:"customerInfo"`
	PaymentMethodID string            `json:"paymentMethodId"`
	OrderNote       string            `json:"orderNote"`
	Coordinates     *geo.Coordinates  `json:"coordinates"`
}

// Quote is a checkout preview that is never submitted.
type Quote struct {
	pricing.Checkout
	ItemCount        int             `json:"itemCount"`
	MinOrderProgress decimal.Decimal `json:"minOrderProgress"`
	CanOrder         bool            `json:"canOrder"`
	Reason           string          `json:"reason,omitempty"`
}

// Submission is the order endpoint's answer.
type Submission struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

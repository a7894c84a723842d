package order

import "errors"

var (
	// -- Validation & Input --
	ErrCartEmpty             = errors.New("cart is empty")
	ErrInvalidOrderType      = errors.New("invalid order type")
	ErrMinimumOrderNotMet    = errors.New("minimum order amount not met")
	ErrCustomerInfoRequired  = errors.New("name, phone and address are required")
	ErrInvalidPhone          = errors.New("invalid phone number")
	ErrPaymentMethodRequired = errors.New("an enabled payment method is required")
	ErrTableRequired         = errors.New("table number is required for in-person orders")
	ErrOutOfRange            = errors.New("location is outside the allowed distance")
	ErrInvalidStatus         = errors.New("invalid order status")

	// -- Environment --
	ErrLocationRequired = errors.New("customer location could not be determined")

	// -- Eligibility --
	ErrOrderingClosed = errors.New("ordering is currently closed")

	// -- Resource State --
	ErrSubmissionInProgress    = errors.New("an order submission is already in progress")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("order status can no longer change")

	// -- Service & Database Failures --
	ErrSubmissionFailed   = errors.New("order submission failed")
	ErrFailedCreateOrder  = errors.New("failed to save order")
	ErrFailedGetOrders    = errors.New("failed to get orders")
	ErrFailedUpdateStatus = errors.New("failed to update order status")
)

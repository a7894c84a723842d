package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity  = errors.New("invalid cart quantity")
	ErrMissingSession   = errors.New("missing session id")
	ErrPortionMismatch  = errors.New("portion does not belong to product")
	ErrInvalidSelection = errors.New("invalid add-on selection")

	// -- Resource State --
	ErrProductNotFound  = errors.New("product not found")
	ErrPortionNotFound  = errors.New("portion not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

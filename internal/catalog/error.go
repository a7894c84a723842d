package catalog

import "errors"

var (
	// -- Catalog invariants --
	ErrInvalidTagGroup  = errors.New("invalid tag group bounds")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrNonPositivePrice = errors.New("price must be greater than zero")
	ErrNoPortions       = errors.New("product has no portions")

	// -- Selection --
	ErrTagGroupNotFound     = errors.New("tag group not found")
	ErrTagItemNotFound      = errors.New("tag item not found")
	ErrDuplicateSelection   = errors.New("tag item already selected")
	ErrMaxSelectionReached  = errors.New("maximum selection reached")
	ErrMinSelectionNotMet   = errors.New("minimum selection not met")
	ErrMaxSelectionExceeded = errors.New("maximum selection exceeded")
	ErrInvalidTagQuantity   = errors.New("invalid tag quantity")
)

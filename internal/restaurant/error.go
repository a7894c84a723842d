package restaurant

import "errors"

var (
	ErrReadConfig          = errors.New("failed to read restaurant file")
	ErrDecodeConfig        = errors.New("failed to decode restaurant file")
	ErrInvalidWorkingHour  = errors.New("invalid working hour")
	ErrDuplicateWorkingDay = errors.New("duplicate working hour day")
	ErrInvalidMenuPlan     = errors.New("invalid menu plan")
	ErrInvalidRate         = errors.New("discount rate must be between 0 and 100")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInvalidCatalog      = errors.New("invalid catalog")
)

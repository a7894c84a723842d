package reservation

import "errors"

var (
	// -- Validation --
	ErrNameRequired   = errors.New("full name is required")
	ErrPhoneRequired  = errors.New("phone number is required")
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrInvalidEmail   = errors.New("a valid email address is required")
	ErrDateRequired   = errors.New("reservation date is required")
	ErrDateInPast     = errors.New("reservation date is in the past")
	ErrTimeRequired   = errors.New("reservation time is required")
	ErrInvalidGuests  = errors.New("guest count must be at least 1")
	ErrUnknownCountry = errors.New("unknown country code")

	// -- Verification --
	ErrCodeRequired     = errors.New("verification code is required")
	ErrCodeNotRequested = errors.New("no verification code was requested or it expired")
	ErrCodeMismatch     = errors.New("verification code does not match")
	ErrTooManyAttempts  = errors.New("too many wrong verification codes")

	// -- Service --
	ErrCodeDeliveryFailed = errors.New("failed to send verification code")
	ErrSubmissionFailed   = errors.New("reservation could not be submitted")
)

// IsValidationError reports whether err is the diner's to fix.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrNameRequired, ErrPhoneRequired, ErrInvalidPhone, ErrInvalidEmail,
		ErrDateRequired, ErrDateInPast, ErrTimeRequired, ErrInvalidGuests,
		ErrUnknownCountry, ErrCodeRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

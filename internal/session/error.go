package session

import "errors"

var (
	ErrMissingSecret     = errors.New("session secret is not set")
	ErrInvalidToken      = errors.New("invalid session token")
	ErrUnexpectedSigning = errors.New("unexpected signing method")
	ErrNoSession         = errors.New("no session in context")
	ErrInvalidTable      = errors.New("table number must be positive")
)

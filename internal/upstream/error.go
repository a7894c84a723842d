package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured  = errors.New("upstream endpoint not configured")
	ErrRequestFailed  = errors.New("upstream request failed")
	ErrDecodeResponse = errors.New("failed to decode upstream response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Target     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Target, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

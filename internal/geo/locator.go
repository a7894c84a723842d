package geo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrLocationDenied      = errors.New("location permission denied")
	ErrLocationTimeout     = errors.New("location request timed out")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// DefaultTimeout bounds a single location acquisition.
const DefaultTimeout = 10 * time.Second

// Locator resolves the customer's current position. Implementations may
// block until the position is known, denied, or ctx is done.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

type LocatorFunc func(ctx context.Context) (Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (Coordinates, error) {
	return f(ctx)
}

// Fixed returns a Locator for coordinates the client already resolved.
// A nil pointer means the client could not provide a position.
func Fixed(c *Coordinates) Locator {
	return LocatorFunc(func(ctx context.Context) (Coordinates, error) {
		if c == nil {
			return Coordinates{}, ErrLocationUnavailable
		}
		if !c.Valid() {
			return Coordinates{}, ErrInvalidCoordinates
		}
		return *c, nil
	})
}

// Acquire asks l for a position and gives up after timeout. A non-positive
// timeout falls back to DefaultTimeout.
func Acquire(ctx context.Context, l Locator, timeout time.Duration) (Coordinates, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		coords Coordinates
		err    error
	}
	done := make(chan result, 1)

	go func() {
		c, err := l.Locate(ctx)
		done <- result{c, err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return Coordinates{}, ErrLocationTimeout
		}
		return r.coords, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinates{}, ErrLocationTimeout
		}
		return Coordinates{}, ctx.Err()
	}
}

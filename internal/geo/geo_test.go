package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	t.Run("Same point", func(t *testing.T) {
		p := Coordinates{Latitude: 41.0082, Longitude: 28.9784}
		assert.Equal(t, 0.0, DistanceKm(p, p))
	})

	t.Run("Istanbul to Ankara", func(t *testing.T) {
		istanbul := Coordinates{Latitude: 41.0082, Longitude: 28.9784}
		ankara := Coordinates{Latitude: 39.9334, Longitude: 32.8597}
		assert.InDelta(t, 350.0, DistanceKm(istanbul, ankara), 5.0)
	})

	t.Run("One degree of latitude", func(t *testing.T) {
		a := Coordinates{Latitude: 0, Longitude: 0}
		b := Coordinates{Latitude: 1, Longitude: 0}
		assert.InDelta(t, 111.19, DistanceKm(a, b), 0.01)
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := Coordinates{Latitude: 40.99, Longitude: 29.02}
		b := Coordinates{Latitude: 41.04, Longitude: 28.95}
		assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
	})
}

func TestWithinRange(t *testing.T) {
	restaurant := Coordinates{Latitude: 41.0082, Longitude: 28.9784}
	customer := Coordinates{Latitude: 41.0082 + 5.0/111.195, Longitude: 28.9784}
	d := DistanceKm(customer, restaurant)

	t.Run("Boundary is inclusive", func(t *testing.T) {
		assert.True(t, WithinRange(customer, restaurant, d))
	})

	t.Run("Just outside", func(t *testing.T) {
		assert.False(t, WithinRange(customer, restaurant, d-0.001))
	})

	t.Run("About five km", func(t *testing.T) {
		assert.InDelta(t, 5.0, d, 0.01)
		assert.True(t, WithinRange(customer, restaurant, 5.01))
	})

	t.Run("Table distance in meters", func(t *testing.T) {
		near := Coordinates{Latitude: 41.0082 + 0.0005, Longitude: 28.9784}
		assert.True(t, WithinRange(near, restaurant, MetersToKm(100)))
		assert.False(t, WithinRange(near, restaurant, MetersToKm(50)))
	})
}

func TestCoordinatesValid(t *testing.T) {
	assert.True(t, Coordinates{Latitude: 90, Longitude: -180}.Valid())
	assert.False(t, Coordinates{Latitude: 91, Longitude: 0}.Valid())
	assert.False(t, Coordinates{Latitude: 0, Longitude: 181}.Valid())
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("Fixed coordinates", func(t *testing.T) {
		c := &Coordinates{Latitude: 1, Longitude: 2}
		got, err := Acquire(ctx, Fixed(c), time.Second)
		require.NoError(t, err)
		assert.Equal(t, *c, got)
	})

	t.Run("Missing coordinates", func(t *testing.T) {
		_, err := Acquire(ctx, Fixed(nil), time.Second)
		assert.ErrorIs(t, err, ErrLocationUnavailable)
	})

	t.Run("Invalid coordinates", func(t *testing.T) {
		_, err := Acquire(ctx, Fixed(&Coordinates{Latitude: 100}), time.Second)
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	})

	t.Run("Denied", func(t *testing.T) {
		l := LocatorFunc(func(ctx context.Context) (Coordinates, error) {
			return Coordinates{}, ErrLocationDenied
		})
		_, err := Acquire(ctx, l, time.Second)
		assert.ErrorIs(t, err, ErrLocationDenied)
	})

	t.Run("Times out", func(t *testing.T) {
		l := LocatorFunc(func(ctx context.Context) (Coordinates, error) {
			<-ctx.Done()
			return Coordinates{}, ctx.Err()
		})
		start := time.Now()
		_, err := Acquire(ctx, l, 20*time.Millisecond)
		assert.ErrorIs(t, err, ErrLocationTimeout)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("Parent canceled", func(t *testing.T) {
		parent, cancel := context.WithCancel(ctx)
		cancel()
		l := LocatorFunc(func(ctx context.Context) (Coordinates, error) {
			<-ctx.Done()
			return Coordinates{}, errors.New("gave up")
		})
		_, err := Acquire(parent, l, time.Second)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrLocationTimeout)
	})
}

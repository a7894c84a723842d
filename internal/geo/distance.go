package geo

import "math"

// EarthRadiusKm is the mean earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula.
func DistanceKm(a, b Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// WithinRange reports whether customer is at most maxDistanceKm away from
// restaurant. The boundary is inclusive.
func WithinRange(customer, restaurant Coordinates, maxDistanceKm float64) bool {
	return DistanceKm(customer, restaurant) <= maxDistanceKm
}

func MetersToKm(meters float64) float64 {
	return meters / 1000
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

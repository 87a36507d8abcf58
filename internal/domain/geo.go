package domain

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate validates and builds a Coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if !ValidateCoordinates(lat, lon) {
		return Coordinate{}, fmt.Errorf("lat=%f lon=%f: %w", lat, lon, ErrInvalidCoordinates)
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// DistanceTo returns the great-circle distance in meters.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return Haversine(c.Lat, c.Lon, other.Lat, other.Lon)
}

// Positioned is anything with a location on the globe.
type Positioned interface {
	Position() Coordinate
}

// WithinRadius keeps the items whose great-circle distance from center is at most radiusMeters.
// Input order is preserved.
func WithinRadius[T Positioned](items []T, center Coordinate, radiusMeters float64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if center.DistanceTo(it.Position()) <= radiusMeters {
			out = append(out, it)
		}
	}
	return out
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

package utils

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the spherical Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// FallbackPoint is the geometric center of Brazil, substituted whenever a
// true location cannot be resolved. orb points are (lon, lat).
var FallbackPoint = orb.Point{-51.9253, -14.2350}

// Haversine returns the great-circle distance between two points in
// kilometers. Pure and total over finite inputs.
func Haversine(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ValidateCoordinate rejects out-of-range latitude/longitude pairs.
func ValidateCoordinate(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", lon)
	}
	return nil
}

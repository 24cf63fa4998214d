// README: Pure geographic computation helpers (distance and duration estimates).
package geo

import (
	"errors"
	"math"

	"commute/internal/types"
)

const earthRadiusM = 6371000.0

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidSpeed      = errors.New("invalid speed")
)

// Distance returns the great-circle (haversine) distance in metres between
// two points specified in decimal degrees.
func Distance(a, b types.GeoPoint) (float64, error) {
	if !validPoint(a) || !validPoint(b) {
		return 0, ErrInvalidCoordinate
	}

	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c, nil
}

// Duration estimates travel time in seconds for a distance in metres at the
// given average speed.
func Duration(distanceMeters, averageSpeedKmh float64) (float64, error) {
	if averageSpeedKmh <= 0 || math.IsNaN(averageSpeedKmh) {
		return 0, ErrInvalidSpeed
	}
	if distanceMeters < 0 || math.IsNaN(distanceMeters) {
		return 0, ErrInvalidCoordinate
	}
	metersPerSecond := averageSpeedKmh * 1000 / 3600
	return distanceMeters / metersPerSecond, nil
}

func validPoint(p types.GeoPoint) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

package utils

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000.0

// DefaultWalkingSpeed is the pedestrian speed in meters per minute.
const DefaultWalkingSpeed = 80.0

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" groups:"basic,detailed"`
	Lon float64 `json:"lon" groups:"basic,detailed"`
}

// Valid reports whether p is a finite coordinate inside the WGS84 range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceMeters returns the great-circle distance between a and b using the
// haversine formula. NaN inputs yield NaN.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WalkingMinutes converts a distance into whole minutes of walking, rounded up.
// A non-positive speed falls back to DefaultWalkingSpeed.
func WalkingMinutes(meters, speed float64) int {
	if meters <= 0 || math.IsNaN(meters) {
		return 0
	}
	if speed <= 0 {
		speed = DefaultWalkingSpeed
	}
	return int(math.Ceil(meters / speed))
}

// PresentableDistance formats a distance in meters for display: whole meters
// below one kilometer, one decimal kilometer above.
func PresentableDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	km := math.Round(meters/100) / 10
	return fmt.Sprintf("%gkm", km)
}

func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

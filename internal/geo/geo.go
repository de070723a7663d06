// Package geo provides the great-circle distance math behind the
// attendance proximity check.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius.
const earthRadiusMeters = 6371008.8

// ProximityRadiusMeters is how far a claimant may be from a class anchor
// and still be accepted. Distances strictly greater than this fail.
const ProximityRadiusMeters = 100.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b is within ProximityRadiusMeters of a.
// A point at exactly the radius is within.
func WithinRadius(a, b Point) bool {
	return Distance(a, b) <= ProximityRadiusMeters
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

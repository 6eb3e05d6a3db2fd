package techrepo

import (
	"math"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

// toLocation validates a stored coordinate pair. Missing, non-finite or
// out-of-range values yield nil so the ranking sees "no known position".
func toLocation(lat, lng *float64) *matching.Location {
	if lat == nil || lng == nil {
		return nil
	}
	if !validCoordinate(*lat, 90) || !validCoordinate(*lng, 180) {
		return nil
	}
	return &matching.Location{Lat: *lat, Lng: *lng}
}

func validCoordinate(v, bound float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -bound && v <= bound
}

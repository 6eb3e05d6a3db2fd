package matching

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points given in
// degrees. ok is false when any coordinate is NaN or infinite.
func DistanceKm(lat1, lng1, lat2, lng2 float64) (float64, bool) {
	if !finite(lat1) || !finite(lng1) || !finite(lat2) || !finite(lng2) {
		return 0, false
	}
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c, true
}

// Distance is DistanceKm over optional locations; nil when either side is
// absent or not finite.
func Distance(from, to *Location) *float64 {
	if from == nil || to == nil {
		return nil
	}
	d, ok := DistanceKm(from.Lat, from.Lng, to.Lat, to.Lng)
	if !ok {
		return nil
	}
	return &d
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

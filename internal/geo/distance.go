package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

// Distance returns the great-circle surface distance in meters between two
// latitude/longitude pairs given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	c := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	// Coincident points can round to a cosine just above 1.
	if c >= 1 {
		return 0
	}
	if c < -1 {
		c = -1
	}
	return EarthRadius * math.Acos(c)
}

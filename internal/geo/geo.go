// Package geo provides the great-circle distance used for the
// distance-from-origin sample.
package geo

import "math"

// earthRadiusM is the mean Earth radius used by the haversine formula.
const earthRadiusM = 6371000.0

const degToRad = math.Pi / 180.0

// Distance returns the haversine distance in meters between two points
// given in decimal degrees. It is symmetric and zero for identical points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := lat1 * degToRad
	p2 := lat2 * degToRad
	dp := (lat2 - lat1) * degToRad
	dl := (lon2 - lon1) * degToRad

	sinDp := math.Sin(dp / 2)
	sinDl := math.Sin(dl / 2)
	a := sinDp*sinDp + math.Cos(p1)*math.Cos(p2)*sinDl*sinDl
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

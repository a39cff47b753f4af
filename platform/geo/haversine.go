// Package geo provides great-circle distance utilities.
// This is part of the platform layer and contains no business logic.
package geo

import "math"

// EarthRadiusMiles is the mean Earth radius used for all distance math.
// Every distance this package returns is in statute miles.
const EarthRadiusMiles = 3958.8

// HaversineMiles returns the great-circle distance in miles between two
// points given in decimal degrees.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

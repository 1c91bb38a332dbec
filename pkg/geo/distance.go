package geo

import "math"

const (
	earthRadiusMiles = 3959.0
	feetPerMile      = 5280.0
)

// DistanceFeet returns the great-circle distance between two coordinates in
// feet, using the haversine formula on a spherical-earth approximation.
func DistanceFeet(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c * feetPerMile
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

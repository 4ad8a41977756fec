package geo

import "math"

// Coordinate is a WGS84 lat/lon pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

const earthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between a and b in kilometers
// (haversine formula).
func DistanceKm(a, b Coordinate) float64 {
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoundKm rounds a distance to two decimals, the precision carried on
// selected rooms and used for ordering.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

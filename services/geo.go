package services

import (
	"math"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// walkMinutesPerKm models a constant 5 km/h walking pace.
const walkMinutesPerKm = 12

// HaversineKm returns the great-circle distance in kilometres between two
// points given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Pow(math.Sin(dPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(dLambda/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// DistanceKm is HaversineKm between two coordinates, rounded to 2 decimals.
func DistanceKm(from, to models.Coordinates) float64 {
	return Round2(HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon))
}

// KmToWalkMinutes estimates walking time, rounding halves to even.
func KmToWalkMinutes(km float64) int {
	return int(math.RoundToEven(km * walkMinutesPerKm))
}

// Round2 rounds to two decimal places, halves to even.
func Round2(f float64) float64 {
	return math.RoundToEven(f*100) / 100
}

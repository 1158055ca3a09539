package core

import (
	"math"

	"landprice_service/internal/domain/model"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b model.LocationPoint) float64 {
	dLat := deg2rad(b.Latitude - a.Latitude)
	dLon := deg2rad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Latitude))*math.Cos(deg2rad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can leave h just outside [0, 1] near antipodes
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// HaversineMeters is Haversine in meters.
func HaversineMeters(a, b model.LocationPoint) float64 {
	return Haversine(a, b) * 1000
}

// nearestPlace returns the index of the candidate closest to origin.
// Ties keep the earliest candidate. ok is false for an empty slice.
func nearestPlace(origin model.LocationPoint, places []model.Place) (idx int, ok bool) {
	if len(places) == 0 {
		return 0, false
	}

	minDist := Haversine(origin, places[0].Location)
	for i, p := range places[1:] {
		if d := Haversine(origin, p.Location); d < minDist {
			minDist = d
			idx = i + 1
		}
	}
	return idx, true
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

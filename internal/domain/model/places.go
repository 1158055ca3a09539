package model

import "context"

// PlaceLookup returns candidate places of one category within radiusMeters of origin.
type PlaceLookup interface {
	NearbyPlaces(ctx context.Context, origin LocationPoint, radiusMeters int, category AmenityCategory) ([]Place, error)
}

// DistanceRouter returns the routed distance between two points.
type DistanceRouter interface {
	RouteDistance(ctx context.Context, origin, destination LocationPoint) (*RouteDistance, error)
}

// AirQualitySource returns the summed pollutant index at a point.
type AirQualitySource interface {
	AirQualityIndex(ctx context.Context, location LocationPoint) (float64, error)
}

package core

import (
	"context"

	"go.uber.org/zap"

	"landprice_service/internal/domain/model"
)

// DistanceResolver computes the count and routed nearest distance for one amenity category.
type DistanceResolver struct {
	places model.PlaceLookup
	router model.DistanceRouter
}

func NewDistanceResolver(places model.PlaceLookup, router model.DistanceRouter) *DistanceResolver {
	return &DistanceResolver{places: places, router: router}
}

// Resolve never fails: lookup errors degrade to a zero result and routing errors to a zero
// distance. The reported distance is the routed one, never the haversine estimate.
func (r *DistanceResolver) Resolve(
	ctx context.Context,
	origin model.LocationPoint,
	radiusMeters int,
	category model.AmenityCategory,
) model.CategoryResult {
	log := zap.L().With(zap.String("component", "core.resolver"), zap.String("category", category.ID))
	result := model.CategoryResult{Category: category}

	places, err := r.places.NearbyPlaces(ctx, origin, radiusMeters, category)
	if err != nil {
		log.Warn("place lookup failed, using zero features", zap.Error(err))
		return result
	}

	result.Count = len(places)
	idx, ok := nearestPlace(origin, places)
	if !ok {
		return result
	}

	nearest := places[idx].Location
	if r.router == nil {
		log.Warn("no distance router configured")
		return result
	}

	route, err := r.router.RouteDistance(ctx, origin, nearest)
	if err != nil {
		log.Warn("routed distance lookup failed", zap.Error(err))
		return result
	}
	if route == nil {
		log.Warn("routed distance missing")
		return result
	}

	meters, err := ParseDistanceMeters(route.Text)
	if err != nil {
		if route.Value > 0 {
			meters = route.Value
		} else {
			log.Warn("unparseable routed distance", zap.String("text", route.Text), zap.Error(err))
			return result
		}
	}

	result.NearestDistanceMeters = meters
	log.Debug("category resolved",
		zap.Int("count", result.Count),
		zap.Float64("nearest_m", meters),
	)
	return result
}

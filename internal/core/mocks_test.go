package core

import (
	"context"

	"github.com/stretchr/testify/mock"

	"landprice_service/internal/domain/model"
)

type mockPlaces struct{ mock.Mock }

func (m *mockPlaces) NearbyPlaces(ctx context.Context, origin model.LocationPoint, radiusMeters int, category model.AmenityCategory) ([]model.Place, error) {
	args := m.Called(ctx, origin, radiusMeters, category)
	places, _ := args.Get(0).([]model.Place)
	return places, args.Error(1)
}

type mockRouter struct{ mock.Mock }

func (m *mockRouter) RouteDistance(ctx context.Context, origin, destination model.LocationPoint) (*model.RouteDistance, error) {
	args := m.Called(ctx, origin, destination)
	route, _ := args.Get(0).(*model.RouteDistance)
	return route, args.Error(1)
}

type mockAirQuality struct{ mock.Mock }

func (m *mockAirQuality) AirQualityIndex(ctx context.Context, location model.LocationPoint) (float64, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(float64), args.Error(1)
}

type mockPredictor struct{ mock.Mock }

func (m *mockPredictor) Predict(ctx context.Context, vector model.FeatureVector) (*model.Prediction, error) {
	args := m.Called(ctx, vector)
	p, _ := args.Get(0).(*model.Prediction)
	return p, args.Error(1)
}

func category(id string) model.AmenityCategory {
	return model.AmenityCategory{ID: id, CountKey: id + "_count", DistanceKey: id + "_mdist", PlaceType: id}
}

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"landprice_service/internal/domain/model"
)

var origin = model.LocationPoint{Latitude: 6.9279, Longitude: 79.9189}

func TestDistanceResolver_Resolve(t *testing.T) {
	hospital := category("govt_hospital")
	far := model.LocationPoint{Latitude: 6.96, Longitude: 79.95}
	near := model.LocationPoint{Latitude: 6.93, Longitude: 79.92}

	places := new(mockPlaces)
	places.On("NearbyPlaces", mock.Anything, origin, 5000, hospital).
		Return([]model.Place{{Location: far}, {Location: near}}, nil)

	router := new(mockRouter)
	router.On("RouteDistance", mock.Anything, origin, near).
		Return(&model.RouteDistance{Text: "0.8 km", Value: 812}, nil)

	res := NewDistanceResolver(places, router).Resolve(t.Context(), origin, 5000, hospital)

	assert.Equal(t, 2, res.Count)
	assert.InDelta(t, 800, res.NearestDistanceMeters, 1e-9)
	places.AssertExpectations(t)
	router.AssertExpectations(t)
}

func TestDistanceResolver_NoPlaces(t *testing.T) {
	uni := category("uni")
	places := new(mockPlaces)
	places.On("NearbyPlaces", mock.Anything, origin, 5000, uni).Return([]model.Place{}, nil)
	router := new(mockRouter)

	res := NewDistanceResolver(places, router).Resolve(t.Context(), origin, 5000, uni)

	assert.Zero(t, res.Count)
	assert.Zero(t, res.NearestDistanceMeters)
	router.AssertNotCalled(t, "RouteDistance", mock.Anything, mock.Anything, mock.Anything)
}

func TestDistanceResolver_Degrades(t *testing.T) {
	cat := category("school")
	dest := model.LocationPoint{Latitude: 6.93, Longitude: 79.92}

	tests := []struct {
		name      string
		lookupErr error
		route     *model.RouteDistance
		routeErr  error
		wantCount int
		wantDist  float64
	}{
		{name: "lookup error", lookupErr: errors.New("quota"), wantCount: 0},
		{name: "routing error", routeErr: errors.New("timeout"), wantCount: 1},
		{name: "nil route", wantCount: 1},
		{name: "unparseable text falls back to value", route: &model.RouteDistance{Text: "??", Value: 640}, wantCount: 1, wantDist: 640},
		{name: "unparseable text without value", route: &model.RouteDistance{Text: "??"}, wantCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places := new(mockPlaces)
			if tt.lookupErr != nil {
				places.On("NearbyPlaces", mock.Anything, origin, 1000, cat).Return(nil, tt.lookupErr)
			} else {
				places.On("NearbyPlaces", mock.Anything, origin, 1000, cat).
					Return([]model.Place{{Location: dest}}, nil)
			}
			router := new(mockRouter)
			router.On("RouteDistance", mock.Anything, origin, dest).Return(tt.route, tt.routeErr)

			res := NewDistanceResolver(places, router).Resolve(t.Context(), origin, 1000, cat)

			assert.Equal(t, tt.wantCount, res.Count)
			assert.InDelta(t, tt.wantDist, res.NearestDistanceMeters, 1e-9)
		})
	}
}

func TestDistanceResolver_NilRouter(t *testing.T) {
	cat := category("bank")
	places := new(mockPlaces)
	places.On("NearbyPlaces", mock.Anything, origin, 1000, cat).
		Return([]model.Place{{Location: origin}}, nil)

	res := NewDistanceResolver(places, nil).Resolve(t.Context(), origin, 1000, cat)

	assert.Equal(t, 1, res.Count)
	assert.Zero(t, res.NearestDistanceMeters)
}

package google

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landprice_service/internal/domain/model"
)

var origin = model.LocationPoint{Latitude: 6.9279, Longitude: 79.9189}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithAirQualityBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
	)
}

func TestNearbyPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "6.9279,79.9189", q.Get("location"))
		assert.Equal(t, "5000", q.Get("radius"))
		assert.Equal(t, "hospital", q.Get("type"))
		assert.Equal(t, "test-key", q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [
				{"geometry": {"location": {"lat": 6.93, "lng": 79.92}}},
				{"geometry": {"location": {"lat": 6.95, "lng": 79.95}}}
			]
		}`)
	}))
	defer srv.Close()

	places, err := newTestClient(srv).NearbyPlaces(t.Context(), origin, 5000,
		model.AmenityCategory{ID: "govt_hospital", PlaceType: "hospital"})

	require.NoError(t, err)
	assert.Equal(t, []model.Place{
		{Location: model.LocationPoint{Latitude: 6.93, Longitude: 79.92}},
		{Location: model.LocationPoint{Latitude: 6.95, Longitude: 79.95}},
	}, places)
}

func TestNearbyPlaces_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))
	defer srv.Close()

	places, err := newTestClient(srv).NearbyPlaces(t.Context(), origin, 5000, model.AmenityCategory{ID: "uni", PlaceType: "university"})

	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestNearbyPlaces_DeniedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).NearbyPlaces(t.Context(), origin, 5000, model.AmenityCategory{ID: "bank", PlaceType: "bank"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS"}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetries(2))
	_, err := c.NearbyPlaces(t.Context(), origin, 100, model.AmenityCategory{ID: "atm", PlaceType: "atm"})

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetries(3))
	_, err := c.NearbyPlaces(t.Context(), origin, 100, model.AmenityCategory{ID: "atm", PlaceType: "atm"})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS"}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRateLimit(20))
	cat := model.AmenityCategory{ID: "atm", PlaceType: "atm"}

	start := time.Now()
	for range 30 {
		_, err := c.NearbyPlaces(t.Context(), origin, 100, cat)
		require.NoError(t, err)
	}
	// 20 burst tokens, the remaining 10 arrive at 20/s.
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestRouteDistance(t *testing.T) {
	dest := model.LocationPoint{Latitude: 6.93, Longitude: 79.92}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/distancematrix/json", r.URL.Path)
		assert.Equal(t, "6.9279,79.9189", r.URL.Query().Get("origins"))
		assert.Equal(t, "6.93,79.92", r.URL.Query().Get("destinations"))
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"rows": [{"elements": [{"status": "OK", "distance": {"text": "0.8 km", "value": 812}}]}]
		}`)
	}))
	defer srv.Close()

	route, err := newTestClient(srv).RouteDistance(t.Context(), origin, dest)

	require.NoError(t, err)
	assert.Equal(t, &model.RouteDistance{Text: "0.8 km", Value: 812}, route)
}

func TestRouteDistance_ElementNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "OK", "rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).RouteDistance(t.Context(), origin, origin)

	assert.Error(t, err)
}

func TestRouteDistance_EmptyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status": "OK", "rows": []}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).RouteDistance(t.Context(), origin, origin)

	assert.Error(t, err)
}

func TestAirQualityIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/currentConditions:lookup", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body airQualityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 6.9279, body.Location.Latitude, 1e-9)
		assert.InDelta(t, 79.9189, body.Location.Longitude, 1e-9)

		_, _ = io.WriteString(w, `{"indexes": [{"code": "uaqi", "aqi": 61}, {"code": "lka_aqi", "aqi": 38}]}`)
	}))
	defer srv.Close()

	aqi, err := newTestClient(srv).AirQualityIndex(t.Context(), origin)

	require.NoError(t, err)
	assert.InDelta(t, 99, aqi, 1e-9)
}

func TestAirQualityIndex_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).AirQualityIndex(t.Context(), origin)

	assert.Error(t, err)
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landprice_service/internal/config"
	"landprice_service/internal/domain/repository"
	"landprice_service/internal/infrastructure/google"
)

func TestBuildPlaceLookup(t *testing.T) {
	gc := google.NewClient("k")

	tests := []struct {
		provider string
		ttl      time.Duration
		check    func(t *testing.T, v any)
	}{
		{"google", 0, func(t *testing.T, v any) { assert.IsType(t, &google.Client{}, v) }},
		{"overpass", 0, func(t *testing.T, v any) { assert.IsType(t, &repository.OverpassPlaceLookup{}, v) }},
		{"google", time.Minute, func(t *testing.T, v any) { assert.IsType(t, &repository.CachedPlaceLookup{}, v) }},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c := &config.Config{
				Places:   config.PlacesConfig{Provider: tt.provider, CacheTTL: tt.ttl},
				Overpass: config.OverpassConfig{Endpoint: "http://localhost", MaxParallel: 1, Timeout: time.Second},
			}
			lookup, err := buildPlaceLookup(t.Context(), c, gc, &environment{})
			require.NoError(t, err)
			tt.check(t, lookup)
		})
	}
}

func TestBuildPlaceLookup_UnknownProvider(t *testing.T) {
	c := &config.Config{Places: config.PlacesConfig{Provider: "bing"}}

	_, err := buildPlaceLookup(t.Context(), c, google.NewClient("k"), &environment{})

	assert.Error(t, err)
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDistanceMeters(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"1.2 km", 1200},
		{"450 m", 450},
		{"0.8 km", 800},
		{"1,234 m", 1234},
		{"1,024 km", 1024000},
		{"0.5 mi", 804.672},
		{"300 ft", 91.44},
		{"12km", 12000},
		{" 3 Km ", 3000},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseDistanceMeters(tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestParseDistanceMeters_Invalid(t *testing.T) {
	for _, text := range []string{"", "km", "1.2", "1.2 parsecs", "-3 km", "abc m"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseDistanceMeters(text)
			assert.Error(t, err)
		})
	}
}

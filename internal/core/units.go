package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

var unitMeters = map[string]float64{
	"km":         1000,
	"kms":        1000,
	"kilometer":  1000,
	"kilometers": 1000,
	"kilometre":  1000,
	"kilometres": 1000,
	"m":          1,
	"meter":      1,
	"meters":     1,
	"metre":      1,
	"metres":     1,
	"mi":         1609.344,
	"mile":       1609.344,
	"miles":      1609.344,
	"ft":         0.3048,
	"feet":       0.3048,
}

// ParseDistanceMeters normalizes a unit-qualified distance ("1.2 km", "450 m", "1,024 km")
// to meters.
func ParseDistanceMeters(text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, eris.New("empty distance")
	}

	split := strings.IndexFunc(s, unicode.IsLetter)
	if split <= 0 {
		return 0, eris.Errorf("distance %q has no numeric part or unit", text)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s[:split]), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "distance %q", text)
	}
	if value < 0 {
		return 0, eris.Errorf("negative distance %q", text)
	}

	unit := strings.TrimSpace(s[split:])
	factor, ok := unitMeters[unit]
	if !ok {
		return 0, eris.Errorf("unknown distance unit %q", unit)
	}

	return value * factor, nil
}

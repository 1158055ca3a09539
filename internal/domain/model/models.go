package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// LocationPoint is a WGS84 coordinate in degrees.
type LocationPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParseLocation parses a "lat,long" string.
func ParseLocation(s string) (LocationPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LocationPoint{}, eris.Errorf("location must have 2 components, got %d", len(parts))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LocationPoint{}, eris.Wrap(err, "invalid latitude")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LocationPoint{}, eris.Wrap(err, "invalid longitude")
	}

	p := LocationPoint{Latitude: lat, Longitude: lon}
	if err := p.Validate(); err != nil {
		return LocationPoint{}, err
	}
	return p, nil
}

// Validate checks that both components are finite and in range.
func (p LocationPoint) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return eris.New("location components must be finite")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return eris.New("latitude out of range [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return eris.New("longitude out of range [-180, 180]")
	}
	return nil
}

// String formats the point as "lat,long", the form external lookup services expect.
func (p LocationPoint) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// AmenityCategory is one class of point of interest tracked as a count and a nearest distance.
type AmenityCategory struct {
	ID          string `json:"id" yaml:"id"`
	CountKey    string `json:"count_key" yaml:"count_key"`
	DistanceKey string `json:"distance_key" yaml:"distance_key"`
	PlaceType   string `json:"place_type" yaml:"place_type"`
	OSMFilter   string `json:"osm_filter" yaml:"osm_filter"`
}

type LandType struct {
	Name   string `json:"name" yaml:"name"`
	Column string `json:"column" yaml:"column"`
}

type Place struct {
	Location LocationPoint
}

// RouteDistance is a routed distance as reported by a routing service.
// Text carries the unit-qualified representation ("1.2 km"), Value the raw meters if provided.
type RouteDistance struct {
	Text  string
	Value float64
}

type CategoryResult struct {
	Category              AmenityCategory
	Count                 int
	NearestDistanceMeters float64
}

// FeatureRecord maps amenity feature keys to values.
type FeatureRecord map[string]float64

// LandTypeVector is a multi-hot encoding of land-use categories.
type LandTypeVector []float64

// FeatureVector is ordered exactly like the model's schema columns.
type FeatureVector []float64

type EstimateRequest struct {
	Location     string
	LandType     string
	RadiusMeters int
}

type YearPrediction struct {
	Year    int     `json:"year"`
	Price   float64 `json:"price"`
	MinNext float64 `json:"min_next"`
	MaxNext float64 `json:"max_next"`
}

type PredictionResult struct {
	RequestID    string                 `json:"request_id"`
	CurrentPrice float64                `json:"current_price"`
	PerYear      map[int]YearPrediction `json:"per_year"`
	Features     map[string]float64     `json:"features"`
}

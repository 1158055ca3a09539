package core

import (
	"landprice_service/internal/domain/model"
)

// Non-amenity feature columns.
const (
	ColumnLatitude   = "latitude"
	ColumnLongitude  = "longitude"
	ColumnAirQuality = "air_quality"
)

// FeatureInputs holds every named feature source for one request.
type FeatureInputs struct {
	Amenities  model.FeatureRecord
	LandType   map[string]float64
	AirQuality float64
	Location   model.LocationPoint
	Temporal   map[string]float64
}

// MergeFeatures flattens the inputs into one name → value map.
func MergeFeatures(in FeatureInputs) map[string]float64 {
	out := make(map[string]float64, len(in.Amenities)+len(in.LandType)+len(in.Temporal)+3)
	for k, v := range in.Amenities {
		out[k] = v
	}
	for k, v := range in.LandType {
		out[k] = v
	}
	for k, v := range in.Temporal {
		out[k] = v
	}
	out[ColumnAirQuality] = in.AirQuality
	out[ColumnLatitude] = in.Location.Latitude
	out[ColumnLongitude] = in.Location.Longitude
	return out
}

// FeatureVectorBuilder projects named features onto the model's column order.
type FeatureVectorBuilder struct {
	columns []string
	index   map[string]int
}

func NewFeatureVectorBuilder(columns []string) *FeatureVectorBuilder {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &FeatureVectorBuilder{columns: columns, index: index}
}

func (b *FeatureVectorBuilder) Columns() []string {
	out := make([]string, len(b.columns))
	copy(out, b.columns)
	return out
}

// Build returns one value per schema column, in schema order.
// Features not named by the schema are dropped.
func (b *FeatureVectorBuilder) Build(in FeatureInputs) (model.FeatureVector, error) {
	named := MergeFeatures(in)

	vec := make(model.FeatureVector, 0, len(b.columns))
	var missing []string
	for _, col := range b.columns {
		v, ok := named[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		vec = append(vec, v)
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Expected: len(b.columns), Got: len(vec), Missing: missing}
	}
	if len(vec) != len(b.columns) {
		return nil, &SchemaMismatchError{Expected: len(b.columns), Got: len(vec)}
	}
	return vec, nil
}

// Substitute returns a copy of vec with the schema columns in features overwritten.
// Names the schema does not carry are ignored.
func (b *FeatureVectorBuilder) Substitute(vec model.FeatureVector, features map[string]float64) model.FeatureVector {
	out := make(model.FeatureVector, len(vec))
	copy(out, vec)
	for name, v := range features {
		if i, ok := b.index[name]; ok && i < len(out) {
			out[i] = v
		}
	}
	return out
}

// Snapshot names every slot of vec by its column.
func (b *FeatureVectorBuilder) Snapshot(vec model.FeatureVector) map[string]float64 {
	out := make(map[string]float64, len(b.columns))
	for i, col := range b.columns {
		if i < len(vec) {
			out[col] = vec[i]
		}
	}
	return out
}

// CheckModelSchema compares the configured columns with the names a model reports.
// An empty model list means the model does not expose names and is not checked.
func CheckModelSchema(columns, modelFeatures []string) error {
	if len(modelFeatures) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(modelFeatures))
	for _, f := range modelFeatures {
		known[f] = struct{}{}
	}
	var missing []string
	for _, c := range columns {
		if _, ok := known[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaMismatchError{Expected: len(modelFeatures), Got: len(columns), Missing: missing}
	}
	if len(columns) != len(modelFeatures) {
		return &SchemaMismatchError{Expected: len(modelFeatures), Got: len(columns)}
	}
	for i := range columns {
		if columns[i] != modelFeatures[i] {
			return &SchemaMismatchError{Expected: len(modelFeatures), Got: len(columns), OutOfOrder: columns[i]}
		}
	}
	return nil
}

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landprice_service/internal/domain/model"
)

func testInputs() FeatureInputs {
	return FeatureInputs{
		Amenities:  model.FeatureRecord{"govt_hospital_count": 2, "govt_hospital_mdist": 800},
		LandType:   map[string]float64{"land_type_residential": 1, "land_type_commercial": 0},
		AirQuality: 42,
		Location:   model.LocationPoint{Latitude: 6.9, Longitude: 79.9},
		Temporal:   map[string]float64{ColumnDateOffset: 100, ColumnYear: 2015},
	}
}

func TestFeatureVectorBuilder_Build(t *testing.T) {
	b := NewFeatureVectorBuilder([]string{
		"latitude", "longitude", "govt_hospital_count", "govt_hospital_mdist",
		"land_type_commercial", "land_type_residential", "air_quality", "date_offset",
	})

	vec, err := b.Build(testInputs())

	require.NoError(t, err)
	assert.Equal(t, model.FeatureVector{6.9, 79.9, 2, 800, 0, 1, 42, 100}, vec)
}

func TestFeatureVectorBuilder_MissingColumn(t *testing.T) {
	b := NewFeatureVectorBuilder([]string{"latitude", "bank_count", "date_offset", "parking_mdist"})

	_, err := b.Build(testInputs())

	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"bank_count", "parking_mdist"}, mismatch.Missing)
	assert.Equal(t, 4, mismatch.Expected)
}

func TestFeatureVectorBuilder_Substitute(t *testing.T) {
	b := NewFeatureVectorBuilder([]string{"latitude", "date_offset", "air_quality"})
	base := model.FeatureVector{6.9, 100, 42}

	got := b.Substitute(base, map[string]float64{ColumnDateOffset: -265, ColumnYear: 2014})

	assert.Equal(t, model.FeatureVector{6.9, -265, 42}, got)
	assert.Equal(t, model.FeatureVector{6.9, 100, 42}, base, "base vector is not modified")
}

func TestFeatureVectorBuilder_Snapshot(t *testing.T) {
	b := NewFeatureVectorBuilder([]string{"latitude", "date_offset"})

	assert.Equal(t, map[string]float64{"latitude": 6.9, "date_offset": 100}, b.Snapshot(model.FeatureVector{6.9, 100}))
}

func TestCheckModelSchema(t *testing.T) {
	cols := []string{"a", "b", "c"}

	assert.NoError(t, CheckModelSchema(cols, nil))
	assert.NoError(t, CheckModelSchema(cols, []string{"a", "b", "c"}))

	var mismatch *SchemaMismatchError

	err := CheckModelSchema(cols, []string{"a", "b"})
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"c"}, mismatch.Missing)

	err = CheckModelSchema(cols, []string{"a", "b", "c", "d"})
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 4, mismatch.Expected)
	assert.Equal(t, 3, mismatch.Got)

	err = CheckModelSchema(cols, []string{"b", "a", "c"})
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "a", mismatch.OutOfOrder)
}

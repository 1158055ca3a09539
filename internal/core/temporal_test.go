package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTemporalEncoder_DayOffset(t *testing.T) {
	epoch := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	enc := NewTemporalEncoder(epoch)

	assert.Equal(t, 0, enc.DayOffset(epoch))
	assert.Equal(t, 0, enc.DayOffset(epoch.Add(23*time.Hour)))
	assert.Equal(t, 10, enc.DayOffset(epoch.AddDate(0, 0, 10)))
	assert.Equal(t, -1, enc.DayOffset(epoch.AddDate(0, 0, -1)))
	assert.Equal(t, 365, enc.DayOffset(time.Date(2016, 1, 1, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, 366, enc.DayOffset(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)), "2016 is a leap year")
}

func TestTemporalEncoder_CalendarDate(t *testing.T) {
	enc := NewTemporalEncoder(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	colombo := time.FixedZone("IST", 5*3600+1800)

	// Late evening local time is still the local calendar day.
	local := time.Date(2015, 1, 2, 23, 30, 0, 0, colombo)
	assert.Equal(t, 1, enc.DayOffset(local))
}

func TestTemporalEncoder_Features(t *testing.T) {
	enc := NewTemporalEncoder(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))

	got := enc.Features(time.Date(2015, 3, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, map[string]float64{
		ColumnDateOffset: 59,
		ColumnYear:       2015,
		ColumnMonth:      3,
	}, got)
}

package core

import (
	"time"
)

// Temporal feature columns.
const (
	ColumnDateOffset = "date_offset"
	ColumnYear       = "curr_year"
	ColumnMonth      = "curr_month"
)

// TemporalEncoder converts calendar dates into offsets from the training epoch.
type TemporalEncoder struct {
	epoch time.Time
}

func NewTemporalEncoder(epoch time.Time) *TemporalEncoder {
	return &TemporalEncoder{epoch: calendarDate(epoch)}
}

// DayOffset returns the whole days between the epoch and date's calendar day.
// Dates before the epoch give negative offsets.
func (e *TemporalEncoder) DayOffset(date time.Time) int {
	return int(calendarDate(date).Sub(e.epoch).Hours() / 24)
}

// Features returns every temporal feature for date.
func (e *TemporalEncoder) Features(date time.Time) map[string]float64 {
	return map[string]float64{
		ColumnDateOffset: float64(e.DayOffset(date)),
		ColumnYear:       float64(date.Year()),
		ColumnMonth:      float64(date.Month()),
	}
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

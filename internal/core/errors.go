package core

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrPredictorUnavailable marks failures of the regression model: not loaded, unreachable
// or returning an unusable response.
var ErrPredictorUnavailable = eris.New("predictor unavailable")

var (
	ErrInvalidLocation = eris.New("invalid location")
	ErrInvalidRadius   = eris.New("invalid radius")
	ErrEmptyLandType   = eris.New("empty land type")
)

// ValidationError rejects a request before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError means the assembled features do not line up with the model schema.
// It indicates configuration drift, not a transient failure.
type SchemaMismatchError struct {
	Expected int
	Got      int
	Missing  []string
	// OutOfOrder is the first column found at a different position than the model expects.
	OutOfOrder string
}

func (e *SchemaMismatchError) Error() string {
	if e.OutOfOrder != "" {
		return fmt.Sprintf("schema mismatch: column %q out of order", e.OutOfOrder)
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema mismatch: missing columns [%s]", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("schema mismatch: expected %d features, got %d", e.Expected, e.Got)
}

// PredictorError wraps a failed predict call for one year of the window.
type PredictorError struct {
	Year int
	Err  error
}

func (e *PredictorError) Error() string {
	return fmt.Sprintf("predictor unavailable for year %d: %v", e.Year, e.Err)
}

func (e *PredictorError) Unwrap() error {
	return e.Err
}

func (e *PredictorError) Is(target error) bool {
	return target == ErrPredictorUnavailable
}

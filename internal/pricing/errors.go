package pricing

import (
	"errors"
	"math"
)

// ErrConfigurationMissing is returned when no waste configuration is handed to the engine.
// Loading (or lazily creating) the configuration is the caller's job.
var ErrConfigurationMissing = errors.New("waste configuration missing")

// ErrInvalidInput is returned when an engine argument or configuration value is out of range.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e ErrInvalidInput) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// checkAmount rejects NaN, infinities and negative values. When positive is set zero is
// rejected as well.
func checkAmount(field string, v float64, positive bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidInput{Field: field, Reason: "must be a finite number"}
	}
	if positive && v <= 0 {
		return ErrInvalidInput{Field: field, Reason: "must be greater than zero"}
	}
	if v < 0 {
		return ErrInvalidInput{Field: field, Reason: "must not be negative"}
	}
	return nil
}

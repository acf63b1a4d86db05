// Package chart projects a star catalog onto a zenith-centred planisphere.
package chart

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-skychart/internal/ephem"
)

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a request field that failed validation.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// RangeError is returned when the chart instant is outside ephemeris coverage.
type RangeError = ephem.RangeError

// MissingStarReference records a constellation edge dropped because one of
// its star ids is not in the catalog.
type MissingStarReference struct {
	Constellation string
	EdgeIndex     int // position in the flattened edge list
	A, B          int
	MissingID     int
}

func (m MissingStarReference) String() string {
	return fmt.Sprintf("%s edge %d (%d-%d): HIP %d not in catalog", m.Constellation, m.EdgeIndex, m.A, m.B, m.MissingID)
}

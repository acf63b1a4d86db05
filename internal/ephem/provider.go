// Package ephem provides barycentric state vectors for observing stars from Earth.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-skychart/internal/astro"
)

// ErrEphemerisRange is returned when an instant lies outside a provider's coverage.
var ErrEphemerisRange = errors.New("instant outside ephemeris coverage")

// Coverage window shared by the providers, matching JPL DE421.
var (
	CoverageStart = time.Date(1899, 7, 29, 0, 0, 0, 0, time.UTC)
	CoverageEnd   = time.Date(2053, 10, 9, 0, 0, 0, 0, time.UTC)
)

// Body identifies a solar-system body.
type Body int

const (
	Earth Body = iota
	Sun
)

// NAIFID returns the NAIF SPICE id of the body.
func (b Body) NAIFID() int {
	switch b {
	case Earth:
		return 399
	case Sun:
		return 10
	default:
		return 0
	}
}

func (b Body) String() string {
	switch b {
	case Earth:
		return "Earth"
	case Sun:
		return "Sun"
	default:
		return fmt.Sprintf("Body(%d)", int(b))
	}
}

// StateVector is a barycentric ICRS position (AU) and velocity (AU/day).
// Epoch is the instant the provider reports for the state, or zero.
type StateVector struct {
	Pos   astro.Vec3
	Vel   astro.Vec3
	Epoch time.Time
}

// Ephemeris supplies body states over a coverage window.
type Ephemeris interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Covers reports whether t lies inside the coverage window.
	Covers(t time.Time) bool

	// State returns the barycentric state of body at t.
	State(ctx context.Context, body Body, t time.Time) (StateVector, error)
}

// RangeError describes an instant outside the coverage window.
type RangeError struct {
	Instant    time.Time
	Start, End time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %s not in [%s, %s]", ErrEphemerisRange,
		e.Instant.UTC().Format(time.RFC3339),
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

func (e *RangeError) Unwrap() error {
	return ErrEphemerisRange
}

// CheckRange returns a *RangeError when t is outside [CoverageStart, CoverageEnd].
func CheckRange(t time.Time) error {
	if t.Before(CoverageStart) || !t.Before(CoverageEnd) {
		return &RangeError{Instant: t, Start: CoverageStart, End: CoverageEnd}
	}
	return nil
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeAnalytic Mode = iota // Built-in solar theory (default)
	ModeHorizons             // JPL Horizons vectors over HTTP
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAnalytic:
		return "analytic"
	case ModeHorizons:
		return "horizons"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. Unknown values select the analytic model.
func ParseMode(s string) Mode {
	switch s {
	case "horizons":
		return ModeHorizons
	default:
		return ModeAnalytic
	}
}

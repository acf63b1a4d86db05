package ephem

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-skychart/internal/astro"
)

// velocityStepDays is the half-width of the central difference used for velocity.
const velocityStepDays = 0.01

// AnalyticEphemeris derives the Earth's state from a low-precision solar theory.
// Positions are heliocentric, which differs from barycentric by under 0.01 AU;
// at stellar distances the effect is negligible.
type AnalyticEphemeris struct{}

// NewAnalytic returns the built-in ephemeris.
func NewAnalytic() *AnalyticEphemeris {
	return &AnalyticEphemeris{}
}

// Name implements Ephemeris.
func (a *AnalyticEphemeris) Name() string {
	return "analytic"
}

// Covers implements Ephemeris.
func (a *AnalyticEphemeris) Covers(t time.Time) bool {
	return CheckRange(t) == nil
}

// State implements Ephemeris.
func (a *AnalyticEphemeris) State(ctx context.Context, body Body, t time.Time) (StateVector, error) {
	if err := ctx.Err(); err != nil {
		return StateVector{}, err
	}
	if err := CheckRange(t); err != nil {
		return StateVector{}, err
	}

	switch body {
	case Sun:
		return StateVector{}, nil
	case Earth:
	default:
		return StateVector{}, fmt.Errorf("analytic ephemeris has no data for %s", body)
	}

	jd := astro.JulianDate(t)
	before := astro.EarthHeliocentric(jd - velocityStepDays)
	after := astro.EarthHeliocentric(jd + velocityStepDays)

	return StateVector{
		Pos:   astro.EarthHeliocentric(jd),
		Vel:   after.Sub(before).Scale(1 / (2 * velocityStepDays)),
		Epoch: t,
	}, nil
}

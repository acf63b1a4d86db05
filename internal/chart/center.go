package chart

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"

	"github.com/litescript/ls-skychart/internal/astro"
	"github.com/litescript/ls-skychart/internal/ephem"
)

// EPSG codes for WGS84 geodetic and geocentric coordinates.
const (
	epsgGeodetic   = 4326
	epsgGeocentric = 4978
)

// CenterDirection is the ICRS direction of the observer's zenith.
type CenterDirection struct {
	RAdeg  float64
	DecDeg float64
}

// Vector returns the unit vector of the direction.
func (c CenterDirection) Vector() astro.Vec3 {
	return astro.UnitFromRADec(c.RAdeg, c.DecDeg)
}

var geodeticToGeocentric = wgs84.EPSG().Transform(epsgGeodetic, epsgGeocentric)

// ResolveCenter returns the geocentric zenith of obs in the ICRS frame.
// The result depends only on its inputs.
func ResolveCenter(obs Observer, eph ephem.Ephemeris) (CenterDirection, error) {
	if err := obs.Validate(); err != nil {
		return CenterDirection{}, err
	}
	if !eph.Covers(obs.Instant) {
		return CenterDirection{}, &RangeError{
			Instant: obs.Instant,
			Start:   ephem.CoverageStart,
			End:     ephem.CoverageEnd,
		}
	}

	ecef, err := observerECEF(obs)
	if err != nil {
		return CenterDirection{}, err
	}

	// Earth-fixed to the mean equator of date, then back to J2000.
	gmst := astro.DegToRad(astro.GreenwichMeanSiderealTime(obs.Instant))
	ofDate := astro.RotateZ(ecef.Normalized(), gmst)
	icrs := astro.PrecessionMatrix(astro.JulianDate(obs.Instant)).Transpose().Apply(ofDate)

	ra, dec := astro.RADecFromVec(icrs)
	return CenterDirection{RAdeg: ra, DecDeg: dec}, nil
}

// observerECEF returns the Earth-centred Earth-fixed position in metres.
func observerECEF(obs Observer) (astro.Vec3, error) {
	x, y, z := geodeticToGeocentric(obs.LonDeg, obs.LatDeg, obs.ElevationM)
	v := astro.Vec3{X: x, Y: y, Z: z}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) || v.Norm() == 0 {
		return astro.Vec3{}, fmt.Errorf("geodetic transform failed for (%g, %g)", obs.LatDeg, obs.LonDeg)
	}
	return v, nil
}

package ephem

import (
	"math"
	"time"

	"github.com/litescript/ls-skychart/internal/astro"
	"github.com/litescript/ls-skychart/internal/catalog"
)

// minParallaxMas stands in for unknown or non-positive parallaxes,
// placing the star at a practically infinite distance.
const minParallaxMas = 1.0e-6

const masToRad = math.Pi / (180 * 3600 * 1000)

// ObserveOptions selects the corrections applied when observing a star.
type ObserveOptions struct {
	// Aberration applies annual aberration from the Earth's velocity,
	// giving an apparent rather than astrometric place.
	Aberration bool
}

// Observe returns the ICRS direction and distance of star seen from earth at t.
// Proper motion is propagated from the star's epoch and parallax is applied
// from the Earth's barycentric position.
func Observe(earth StateVector, star catalog.Star, t time.Time, opts ObserveOptions) (raDeg, decDeg, distAU float64) {
	u, dist := ObserveVector(earth, star, t, opts)
	raDeg, decDeg = astro.RADecFromVec(u)
	return raDeg, decDeg, dist
}

// ObserveVector is Observe returning a unit direction vector.
func ObserveVector(earth StateVector, star catalog.Star, t time.Time, opts ObserveOptions) (astro.Vec3, float64) {
	plx := star.ParallaxMas
	if plx <= 0 {
		plx = minParallaxMas
	}
	distAU := astro.AUPerParsec / (plx / 1000)

	ra := astro.DegToRad(star.RAdeg)
	dec := astro.DegToRad(star.DecDeg)
	sinRA, cosRA := math.Sincos(ra)
	sinDec, cosDec := math.Sincos(dec)

	pos := astro.UnitFromRADec(star.RAdeg, star.DecDeg).Scale(distAU)

	// Tangential velocity in AU per year along the local east and north directions.
	east := astro.Vec3{X: -sinRA, Y: cosRA}
	north := astro.Vec3{X: -sinDec * cosRA, Y: -sinDec * sinRA, Z: cosDec}
	vel := east.Scale(star.PMRAmas * masToRad * distAU).
		Add(north.Scale(star.PMDecmas * masToRad * distAU))

	// Light arrives at the Earth earlier or later than at the barycenter
	// depending on where the Earth sits along the line of sight.
	dt := pos.Normalized().Dot(earth.Pos) / astro.SpeedOfLightAUPerDay
	years := (astro.JulianDate(t) + dt - star.Epoch()) / astro.DaysPerJulianYear

	rel := pos.Add(vel.Scale(years)).Sub(earth.Pos)
	dist := rel.Norm()
	u := rel.Normalized()

	if opts.Aberration {
		u = aberrate(u, earth.Vel)
	}
	return u, dist
}

// aberrate applies first-order annual aberration for an observer moving at v (AU/day).
func aberrate(u, v astro.Vec3) astro.Vec3 {
	beta := v.Scale(1 / astro.SpeedOfLightAUPerDay)
	return u.Add(beta).Sub(u.Scale(u.Dot(beta))).Normalized()
}

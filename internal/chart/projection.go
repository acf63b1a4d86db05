package chart

import (
	"math"

	"github.com/litescript/ls-skychart/internal/astro"
)

// poleEpsilon is the equatorial-radius below which the center is treated as a pole.
const poleEpsilon = 1e-12

// Projector is a stereographic projection about a fixed center.
// Its zero value is not usable; build one with BuildProjector.
type Projector struct {
	center astro.Vec3 // unit vector, the tangent point
	west   astro.Vec3 // +x axis on the chart
	north  astro.Vec3 // +y axis on the chart
}

// BuildProjector returns the projector tangent at center. The chart's +y
// axis points toward the north celestial pole and +x toward the west, so
// east is on the left as when looking up at the sky.
func BuildProjector(center CenterDirection) Projector {
	c := center.Vector()
	rho := math.Hypot(c.X, c.Y)

	var e1, e2 astro.Vec3
	if rho < poleEpsilon {
		e1 = astro.Vec3{X: 0, Y: -1, Z: 0}
		e2 = astro.Vec3{X: -c.Z, Y: 0, Z: 0}
	} else {
		e1 = astro.Vec3{X: c.Y / rho, Y: -c.X / rho, Z: 0}
		e2 = astro.Vec3{X: -c.X * c.Z / rho, Y: -c.Y * c.Z / rho, Z: rho}
	}

	return Projector{center: c, west: e1, north: e2}
}

// Center returns the tangent point as a unit vector.
func (p Projector) Center() astro.Vec3 {
	return p.center
}

// Project maps a unit direction to chart coordinates. Directions 90° from
// the center land on the unit circle; the antipode maps to infinity.
func (p Projector) Project(u astro.Vec3) (x, y float64) {
	if u == p.center {
		return 0, 0
	}
	denom := 1 + u.Dot(p.center)
	return u.Dot(p.west) / denom, u.Dot(p.north) / denom
}

// ProjectRADec projects an equatorial direction given in degrees.
func (p Projector) ProjectRADec(raDeg, decDeg float64) (x, y float64) {
	return p.Project(astro.UnitFromRADec(raDeg, decDeg))
}

// Inverse maps chart coordinates back to a unit direction.
func (p Projector) Inverse(x, y float64) astro.Vec3 {
	r2 := x*x + y*y
	return p.west.Scale(2 * x).
		Add(p.north.Scale(2 * y)).
		Add(p.center.Scale(1 - r2)).
		Scale(1 / (1 + r2))
}

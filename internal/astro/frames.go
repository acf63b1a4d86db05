package astro

import (
	"math"
)

// AUPerParsec is the number of astronomical units in one parsec.
const AUPerParsec = 206264.80624709636

// SpeedOfLightAUPerDay is c expressed in AU/day.
const SpeedOfLightAUPerDay = 173.1446326742403

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the vector product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// UnitFromRADec returns the unit vector for an equatorial direction given in degrees.
func UnitFromRADec(raDeg, decDeg float64) Vec3 {
	ra := degToRad(raDeg)
	dec := degToRad(decDeg)
	cosDec := math.Cos(dec)
	return Vec3{
		X: cosDec * math.Cos(ra),
		Y: cosDec * math.Sin(ra),
		Z: math.Sin(dec),
	}
}

// RADecFromVec returns the right ascension (0-360) and declination of a vector, in degrees.
// The zero vector maps to (0, 0).
func RADecFromVec(v Vec3) (raDeg, decDeg float64) {
	r := v.Norm()
	if r == 0 {
		return 0, 0
	}
	raDeg = normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
	decDeg = radToDeg(math.Asin(clampUnit(v.Z / r)))
	return raDeg, decDeg
}

// Mat3 is a row-major 3x3 rotation matrix.
type Mat3 [3][3]float64

// Apply returns m·v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m, which is its inverse for rotations.
func (m Mat3) Transpose() Mat3 {
	var t Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// RotateZ rotates a vector by angle (radians) about the Z axis.
func RotateZ(v Vec3, angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec3{
		X: c*v.X - s*v.Y,
		Y: s*v.X + c*v.Y,
		Z: v.Z,
	}
}

// PrecessionMatrix returns the IAU 1976 (Lieske) precession matrix that takes
// J2000 mean equatorial coordinates to the mean equator and equinox of jd.
func PrecessionMatrix(jd float64) Mat3 {
	T := (jd - J2000) / 36525.0

	arcsec := math.Pi / (180 * 3600)
	zeta := (2306.2181*T + 0.30188*T*T + 0.017998*T*T*T) * arcsec
	z := (2306.2181*T + 1.09468*T*T + 0.018203*T*T*T) * arcsec
	theta := (2004.3109*T - 0.42665*T*T - 0.041833*T*T*T) * arcsec

	cz, sz := math.Cos(zeta), math.Sin(zeta)
	cZ, sZ := math.Cos(z), math.Sin(z)
	ct, st := math.Cos(theta), math.Sin(theta)

	return Mat3{
		{cz*ct*cZ - sz*sZ, -sz*ct*cZ - cz*sZ, -st * cZ},
		{cz*ct*sZ + sz*cZ, -sz*ct*sZ + cz*cZ, -st * sZ},
		{cz * st, -sz * st, ct},
	}
}

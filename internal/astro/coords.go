// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// DaysPerJulianYear is the length of a Julian year in days.
const DaysPerJulianYear = 365.25

// unixEpochJD is the Julian Date of 1970-01-01 00:00 UTC.
const unixEpochJD = 2440587.5

// Equatorial is a direction on the mean equator and equinox of date.
type Equatorial struct {
	RAdeg  float64
	DecDeg float64
}

// Horizontal is a direction in an observer's local frame. Azimuth runs
// from north (0) through east (90).
type Horizontal struct {
	AltDeg float64
	AzDeg  float64
}

// Site is a point on the Earth's surface.
type Site struct {
	LatDeg float64 // geodetic, north positive
	LonDeg float64 // east positive
}

// ToHorizontal returns the altitude and azimuth of eq seen from site at t.
func ToHorizontal(eq Equatorial, site Site, t time.Time) Horizontal {
	sinLat, cosLat := math.Sincos(degToRad(site.LatDeg))
	sinDec, cosDec := math.Sincos(degToRad(eq.DecDeg))
	sinHA, cosHA := math.Sincos(degToRad(LocalSiderealTime(t, site.LonDeg) - eq.RAdeg))

	alt := math.Asin(clampUnit(sinDec*sinLat + cosDec*cosLat*cosHA))
	az := math.Atan2(-cosDec*sinHA, sinDec*cosLat-cosDec*sinLat*cosHA)

	return Horizontal{
		AltDeg: radToDeg(alt),
		AzDeg:  normalizeAngle360(radToDeg(az)),
	}
}

// LocalSiderealTime returns the local mean sidereal time in degrees.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(GreenwichMeanSiderealTime(t) + lonDeg)
}

// GreenwichMeanSiderealTime returns GMST in degrees (IAU 1982, UT1 ≈ UTC).
func GreenwichMeanSiderealTime(t time.Time) float64 {
	d := JulianDate(t) - J2000
	T := d / 36525.0

	return normalizeAngle360(280.46061837 +
		360.98564736629*d +
		0.000387933*T*T -
		T*T*T/38710000.0)
}

// JulianDate returns the Julian Date of t. The zone of t does not matter.
func JulianDate(t time.Time) float64 {
	days := float64(t.Unix()) / 86400
	frac := float64(t.Nanosecond()) / 86400e9
	return unixEpochJD + days + frac
}

// TimeFromJulianDate converts a Julian Date back to a UTC time.
// Resolution is limited to about a millisecond by float64 precision.
func TimeFromJulianDate(jd float64) time.Time {
	ms := math.Round((jd - unixEpochJD) * 86400e3)
	return time.UnixMilli(int64(ms)).UTC()
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return degToRad(deg) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return radToDeg(rad) }

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// normalizeAngle360 folds an angle into [0, 360).
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

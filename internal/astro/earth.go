package astro

import "math"

// solarElements holds the low-precision solar theory terms for an instant.
type solarElements struct {
	T        float64 // Julian centuries from J2000.0
	trueLon  float64 // geometric true longitude, mean equinox of date (degrees)
	radiusAU float64 // Earth-Sun distance (AU)
	eps0     float64 // mean obliquity of the ecliptic (degrees)
}

// solarTheory evaluates the Astronomical Almanac solar terms at a Julian Date.
func solarTheory(jd float64) solarElements {
	T := (jd - J2000) / 36525.0

	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Orbital eccentricity
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	v := degToRad(M + C)

	return solarElements{
		T:        T,
		trueLon:  L0 + C,
		radiusAU: (1.000001018 * (1 - e*e)) / (1 + e*math.Cos(v)),
		eps0:     23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T,
	}
}

// EarthHeliocentric returns the geometric position of the Earth relative to the
// Sun at a Julian Date, in AU, in the J2000 mean equatorial frame.
func EarthHeliocentric(jd float64) Vec3 {
	s := solarTheory(jd)

	// Geocentric Sun in the ecliptic of date; the Earth is the opposite vector.
	lon := degToRad(s.trueLon)
	sunEcl := Vec3{X: s.radiusAU * math.Cos(lon), Y: s.radiusAU * math.Sin(lon)}

	sinEps, cosEps := math.Sincos(degToRad(s.eps0))
	sunEq := Vec3{
		X: sunEcl.X,
		Y: sunEcl.Y * cosEps,
		Z: sunEcl.Y * sinEps,
	}

	// Mean equator of date back to J2000.
	sunJ2000 := PrecessionMatrix(jd).Transpose().Apply(sunEq)
	return sunJ2000.Scale(-1)
}

package astro

import (
	"math"
	"testing"
	"time"
)

func TestEarthHeliocentric_Distance(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
	}{
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"perihelion 2025", time.Date(2025, 1, 4, 13, 28, 0, 0, time.UTC)},
		{"aphelion 2025", time.Date(2025, 7, 3, 19, 55, 0, 0, time.UTC)},
		{"early coverage", time.Date(1900, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"late coverage", time.Date(2053, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := EarthHeliocentric(JulianDate(tt.time)).Norm()
			if r < 0.983 || r > 1.017 {
				t.Errorf("|Earth| = %.5f AU, want within orbital range", r)
			}
		})
	}
}

// The Sun seen from the Earth is the reversed vector; its J2000 declination
// at the 2025 equinoxes and solstices differs from the of-date value by at
// most the 25 years of precession (~0.14°).
func TestEarthHeliocentric_SolarDeclination(t *testing.T) {
	tests := []struct {
		name    string
		time    time.Time
		wantDec float64
	}{
		{"March equinox", time.Date(2025, 3, 20, 9, 1, 0, 0, time.UTC), 0},
		{"June solstice", time.Date(2025, 6, 21, 2, 42, 0, 0, time.UTC), 23.44},
		{"September equinox", time.Date(2025, 9, 22, 18, 19, 0, 0, time.UTC), 0},
		{"December solstice", time.Date(2025, 12, 21, 15, 3, 0, 0, time.UTC), -23.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dec := RADecFromVec(EarthHeliocentric(JulianDate(tt.time)).Scale(-1))
			if math.Abs(dec-tt.wantDec) > 0.2 {
				t.Errorf("solar declination = %.3f°, want %.2f°", dec, tt.wantDec)
			}
		})
	}
}

func TestEarthHeliocentric_Perihelion(t *testing.T) {
	peri := EarthHeliocentric(JulianDate(time.Date(2025, 1, 4, 13, 0, 0, 0, time.UTC))).Norm()
	aph := EarthHeliocentric(JulianDate(time.Date(2025, 7, 3, 20, 0, 0, 0, time.UTC))).Norm()

	if math.Abs(peri-0.98333) > 0.0005 {
		t.Errorf("perihelion distance = %.5f AU, want ~0.98333", peri)
	}
	if math.Abs(aph-1.01664) > 0.0005 {
		t.Errorf("aphelion distance = %.5f AU, want ~1.01664", aph)
	}
}

package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"J2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"Unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"New Year 2025", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 2460676.5},
		{"coverage start", time.Date(1899, 7, 29, 0, 0, 0, 0, time.UTC), 2414864.5},
		{"quarter day", time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), 2460676.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JulianDate(tt.time); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JulianDate() = %.9f, want %.9f", got, tt.want)
			}
		})
	}
}

func TestJulianDate_IgnoresZone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+30*60)
	local := time.Date(2025, 1, 1, 5, 30, 0, 0, kolkata)
	utc := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if JulianDate(local) != JulianDate(utc) {
		t.Errorf("JulianDate should depend only on the instant: %v vs %v", JulianDate(local), JulianDate(utc))
	}
}

func TestTimeFromJulianDate_RoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(1991, 4, 2, 13, 30, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2053, 10, 9, 23, 59, 0, 0, time.UTC),
	}

	for _, tt := range times {
		got := TimeFromJulianDate(JulianDate(tt))
		if d := got.Sub(tt); d > time.Millisecond || d < -time.Millisecond {
			t.Errorf("TimeFromJulianDate(JulianDate(%v)) = %v, off by %v", tt, got, d)
		}
	}
}

func TestGreenwichMeanSiderealTime(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 280.46061837},
		// 6h43m35.9s
		{"New Year 2025", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 100.8996},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GreenwichMeanSiderealTime(tt.time); math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("GMST = %.5f, want %.5f", got, tt.want)
			}
		})
	}
}

func TestLocalSiderealTime(t *testing.T) {
	instant := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gmst := GreenwichMeanSiderealTime(instant)

	tests := []struct {
		lon  float64
		want float64
	}{
		{0, gmst},
		{77.209, gmst + 77.209},
		{-118.24, gmst - 118.24 + 360},
		{270, gmst + 270 - 360},
	}

	for _, tt := range tests {
		got := LocalSiderealTime(instant, tt.lon)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LocalSiderealTime(lon=%v) = %v, want %v", tt.lon, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("LocalSiderealTime(lon=%v) = %v out of [0, 360)", tt.lon, got)
		}
	}
}

func TestToHorizontal(t *testing.T) {
	instant := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	delhi := Site{LatDeg: 28.6139, LonDeg: 77.209}
	sydney := Site{LatDeg: -33.87, LonDeg: 151.21}
	lst := func(s Site) float64 { return LocalSiderealTime(instant, s.LonDeg) }

	tests := []struct {
		name    string
		eq      Equatorial
		site    Site
		wantAlt float64
		wantAz  float64 // negative skips the azimuth check
	}{
		{"zenith", Equatorial{lst(delhi), delhi.LatDeg}, delhi, 90, -1},
		{"north pole", Equatorial{0, 90}, delhi, 28.6139, 0},
		{"south pole", Equatorial{0, -90}, sydney, 33.87, 180},
		{"upper culmination south", Equatorial{lst(delhi), delhi.LatDeg - 30}, delhi, 60, 180},
		{"rising on the equator", Equatorial{lst(delhi) + 90, 0}, delhi, 0, 90},
		{"setting on the equator", Equatorial{lst(delhi) - 90, 0}, delhi, 0, 270},
		{"lower culmination", Equatorial{lst(delhi) + 180, 80}, delhi, 28.6139 - 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ToHorizontal(tt.eq, tt.site, instant)
			if math.Abs(h.AltDeg-tt.wantAlt) > 1e-5 {
				t.Errorf("alt = %.6f, want %.6f", h.AltDeg, tt.wantAlt)
			}
			if tt.wantAz >= 0 {
				d := math.Mod(math.Abs(h.AzDeg-tt.wantAz), 360)
				if d > 1e-6 && 360-d > 1e-6 {
					t.Errorf("az = %.6f, want %.6f", h.AzDeg, tt.wantAz)
				}
			}
		})
	}
}

func TestToHorizontal_CircumpolarNeverSets(t *testing.T) {
	delhi := Site{LatDeg: 28.6139, LonDeg: 77.209}
	polaris := Equatorial{RAdeg: 37.95, DecDeg: 89.26}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for h := 0; h < 24; h++ {
		got := ToHorizontal(polaris, delhi, start.Add(time.Duration(h)*time.Hour))
		if got.AltDeg < delhi.LatDeg-1 || got.AltDeg > delhi.LatDeg+1 {
			t.Errorf("hour %d: Polaris alt %.2f, want within 1° of the latitude", h, got.AltDeg)
		}
		if got.AzDeg < 0 || got.AzDeg >= 360 {
			t.Errorf("hour %d: azimuth %v out of range", h, got.AzDeg)
		}
	}
}

func TestDegRadConversions(t *testing.T) {
	tests := []struct {
		deg float64
		rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		if got := DegToRad(tt.deg); math.Abs(got-tt.rad) > 1e-12 {
			t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		if got := RadToDeg(tt.rad); math.Abs(got-tt.deg) > 1e-12 {
			t.Errorf("RadToDeg(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
	}
}

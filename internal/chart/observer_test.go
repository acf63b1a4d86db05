package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skychart/internal/ephem"
)

func TestParseInstant(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	kolkata := mustZone("Asia/Kolkata")

	tests := []struct {
		name              string
		date, clock, zone string
		want              time.Time
		wantField         string
	}{
		{"date only is local midnight", "2025-01-01", "", "Asia/Kolkata", time.Date(2025, 1, 1, 0, 0, 0, 0, kolkata), ""},
		{"date and clock", "2025-01-01", "21:30", "Asia/Kolkata", time.Date(2025, 1, 1, 21, 30, 0, 0, kolkata), ""},
		{"seconds accepted", "2025-01-01", "21:30:15", "UTC", time.Date(2025, 1, 1, 21, 30, 15, 0, time.UTC), ""},
		{"empty zone is UTC", "2025-06-01", "12:00", "", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), ""},
		{"nothing given is now", "", "", "Asia/Kolkata", now, ""},
		{"clock only is today", "", "06:00", "Asia/Kolkata", time.Date(2025, 3, 14, 6, 0, 0, 0, kolkata), ""},
		{"bad date", "01/01/2025", "", "UTC", time.Time{}, "date"},
		{"bad clock", "2025-01-01", "9pm", "UTC", time.Time{}, "time"},
		{"unknown zone", "2025-01-01", "", "Mars/Olympus_Mons", time.Time{}, "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstant(tt.date, tt.clock, tt.zone, now)
			if tt.wantField != "" {
				var ie *InvalidInputError
				require.True(t, errors.As(err, &ie), "error = %v", err)
				assert.Equal(t, tt.wantField, ie.Field)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseInstant_Messages(t *testing.T) {
	_, err := ParseInstant("2025-13-01", "", "UTC", time.Now())
	assert.ErrorContains(t, err, "Invalid date format. Use YYYY-MM-DD.")

	_, err = ParseInstant("2025-01-01", "25:00", "UTC", time.Now())
	assert.ErrorContains(t, err, "Invalid time format. Use HH:MM.")
}

func TestObserver_Validate(t *testing.T) {
	instant := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		obs   Observer
		field string
	}{
		{"ok", Observer{LatDeg: 28.6, LonDeg: 77.2, Instant: instant}, ""},
		{"poles ok", Observer{LatDeg: -90, LonDeg: 180, Instant: instant}, ""},
		{"lat high", Observer{LatDeg: 90.001, Instant: instant}, "latitude"},
		{"lon low", Observer{LonDeg: -180.5, Instant: instant}, "longitude"},
		{"nan lon", Observer{LonDeg: math.NaN(), Instant: instant}, "longitude"},
		{"inf elevation", Observer{ElevationM: math.Inf(1), Instant: instant}, "elevation"},
		{"zero instant", Observer{}, "instant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ie *InvalidInputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestObserverECEF_MatchesClosedForm(t *testing.T) {
	const (
		a  = 6378137.0
		f  = 1 / 298.257223563
		e2 = f * (2 - f)
	)

	for _, obs := range []Observer{
		{LatDeg: 28.6139, LonDeg: 77.2090},
		{LatDeg: -33.8688, LonDeg: 151.2093, ElevationM: 58},
		{LatDeg: 64.1466, LonDeg: -21.9426, ElevationM: 1200},
		{LatDeg: 0, LonDeg: 0},
	} {
		got, err := observerECEF(obs)
		require.NoError(t, err)

		lat, lon := obs.LatDeg*math.Pi/180, obs.LonDeg*math.Pi/180
		n := a / math.Sqrt(1-e2*math.Sin(lat)*math.Sin(lat))
		x := (n + obs.ElevationM) * math.Cos(lat) * math.Cos(lon)
		y := (n + obs.ElevationM) * math.Cos(lat) * math.Sin(lon)
		z := (n*(1-e2) + obs.ElevationM) * math.Sin(lat)

		assert.InDelta(t, x, got.X, 1e-3)
		assert.InDelta(t, y, got.Y, 1e-3)
		assert.InDelta(t, z, got.Z, 1e-3)
	}
}

func TestResolveCenter(t *testing.T) {
	eph := ephem.NewAnalytic()

	t.Run("north pole", func(t *testing.T) {
		c, err := ResolveCenter(Observer{LatDeg: 90, Instant: delhiInstant}, eph)
		require.NoError(t, err)
		// Precession moves the pole of date ~0.14° from the J2000 pole.
		assert.InDelta(t, 90, c.DecDeg, 0.2)
	})

	t.Run("longitude shifts right ascension", func(t *testing.T) {
		a, err := ResolveCenter(Observer{LatDeg: 0, LonDeg: 0, Instant: delhiInstant}, eph)
		require.NoError(t, err)
		b, err := ResolveCenter(Observer{LatDeg: 0, LonDeg: 15, Instant: delhiInstant}, eph)
		require.NoError(t, err)

		diff := math.Mod(b.RAdeg-a.RAdeg+360, 360)
		assert.InDelta(t, 15, diff, 0.01)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ResolveCenter(Observer{Instant: time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)}, eph)
		assert.ErrorIs(t, err, ephem.ErrEphemerisRange)
	})

	t.Run("invalid before range", func(t *testing.T) {
		_, err := ResolveCenter(Observer{LatDeg: 100, Instant: time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)}, eph)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

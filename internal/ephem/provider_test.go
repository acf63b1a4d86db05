package ephem

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"horizons", ModeHorizons},
		{"analytic", ModeAnalytic},
		{"", ModeAnalytic},        // default
		{"invalid", ModeAnalytic}, // default for unknown
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := ParseMode(tc.input)
			if got != tc.expected {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeAnalytic, "analytic"},
		{ModeHorizons, "horizons"},
		{Mode(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			got := tc.mode.String()
			if got != tc.expected {
				t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.expected)
			}
		})
	}
}

func TestBody(t *testing.T) {
	if Earth.NAIFID() != 399 || Sun.NAIFID() != 10 {
		t.Errorf("NAIF ids: Earth=%d Sun=%d", Earth.NAIFID(), Sun.NAIFID())
	}
	if Body(7).NAIFID() != 0 {
		t.Error("unknown body should have no NAIF id")
	}
	if Earth.String() != "Earth" || Body(7).String() != "Body(7)" {
		t.Errorf("String(): %q %q", Earth.String(), Body(7).String())
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name    string
		t       time.Time
		wantErr bool
	}{
		{"first covered instant", CoverageStart, false},
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), false},
		{"2025", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"just before start", CoverageStart.Add(-time.Second), true},
		{"coverage end", CoverageEnd, true},
		{"year 1800", time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"year 2100", time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRange(tt.t)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckRange(%v) error = %v, wantErr %v", tt.t, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrEphemerisRange) {
				t.Errorf("error %v should wrap ErrEphemerisRange", err)
			}
			var re *RangeError
			if !errors.As(err, &re) || !re.Instant.Equal(tt.t) {
				t.Errorf("expected *RangeError carrying the instant, got %#v", err)
			}
			if !strings.Contains(err.Error(), "1899-07-29") {
				t.Errorf("error should name the window: %v", err)
			}
		})
	}
}

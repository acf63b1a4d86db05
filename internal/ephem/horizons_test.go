package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litescript/ls-skychart/internal/source"
)

const labeledResult = `*******************************************************************************
Ephemeris / API_USER Wed Jan  1 00:00:00 2025 Pasadena, USA      / Horizons
*******************************************************************************
$$SOE
2460676.500000000 = A.D. 2025-Jan-01 00:00:00.0000 TDB
 X =-1.738516477451506E-01 Y = 8.868387574565098E-01 Z = 3.844212401254005E-01
 VX=-1.720306484536108E-02 VY=-2.769811015596101E-03 VZ=-1.200796082925432E-03
2460676.500694444 = A.D. 2025-Jan-01 00:01:00.0000 TDB
 X =-1.738635946792958E-01 Y = 8.868368339309234E-01 Z = 3.844204062596839E-01
 VX=-1.720303802441440E-02 VY=-2.769973440613813E-03 VZ=-1.200866580139658E-03
$$EOE
`

const unlabeledResult = `$$SOE
2460676.500000000 = A.D. 2025-Jan-01 00:00:00.0000 TDB
 -1.738516477451506E-01  8.868387574565098E-01  3.844212401254005E-01
 -1.720306484536108E-02 -2.769811015596101E-03 -1.200796082925432E-03
$$EOE
`

func horizonsServer(t *testing.T, result string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("EPHEM_TYPE") != "VECTORS" || q.Get("CENTER") != "'@0'" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"signature": map[string]string{"version": "1.2", "source": "NASA/JPL Horizons API"},
			"result":    result,
		})
	}))
}

func TestHorizonsEphemeris_State(t *testing.T) {
	for name, result := range map[string]string{"labeled": labeledResult, "unlabeled": unlabeledResult} {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := horizonsServer(t, result, &calls)
			defer srv.Close()

			h := NewHorizons(source.NewClient(), WithBaseURL(srv.URL))
			instant := time.Date(2025, 1, 1, 0, 0, 30, 0, time.UTC)

			sv, err := h.State(context.Background(), Earth, instant)
			if err != nil {
				t.Fatalf("State: %v", err)
			}
			if math.Abs(sv.Pos.X-(-0.1738516477451506)) > 1e-15 || math.Abs(sv.Vel.Z-(-0.001200796082925432)) > 1e-15 {
				t.Errorf("unexpected state %+v", sv)
			}

			if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); !sv.Epoch.Equal(want) {
				t.Errorf("epoch = %v, want %v", sv.Epoch, want)
			}

			// Same minute is served from cache
			if _, err := h.State(context.Background(), Earth, instant.Add(20*time.Second)); err != nil {
				t.Fatal(err)
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 request, got %d", calls.Load())
			}
		})
	}
}

func TestHorizonsEphemeris_AgreesWithAnalytic(t *testing.T) {
	var calls atomic.Int32
	srv := horizonsServer(t, labeledResult, &calls)
	defer srv.Close()

	instant := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	remote, err := NewHorizons(nil, WithBaseURL(srv.URL)).State(context.Background(), Earth, instant)
	if err != nil {
		t.Fatal(err)
	}
	local, err := NewAnalytic().State(context.Background(), Earth, instant)
	if err != nil {
		t.Fatal(err)
	}

	// Heliocentric vs barycentric differ by the Sun's offset (< 0.01 AU)
	if d := remote.Pos.Sub(local.Pos).Norm(); d > 0.015 {
		t.Errorf("analytic and Horizons positions differ by %v AU", d)
	}
}

func TestHorizonsEphemeris_NoEphemeris(t *testing.T) {
	var calls atomic.Int32
	srv := horizonsServer(t, `No ephemeris for target "Earth" after A.D. 2500-JAN-01`, &calls)
	defer srv.Close()

	h := NewHorizons(nil, WithBaseURL(srv.URL))
	instant := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := h.State(context.Background(), Earth, instant)
	if !errors.Is(err, ErrEphemerisRange) {
		t.Fatalf("error = %v, want ErrEphemerisRange", err)
	}
	var re *RangeError
	if !errors.As(err, &re) || !re.Instant.Equal(instant) {
		t.Errorf("range error should carry the instant: %#v", err)
	}
}

func TestHorizonsEphemeris_RejectsWrongEpoch(t *testing.T) {
	var calls atomic.Int32
	srv := horizonsServer(t, labeledResult, &calls)
	defer srv.Close()

	h := NewHorizons(nil, WithBaseURL(srv.URL))
	_, err := h.State(context.Background(), Earth, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err == nil || !strings.Contains(err.Error(), "epoch 2025-01-01T00:00:00Z") {
		t.Errorf("error = %v, want an epoch mismatch", err)
	}
}

func TestParseStateResponse_NoEpochLine(t *testing.T) {
	sv, err := parseStateResponse([]byte(`{"result":"$$SOE\n 1 2 3\n 4 5 6\n$$EOE"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !sv.Epoch.IsZero() {
		t.Errorf("epoch = %v, want zero", sv.Epoch)
	}
	if sv.Vel.Z != 6 {
		t.Errorf("vel = %+v", sv.Vel)
	}
}

func TestHorizonsEphemeris_OutOfCoverageSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := horizonsServer(t, labeledResult, &calls)
	defer srv.Close()

	h := NewHorizons(nil, WithBaseURL(srv.URL))
	_, err := h.State(context.Background(), Earth, time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrEphemerisRange) {
		t.Errorf("error = %v, want ErrEphemerisRange", err)
	}
	if calls.Load() != 0 {
		t.Errorf("out-of-coverage request should not hit the network")
	}
}

func TestParseStateResponse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad json", "{", "parse JSON"},
		{"api error", `{"error":"Cannot interpret date"}`, "horizons error"},
		{"no markers", `{"result":"nothing here"}`, "markers"},
		{"one vector", `{"result":"$$SOE\n 1 2 3\n$$EOE"}`, "could not parse"},
		{"garbage", `{"result":"$$SOE\n a b c\n$$EOE"}`, "parse vector line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStateResponse([]byte(tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseVectorLabeled(t *testing.T) {
	v, err := parseVectorLabeled("VX=-1.5E-02 VY= 2.5E-03 VZ= 1.0E-03")
	if err != nil {
		t.Fatal(err)
	}
	if v.X != -0.015 || v.Y != 0.0025 || v.Z != 0.001 {
		t.Errorf("got %+v", v)
	}

	if _, err := parseVectorLabeled("X = 1"); err == nil {
		t.Error("expected error for truncated line")
	}
}

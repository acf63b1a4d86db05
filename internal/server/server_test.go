package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skychart/internal/chart"
	"github.com/litescript/ls-skychart/internal/observability"
	"github.com/litescript/ls-skychart/internal/render"
	"github.com/litescript/ls-skychart/internal/state"
)

const delhiQuery = "lat=28.6139&lon=77.2090&date=2025-01-01&time=00:00&tz=Asia/Kolkata"

func newTestServer(t *testing.T) (*Server, *observability.Collector, *state.Manager) {
	t.Helper()
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	mgr := state.NewManager(state.DefaultConfig())

	s := New(Config{
		Build: func(ctx context.Context, req chart.Request) (*chart.Result, error) {
			return chart.Build(ctx, req, chart.Deps{Metrics: metrics})
		},
		Metrics:  metrics,
		State:    mgr,
		Timezone: "Asia/Kolkata",
		Mag:      chart.DefaultMagnitudeLimit,
		Now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	return s, metrics, mgr
}

func get(t *testing.T, s *Server, target string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

type errorBody struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func TestChartJSON(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, body := get(t, s, "/chart.json?"+delhiQuery)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out render.ChartExport
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out.Stars, 16)
	assert.InDelta(t, 94.99, out.Center.RAdeg, 0.05)
	assert.Equal(t, 1.0, out.MagnitudeLimit)
	assert.Equal(t, "IST", out.Observer.Zone)
}

func TestChartSVG(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, body := get(t, s, "/chart.svg?"+delhiQuery)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "<svg")
	assert.Contains(t, string(body), "data-constellation")
	assert.Contains(t, string(body), `data-hip="32349"`)
	// Markers carry ids, never star names.
	assert.NotContains(t, string(body), "Sirius")

	_, body = get(t, s, "/chart.svg?"+delhiQuery+"&lines=false")
	assert.NotContains(t, string(body), "data-constellation")
}

func TestChart_MagnitudeParam(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, body := get(t, s, "/chart.json?"+delhiQuery+"&mag=-10")
	var out render.ChartExport
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Empty(t, out.Stars)
	assert.NotEmpty(t, out.Lines)
}

func TestChart_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		status  int
		message string
	}{
		{"missing latitude", "lon=77.2", http.StatusBadRequest, "latitude"},
		{"non-numeric longitude", "lat=28&lon=east", http.StatusBadRequest, "longitude"},
		{"latitude out of range", "lat=91&lon=0&date=2025-01-01", http.StatusBadRequest, "latitude"},
		{"bad date", "lat=28&lon=77&date=01-01-2025", http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD."},
		{"bad time", "lat=28&lon=77&date=2025-01-01&time=noon", http.StatusBadRequest, "Invalid time format. Use HH:MM."},
		{"unknown zone", "lat=28&lon=77&tz=Nowhere/Else", http.StatusBadRequest, "timezone"},
		{"bad magnitude", "lat=28&lon=77&mag=bright", http.StatusBadRequest, "magnitude"},
		{"outside ephemeris", "lat=28&lon=77&date=2100-01-01", http.StatusUnprocessableEntity, "ephemeris"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer(t)
			resp, body := get(t, s, "/chart.json?"+tt.query)
			assert.Equal(t, tt.status, resp.StatusCode)

			var eb errorBody
			require.NoError(t, json.Unmarshal(body, &eb))
			assert.True(t, eb.Error)
			assert.Contains(t, eb.Message, tt.message)
			assert.NotEmpty(t, eb.RequestID)
		})
	}
}

func TestChart_InternalErrorIsHidden(t *testing.T) {
	s := New(Config{
		Build: func(context.Context, chart.Request) (*chart.Result, error) {
			return nil, errors.New("disk on fire")
		},
		Timezone: "UTC",
	})

	resp, body := get(t, s, "/chart.json?lat=0&lon=0")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "disk on fire")
}

func TestRequestID(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, _ := get(t, s, "/healthz")
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)

	resp, _ = get(t, s, "/healthz", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestHealthz(t *testing.T) {
	s, _, mgr := newTestServer(t)

	get(t, s, "/chart.json?"+delhiQuery)
	get(t, s, "/chart.json?lat=28&lon=77&date=2100-01-01")

	resp, body := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, 2.0, out["builds"])
	assert.Contains(t, out["last_error"], "ephemeris")
	assert.Equal(t, 2, mgr.Snapshot().Builds)
}

func TestMetrics(t *testing.T) {
	s, _, _ := newTestServer(t)
	get(t, s, "/chart.json?"+delhiQuery)

	resp, body := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `skychart_builds_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "skychart_stars_visible 16")
}

func TestMetrics_DisabledWithoutCollector(t *testing.T) {
	s := New(Config{Build: func(context.Context, chart.Request) (*chart.Result, error) { return nil, nil }})
	resp, _ := get(t, s, "/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

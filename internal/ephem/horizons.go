package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-skychart/internal/astro"
	"github.com/litescript/ls-skychart/internal/source"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// maxCachedStates bounds the in-memory state cache.
	maxCachedStates = 4096

	// maxEpochSkew is how far a reply's epoch may sit from the request.
	// TDB runs about 69 s ahead of UTC.
	maxEpochSkew = 5 * time.Minute
)

// HorizonsEphemeris queries JPL Horizons for barycentric state vectors.
type HorizonsEphemeris struct {
	client  *source.Client
	baseURL string

	mu    sync.RWMutex
	cache map[stateKey]StateVector
}

// stateKey identifies a cached state; instants are truncated to the minute.
type stateKey struct {
	body   Body
	minute int64
}

// HorizonsOption configures a HorizonsEphemeris.
type HorizonsOption func(*HorizonsEphemeris)

// WithBaseURL points the provider at a different Horizons endpoint.
func WithBaseURL(u string) HorizonsOption {
	return func(h *HorizonsEphemeris) {
		h.baseURL = u
	}
}

// NewHorizons creates a Horizons-backed ephemeris. A nil client uses defaults.
func NewHorizons(client *source.Client, opts ...HorizonsOption) *HorizonsEphemeris {
	if client == nil {
		client = source.NewClient()
	}
	h := &HorizonsEphemeris{
		client:  client,
		baseURL: HorizonsAPIURL,
		cache:   make(map[stateKey]StateVector),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements Ephemeris.
func (h *HorizonsEphemeris) Name() string {
	return "Horizons"
}

// Covers implements Ephemeris.
func (h *HorizonsEphemeris) Covers(t time.Time) bool {
	return CheckRange(t) == nil
}

// State implements Ephemeris.
func (h *HorizonsEphemeris) State(ctx context.Context, body Body, t time.Time) (StateVector, error) {
	if err := CheckRange(t); err != nil {
		return StateVector{}, err
	}

	t = t.UTC().Truncate(time.Minute)
	key := stateKey{body: body, minute: t.Unix() / 60}

	h.mu.RLock()
	sv, ok := h.cache[key]
	h.mu.RUnlock()
	if ok {
		return sv, nil
	}

	sv, err := h.queryVectors(ctx, body, t)
	if err != nil {
		return StateVector{}, err
	}

	h.mu.Lock()
	if len(h.cache) >= maxCachedStates {
		h.cache = make(map[stateKey]StateVector)
	}
	h.cache[key] = sv
	h.mu.Unlock()

	return sv, nil
}

// queryVectors requests the ICRF state of body relative to the solar-system barycenter.
func (h *HorizonsEphemeris) queryVectors(ctx context.Context, body Body, t time.Time) (StateVector, error) {
	naif := body.NAIFID()
	if naif == 0 {
		return StateVector{}, fmt.Errorf("no NAIF id for %s", body)
	}

	// Values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%d'", naif))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", "'@0'")     // Solar-system barycenter
	params.Set("REF_PLANE", "FRAME") // ICRF equator
	params.Set("REF_SYSTEM", "ICRF")
	params.Set("VEC_TABLE", "'2'") // Position and velocity
	params.Set("VEC_LABELS", "NO")
	params.Set("OUT_UNITS", "'AU-D'")
	params.Set("TIME_TYPE", "UT")
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t.Add(time.Minute))))
	params.Set("STEP_SIZE", "'1 m'")

	raw, err := h.client.Fetch(ctx, h.baseURL+"?"+params.Encode())
	if err != nil {
		return StateVector{}, fmt.Errorf("horizons vector request failed: %w", err)
	}

	sv, err := parseStateResponse(raw)
	if err != nil {
		var rangeErr *RangeError
		if errors.As(err, &rangeErr) {
			rangeErr.Instant = t
		}
		return StateVector{}, err
	}
	if !sv.Epoch.IsZero() {
		if d := sv.Epoch.Sub(t); d < -maxEpochSkew || d > maxEpochSkew {
			return StateVector{}, fmt.Errorf("horizons returned epoch %s for %s",
				sv.Epoch.Format(time.RFC3339), t.Format(time.RFC3339))
		}
	}
	return sv, nil
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseStateResponse extracts the first position/velocity pair from a VECTORS result.
func parseStateResponse(body []byte) (StateVector, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return StateVector{}, fmt.Errorf("failed to parse JSON: %w", err)
	}

	text := resp.Result
	if resp.Error != "" {
		text = resp.Error
	}
	if strings.Contains(strings.ToLower(text), "no ephemeris") {
		return StateVector{}, &RangeError{Start: CoverageStart, End: CoverageEnd}
	}
	if resp.Error != "" {
		return StateVector{}, fmt.Errorf("horizons error: %s", strings.TrimSpace(resp.Error))
	}

	// Find the data section between $$SOE and $$EOE markers
	soeIdx := strings.Index(text, "$$SOE")
	eoeIdx := strings.Index(text, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return StateVector{}, fmt.Errorf("could not find vector data markers")
	}

	// VEC_TABLE='2' output, labeled or not:
	// 2460676.500000000 = A.D. 2025-Jan-01 00:00:00.0000 TDB
	//  X =-1.7E-01 Y = 8.9E-01 Z = 3.8E-01
	//  VX=-1.7E-02 VY=-2.8E-03 VZ=-1.2E-03
	var vecs []astro.Vec3
	var epoch time.Time
	for _, line := range strings.Split(text[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "A.D.") {
			if jd, err := strconv.ParseFloat(strings.Fields(line)[0], 64); err == nil && epoch.IsZero() {
				epoch = astro.TimeFromJulianDate(jd)
			}
			continue
		}

		var v astro.Vec3
		var err error
		if strings.Contains(line, "X") {
			v, err = parseVectorLabeled(line)
		} else {
			v, err = parseVectorUnlabeled(line)
		}
		if err != nil {
			return StateVector{}, fmt.Errorf("parse vector line %q: %w", line, err)
		}

		vecs = append(vecs, v)
		if len(vecs) == 2 {
			return StateVector{Pos: vecs[0], Vel: vecs[1], Epoch: epoch}, nil
		}
	}

	return StateVector{}, fmt.Errorf("could not parse vector data")
}

// parseVectorLabeled parses: X = 1.23E+00 Y = 2.34E+00 Z = 3.45E-01
// and the velocity form VX= ... VY= ... VZ= ...
func parseVectorLabeled(line string) (astro.Vec3, error) {
	parts := strings.Split(line, "=")
	if len(parts) < 4 {
		return astro.Vec3{}, fmt.Errorf("invalid labeled format")
	}

	// parts[1] holds "X_value Y", parts[2] "Y_value Z", parts[3] "Z_value"
	var vals [3]float64
	for i := 0; i < 3; i++ {
		fields := strings.Fields(parts[i+1])
		if len(fields) == 0 {
			return astro.Vec3{}, fmt.Errorf("missing component %d", i)
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return astro.Vec3{}, err
		}
		vals[i] = v
	}

	return astro.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// parseVectorUnlabeled parses: 1.23E+00  2.34E+00  3.45E-01
func parseVectorUnlabeled(line string) (astro.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return astro.Vec3{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return astro.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return astro.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return astro.Vec3{}, err
	}

	return astro.Vec3{X: x, Y: y, Z: z}, nil
}

// formatHorizonsTime formats a time for Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-skychart/internal/catalog"
	"github.com/litescript/ls-skychart/internal/constellation"
	"github.com/litescript/ls-skychart/internal/ephem"
	"github.com/litescript/ls-skychart/internal/logging"
)

const tracerName = "github.com/litescript/ls-skychart/internal/chart"

// DefaultMagnitudeLimit is the faintest magnitude drawn when none is given.
const DefaultMagnitudeLimit = 1.0

// Build outcomes reported to Metrics.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeRange   = "range"
	OutcomeError   = "error"
)

// Metrics receives per-build measurements.
type Metrics interface {
	ObserveBuild(outcome string, elapsed time.Duration)
	SetStarsVisible(n int)
	AddEdgesDropped(n int)
}

// Request describes one chart.
type Request struct {
	Observer       Observer
	MagnitudeLimit float64
	Observe        ephem.ObserveOptions
}

// Deps are the read-only inputs shared between builds. Nil fields fall
// back to the embedded catalog and figures, the analytic ephemeris and a
// discarding logger.
type Deps struct {
	Catalog   *catalog.Catalog
	Figures   []constellation.Figure
	Ephemeris ephem.Ephemeris
	Logger    *logging.Logger
	Metrics   Metrics
	Tracer    trace.Tracer
}

func (d Deps) withDefaults() Deps {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Figures == nil {
		d.Figures = constellation.Default()
	}
	if d.Ephemeris == nil {
		d.Ephemeris = ephem.NewAnalytic()
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	return d
}

// Result is a finished chart.
type Result struct {
	Observer       Observer
	MagnitudeLimit float64
	Center         CenterDirection
	Scene          Scene
	Excluded       int // stars fainter than the limit
	Warnings       []MissingStarReference
	Duration       time.Duration
}

// Build runs the full pipeline for req. Input is validated before any
// stage runs; dropped constellation edges are returned as warnings.
func Build(ctx context.Context, req Request, deps Deps) (res *Result, err error) {
	deps = deps.withDefaults()
	start := time.Now()

	ctx, span := deps.Tracer.Start(ctx, "chart.Build", trace.WithAttributes(
		attribute.Float64("observer.lat", req.Observer.LatDeg),
		attribute.Float64("observer.lon", req.Observer.LonDeg),
		attribute.String("observer.instant", req.Observer.Instant.UTC().Format(time.RFC3339)),
		attribute.Float64("magnitude_limit", req.MagnitudeLimit),
		attribute.String("ephemeris", deps.Ephemeris.Name()),
	))
	defer func() {
		elapsed := time.Since(start)
		deps.Metrics.ObserveBuild(outcomeOf(err), elapsed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	center, err := resolveCenterSpan(ctx, deps, req.Observer)
	if err != nil {
		return nil, err
	}
	p := BuildProjector(center)

	var (
		projected         []ProjectedStar
		visible, excluded []int
		refs              []EdgeRef
		missing           []MissingStarReference
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sctx, s := deps.Tracer.Start(gctx, "chart.ProjectStars")
		defer s.End()
		var err error
		projected, err = ProjectStars(sctx, deps.Catalog, p, deps.Ephemeris, req.Observer.Instant, req.Observe)
		return err
	})
	g.Go(func() error {
		visible, excluded = FilterByMagnitude(deps.Catalog, req.MagnitudeLimit)
		return nil
	})
	g.Go(func() error {
		_, s := deps.Tracer.Start(gctx, "chart.ResolveEdgeRefs")
		defer s.End()
		refs, missing = ResolveEdgeRefs(deps.Figures, deps.Catalog)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines := BindSegments(refs, projected)
	scene := AssembleScene(deps.Catalog, projected, visible, lines)

	for _, m := range missing {
		deps.Logger.Warn("dropped constellation edge: %s", m)
	}
	deps.Metrics.SetStarsVisible(len(scene.Stars))
	deps.Metrics.AddEdgesDropped(len(missing))

	span.SetAttributes(
		attribute.Int("stars.visible", len(scene.Stars)),
		attribute.Int("stars.excluded", len(excluded)),
		attribute.Int("lines", len(lines)),
		attribute.Int("edges.dropped", len(missing)),
	)

	res = &Result{
		Observer:       req.Observer,
		MagnitudeLimit: req.MagnitudeLimit,
		Center:         center,
		Scene:          scene,
		Excluded:       len(excluded),
		Warnings:       missing,
		Duration:       time.Since(start),
	}
	deps.Logger.Debug("chart built: %d stars, %d lines, %d excluded in %v",
		len(scene.Stars), len(lines), len(excluded), res.Duration)
	return res, nil
}

func validateRequest(req Request) error {
	if math.IsNaN(req.MagnitudeLimit) {
		return &InvalidInputError{Field: "magnitude", Value: "NaN", Reason: "must be a number"}
	}
	return req.Observer.Validate()
}

func resolveCenterSpan(ctx context.Context, deps Deps, obs Observer) (CenterDirection, error) {
	_, span := deps.Tracer.Start(ctx, "chart.ResolveCenter")
	defer span.End()

	center, err := ResolveCenter(obs, deps.Ephemeris)
	if err != nil {
		return CenterDirection{}, err
	}
	span.SetAttributes(
		attribute.Float64("center.ra", center.RAdeg),
		attribute.Float64("center.dec", center.DecDeg),
	)
	return center, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, ephem.ErrEphemerisRange):
		return OutcomeRange
	default:
		return OutcomeError
	}
}

// Title returns the two-line chart caption, with the instant shown in the
// observer's own zone.
func (r *Result) Title() string {
	return fmt.Sprintf("Star Chart\n%s at (%s, %s)",
		r.Observer.Instant.Format("2006-01-02 15:04 MST"),
		formatFloat(r.Observer.LatDeg), formatFloat(r.Observer.LonDeg))
}

type nopMetrics struct{}

func (nopMetrics) ObserveBuild(string, time.Duration) {}
func (nopMetrics) SetStarsVisible(int)                {}
func (nopMetrics) AddEdgesDropped(int)                {}

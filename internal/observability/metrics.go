// Package observability wires Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the chart pipeline metrics. It satisfies chart.Metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Builds        *prometheus.CounterVec
	BuildDuration prometheus.Histogram
	StarsVisible  prometheus.Gauge
	EdgesDropped  prometheus.Counter
}

// NewCollector registers chart metrics against reg, defaulting to the
// global Prometheus registry when nil. Registering twice reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	builds, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skychart_builds_total",
		Help: "Chart builds, labeled by outcome (ok, invalid, range, error).",
	}, []string{"outcome"}), "skychart_builds_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skychart_build_duration_seconds",
		Help:    "Time to build one chart, including ephemeris lookups.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}), "skychart_build_duration_seconds")
	if err != nil {
		return nil, err
	}

	visible, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skychart_stars_visible",
		Help: "Stars drawn in the most recent chart.",
	}), "skychart_stars_visible")
	if err != nil {
		return nil, err
	}

	dropped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skychart_edges_dropped_total",
		Help: "Constellation edges dropped because a star id was not in the catalog.",
	}), "skychart_edges_dropped_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Builds:        builds,
		BuildDuration: duration,
		StarsVisible:  visible,
		EdgesDropped:  dropped,
	}, nil
}

// ObserveBuild counts a finished build and records its duration.
func (c *Collector) ObserveBuild(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Builds.WithLabelValues(outcome).Inc()
	c.BuildDuration.Observe(elapsed.Seconds())
}

// SetStarsVisible records the star count of the latest chart.
func (c *Collector) SetStarsVisible(n int) {
	if c == nil {
		return
	}
	c.StarsVisible.Set(float64(n))
}

// AddEdgesDropped adds to the dropped-edge counter.
func (c *Collector) AddEdgesDropped(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.EdgesDropped.Add(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

// Command ls-skychart draws a stereographic chart of the sky overhead for an
// observer on Earth at a given instant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/litescript/ls-skychart/internal/catalog"
	"github.com/litescript/ls-skychart/internal/chart"
	"github.com/litescript/ls-skychart/internal/config"
	"github.com/litescript/ls-skychart/internal/constellation"
	"github.com/litescript/ls-skychart/internal/ephem"
	"github.com/litescript/ls-skychart/internal/logging"
	"github.com/litescript/ls-skychart/internal/observability"
	"github.com/litescript/ls-skychart/internal/render"
	"github.com/litescript/ls-skychart/internal/server"
	"github.com/litescript/ls-skychart/internal/source"
	"github.com/litescript/ls-skychart/internal/state"
	"github.com/litescript/ls-skychart/internal/ui"
	"github.com/litescript/ls-skychart/internal/version"
)

// Exit codes.
const (
	exitError   = 1
	exitInvalid = 2
	exitRange   = 3
)

// CLI flags for output modes
var (
	svgPath     string
	jsonPath    string
	summaryMode bool
	miniMode    bool
	dateStr     string
	timeStr     string
	configPath  string
	showVersion bool
)

func main() {
	cfg := config.Default()

	flag.Float64Var(&cfg.Latitude, "latitude", cfg.Latitude, "Observer latitude in degrees, north positive (required)")
	flag.Float64Var(&cfg.Longitude, "longitude", cfg.Longitude, "Observer longitude in degrees, east positive (required)")
	flag.Float64Var(&cfg.ElevationM, "elevation", cfg.ElevationM, "Observer elevation in metres")
	flag.StringVar(&dateStr, "date", "", "Local date YYYY-MM-DD (default today)")
	flag.StringVar(&timeStr, "time", "", "Local time HH:MM (default 00:00 with --date, otherwise now)")
	flag.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA time zone of --date and --time")
	flag.Float64Var(&cfg.Magnitude, "magnitude", cfg.Magnitude, "Faintest magnitude drawn")
	flag.StringVar(&cfg.Catalog, "catalog", "", "Hipparcos hip_main.dat path or URL (default built-in bright stars)")
	flag.StringVar(&cfg.Constellations, "constellations", "", "Stellarium .fab path or URL (default built-in western figures; Indian: "+constellation.IndianFiguresURL+")")
	flag.StringVar(&cfg.Ephemeris, "ephem", cfg.Ephemeris, "Ephemeris: analytic or horizons")
	flag.BoolVar(&cfg.Aberration, "aberration", false, "Apply annual aberration (apparent instead of astrometric places)")
	flag.StringVar(&cfg.CachePath, "cache", "", "bbolt file caching downloaded catalogs and ephemeris replies")
	flag.StringVar(&svgPath, "svg", "", "Write the chart as SVG to a file (use - for stdout)")
	flag.StringVar(&jsonPath, "json", "", "Write the chart as JSON to a file (use - for stdout)")
	flag.BoolVar(&summaryMode, "summary", false, "Print a table of visible stars instead of the TUI")
	flag.BoolVar(&miniMode, "mini", false, "Print an ASCII chart")
	flag.StringVar(&cfg.ServeAddr, "serve", "", "Serve charts over HTTP on this address (e.g. :8080)")
	flag.BoolVar(&cfg.Tracing, "tracing", false, "Export pipeline spans to stderr")
	flag.StringVar(&configPath, "config", "", "Config file (YAML, JSON or TOML)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-skychart %s\n", version.Version)
		return
	}

	cfg, err := mergeConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}

	// Logs go to stderr so they never mix with chart output.
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// mergeConfig loads the config file, .env and environment, then reapplies
// the flags the user set explicitly so they win.
func mergeConfig(flags config.Config) (config.Config, error) {
	cfg, err := config.Load(config.Sources{File: configPath})
	if err != nil {
		return cfg, err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	overrides := []struct {
		name  string
		apply func()
	}{
		{"latitude", func() { cfg.Latitude = flags.Latitude }},
		{"longitude", func() { cfg.Longitude = flags.Longitude }},
		{"elevation", func() { cfg.ElevationM = flags.ElevationM }},
		{"timezone", func() { cfg.Timezone = flags.Timezone }},
		{"magnitude", func() { cfg.Magnitude = flags.Magnitude }},
		{"catalog", func() { cfg.Catalog = flags.Catalog }},
		{"constellations", func() { cfg.Constellations = flags.Constellations }},
		{"ephem", func() { cfg.Ephemeris = flags.Ephemeris }},
		{"aberration", func() { cfg.Aberration = flags.Aberration }},
		{"cache", func() { cfg.CachePath = flags.CachePath }},
		{"serve", func() { cfg.ServeAddr = flags.ServeAddr }},
		{"tracing", func() { cfg.Tracing = flags.Tracing }},
		{"log-level", func() { cfg.LogLevel = flags.LogLevel }},
	}
	for _, o := range overrides {
		if set[o.name] {
			o.apply()
		}
	}

	if cfg.ServeAddr == "" && !set["latitude"] && os.Getenv(config.EnvPrefix+"LATITUDE") == "" && configPath == "" {
		return cfg, &chart.InvalidInputError{Field: "latitude", Reason: "--latitude is required"}
	}
	if cfg.ServeAddr == "" && !set["longitude"] && os.Getenv(config.EnvPrefix+"LONGITUDE") == "" && configPath == "" {
		return cfg, &chart.InvalidInputError{Field: "longitude", Reason: "--longitude is required"}
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing,
		ServiceName: "ls-skychart",
		SampleRatio: cfg.TraceSampleRatio,
	}, logger)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	clientOpts := []source.Option{source.WithTimeout(cfg.FetchTimeout)}
	if cfg.CachePath != "" {
		cache, err := source.OpenCache(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer cache.Close()
		clientOpts = append(clientOpts, source.WithCache(cache))
	}
	client := source.NewClient(clientOpts...)

	deps, err := loadDeps(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	if cfg.ServeAddr != "" {
		return serve(ctx, cfg, deps, logger)
	}

	instant, err := chart.ParseInstant(dateStr, timeStr, cfg.Timezone, time.Now())
	if err != nil {
		return err
	}
	build := func(ctx context.Context, instant time.Time, mag float64) (*chart.Result, error) {
		return chart.Build(ctx, chart.Request{
			Observer: chart.Observer{
				LatDeg:     cfg.Latitude,
				LonDeg:     cfg.Longitude,
				ElevationM: cfg.ElevationM,
				Instant:    instant,
			},
			MagnitudeLimit: mag,
			Observe:        ephem.ObserveOptions{Aberration: cfg.Aberration},
		}, deps)
	}

	headless := svgPath != "" || jsonPath != "" || summaryMode || miniMode
	if !headless && term.IsTerminal(int(os.Stdout.Fd())) {
		return runTUI(build, instant, cfg.Magnitude)
	}
	if !headless {
		summaryMode = true
	}

	res, err := build(ctx, instant, cfg.Magnitude)
	if err != nil {
		return err
	}
	logger.Debug("chart built: %d stars, %d lines in %v", len(res.Scene.Stars), len(res.Scene.Lines), res.Duration)
	return writeOutputs(res)
}

// loadDeps resolves the catalog, constellation figures and ephemeris.
func loadDeps(ctx context.Context, cfg config.Config, client *source.Client, logger *logging.Logger) (chart.Deps, error) {
	deps := chart.Deps{Logger: logger}

	if cfg.Catalog != "" {
		rc, err := client.Open(ctx, cfg.Catalog)
		if err != nil {
			return deps, fmt.Errorf("open catalog: %w", err)
		}
		defer rc.Close()
		cat, err := catalog.ParseHipparcos(rc)
		if err != nil {
			return deps, fmt.Errorf("parse catalog %s: %w", cfg.Catalog, err)
		}
		logger.Info("loaded %d stars from %s", cat.Len(), cfg.Catalog)
		deps.Catalog = cat
	}

	if cfg.Constellations != "" {
		rc, err := client.Open(ctx, cfg.Constellations)
		if err != nil {
			return deps, fmt.Errorf("open constellations: %w", err)
		}
		defer rc.Close()
		figs, err := constellation.ParseFab(rc)
		if err != nil {
			return deps, fmt.Errorf("parse constellations %s: %w", cfg.Constellations, err)
		}
		logger.Info("loaded %d constellation figures from %s", len(figs), cfg.Constellations)
		deps.Figures = figs
	}

	switch ephem.ParseMode(cfg.Ephemeris) {
	case ephem.ModeHorizons:
		var opts []ephem.HorizonsOption
		if cfg.HorizonsURL != "" {
			opts = append(opts, ephem.WithBaseURL(cfg.HorizonsURL))
		}
		deps.Ephemeris = ephem.NewHorizons(client, opts...)
	default:
		deps.Ephemeris = ephem.NewAnalytic()
	}
	logger.Debug("using %s ephemeris", deps.Ephemeris.Name())

	return deps, nil
}

func runTUI(build ui.Builder, instant time.Time, mag float64) error {
	stateCfg := state.DefaultConfig()
	stateCfg.Settings.MagnitudeLimit = mag
	model := ui.New(build, state.NewManager(stateCfg), instant)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cfg config.Config, deps chart.Deps, logger *logging.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewCollector(reg)
	if err != nil {
		return err
	}
	deps.Metrics = metrics

	aberration := cfg.Aberration
	srv := server.New(server.Config{
		Build: func(ctx context.Context, req chart.Request) (*chart.Result, error) {
			req.Observe.Aberration = aberration
			return chart.Build(ctx, req, deps)
		},
		Logger:   logger,
		Metrics:  metrics,
		State:    state.NewManager(state.DefaultConfig()),
		Timezone: cfg.Timezone,
		Mag:      cfg.Magnitude,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.ServeAddr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeOutputs(res *chart.Result) error {
	if svgPath != "" {
		if err := writeTo(svgPath, func(w io.Writer) error {
			return render.WriteSVG(w, res, render.SVGOptions{})
		}); err != nil {
			return fmt.Errorf("write SVG: %w", err)
		}
	}

	if jsonPath != "" {
		if err := writeTo(jsonPath, render.Export(res).WriteJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	if summaryMode {
		if err := render.WriteSummary(os.Stdout, res); err != nil {
			return err
		}
	}

	if miniMode {
		fmt.Println()
		if err := render.WriteMiniChart(os.Stdout, res, render.DefaultMiniChartConfig()); err != nil {
			return err
		}
	}
	return nil
}

// writeTo writes to path, or stdout when path is "-".
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, chart.ErrInvalidInput):
		return exitInvalid
	case errors.Is(err, ephem.ErrEphemerisRange):
		return exitRange
	default:
		return exitError
	}
}

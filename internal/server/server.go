// Package server serves charts over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/litescript/ls-skychart/internal/chart"
	"github.com/litescript/ls-skychart/internal/ephem"
	"github.com/litescript/ls-skychart/internal/logging"
	"github.com/litescript/ls-skychart/internal/observability"
	"github.com/litescript/ls-skychart/internal/render"
	"github.com/litescript/ls-skychart/internal/state"
	"github.com/litescript/ls-skychart/internal/version"
)

// Builder runs the chart pipeline for one request.
type Builder func(ctx context.Context, req chart.Request) (*chart.Result, error)

const localsRequestID = "request_id"

// Config wires a Server.
type Config struct {
	Build    Builder
	Logger   *logging.Logger
	Metrics  *observability.Collector // nil disables /metrics
	State    *state.Manager           // nil disables build history in /healthz
	Timezone string                   // used when a request has no tz
	Mag      float64                  // used when a request has no mag
	Now      func() time.Time
	Timeout  time.Duration // per-request build timeout
}

// Server is the chart HTTP service.
type Server struct {
	app *fiber.App
	cfg Config
	log *logging.Logger
}

var validate = validator.New()

// New builds the fiber app and registers routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	s := &Server{cfg: cfg, log: cfg.Logger}
	s.app = fiber.New(fiber.Config{
		AppName:               "ls-skychart",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestID)
	s.registerRoutes()
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("serving charts on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Get("/chart.svg", func(c *fiber.Ctx) error {
		res, err := s.build(c)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		opts := render.SVGOptions{
			NoLines: !c.QueryBool("lines", true),
			Size:    c.QueryInt("size", 0),
		}
		if err := render.WriteSVG(&buf, res, opts); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.Send(buf.Bytes())
	})

	s.app.Get("/chart.json", func(c *fiber.Ctx) error {
		res, err := s.build(c)
		if err != nil {
			return err
		}
		return c.JSON(render.Export(res))
	})

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"version": version.Version,
		}
		if s.cfg.State != nil {
			snap := s.cfg.State.Snapshot()
			body["builds"] = snap.Builds
			if !snap.LastBuild.IsZero() {
				body["last_build"] = snap.LastBuild.UTC().Format(time.RFC3339)
				body["last_build_ms"] = snap.BuildDuration.Milliseconds()
			}
			if snap.LastError != nil {
				body["last_error"] = snap.LastError.Error()
			}
		}
		return c.JSON(body)
	})

	if s.cfg.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.cfg.Metrics.Handler()))
	}
}

// chartQuery holds the raw query parameters of a chart request.
type chartQuery struct {
	Lat       string `validate:"required,numeric"`
	Lon       string `validate:"required,numeric"`
	Elevation string `validate:"omitempty,numeric"`
	Date      string
	Time      string
	TZ        string
	Mag       string `validate:"omitempty,numeric"`
}

var queryFields = map[string]string{
	"Lat":       "latitude",
	"Lon":       "longitude",
	"Elevation": "elevation",
	"Mag":       "magnitude",
}

func parseChartQuery(c *fiber.Ctx) (chartQuery, error) {
	q := chartQuery{
		Lat:       c.Query("lat"),
		Lon:       c.Query("lon"),
		Elevation: c.Query("elevation"),
		Date:      c.Query("date"),
		Time:      c.Query("time"),
		TZ:        c.Query("tz"),
		Mag:       c.Query("mag"),
	}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			reason := "must be a number"
			if fe.Tag() == "required" {
				reason = "is required"
			}
			return q, &chart.InvalidInputError{Field: queryFields[fe.Field()], Value: fe.Value().(string), Reason: reason}
		}
		return q, err
	}
	return q, nil
}

// request converts a validated query into a pipeline request.
func (s *Server) request(q chartQuery) (chart.Request, error) {
	tz := q.TZ
	if tz == "" {
		tz = s.cfg.Timezone
	}
	instant, err := chart.ParseInstant(q.Date, q.Time, tz, s.cfg.Now())
	if err != nil {
		return chart.Request{}, err
	}

	// numeric tags already passed, so these cannot fail
	lat, _ := strconv.ParseFloat(q.Lat, 64)
	lon, _ := strconv.ParseFloat(q.Lon, 64)
	var elev float64
	if q.Elevation != "" {
		elev, _ = strconv.ParseFloat(q.Elevation, 64)
	}
	mag := s.cfg.Mag
	if q.Mag != "" {
		mag, _ = strconv.ParseFloat(q.Mag, 64)
	}

	return chart.Request{
		Observer:       chart.Observer{LatDeg: lat, LonDeg: lon, ElevationM: elev, Instant: instant},
		MagnitudeLimit: mag,
	}, nil
}

func (s *Server) build(c *fiber.Ctx) (*chart.Result, error) {
	q, err := parseChartQuery(c)
	if err != nil {
		return nil, err
	}
	req, err := s.request(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	res, err := s.cfg.Build(ctx, req)
	if s.cfg.State != nil {
		s.cfg.State.Update(res, req.Observer.Instant, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	log := s.requestLogger(c)
	for _, w := range res.Warnings {
		log.Warn("dropped edge: %s", w)
	}
	log.Debug("built chart: %d stars, %d lines in %v", len(res.Scene.Stars), len(res.Scene.Lines), res.Duration)
	return res, nil
}

// requestID tags each request with an X-Request-ID and logs its outcome.
func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(localsRequestID, id)
	c.Set(fiber.HeaderXRequestID, id)

	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status = statusOf(err)
	}
	s.requestLogger(c).Info("%s %s -> %d (%v)", c.Method(), c.Path(), status, time.Since(start).Round(time.Microsecond))
	return err
}

func (s *Server) requestLogger(c *fiber.Ctx) *logging.Logger {
	if id, ok := c.Locals(localsRequestID).(string); ok {
		return s.log.With("request_id", id)
	}
	return s.log
}

// statusOf maps pipeline errors to HTTP status codes.
func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, chart.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ephem.ErrEphemerisRange):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		s.requestLogger(c).Error("chart request failed: %v", err)
		msg = "internal error"
	}
	return c.Status(code).JSON(fiber.Map{
		"error":      true,
		"message":    msg,
		"request_id": c.Locals(localsRequestID),
	})
}

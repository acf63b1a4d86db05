// Package config loads ls-skychart settings from defaults, an optional
// config file, a .env file and SKYCHART_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/litescript/ls-skychart/internal/chart"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "SKYCHART_"

// Config holds all runtime settings. Command-line flags are applied on top
// by the caller.
type Config struct {
	Latitude   float64 `mapstructure:"latitude" env:"LATITUDE" validate:"gte=-90,lte=90"`
	Longitude  float64 `mapstructure:"longitude" env:"LONGITUDE" validate:"gte=-180,lte=180"`
	ElevationM float64 `mapstructure:"elevation" env:"ELEVATION" validate:"gte=-11000,lte=100000"`
	Timezone   string  `mapstructure:"timezone" env:"TIMEZONE" validate:"required,timezone"`
	Magnitude  float64 `mapstructure:"magnitude" env:"MAGNITUDE" validate:"gte=-30,lte=30"`

	Catalog        string `mapstructure:"catalog" env:"CATALOG"`
	Constellations string `mapstructure:"constellations" env:"CONSTELLATIONS"`
	Ephemeris      string `mapstructure:"ephemeris" env:"EPHEMERIS" validate:"oneof=analytic horizons"`
	HorizonsURL    string `mapstructure:"horizons_url" env:"HORIZONS_URL" validate:"omitempty,url"`
	Aberration     bool   `mapstructure:"aberration" env:"ABERRATION"`

	CachePath    string        `mapstructure:"cache_path" env:"CACHE_PATH"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" env:"CACHE_TTL" validate:"gte=0"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" env:"FETCH_TIMEOUT" validate:"gt=0"`

	LogLevel string `mapstructure:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`

	ServeAddr        string  `mapstructure:"serve_addr" env:"SERVE_ADDR"`
	Tracing          bool    `mapstructure:"tracing" env:"TRACING"`
	TraceSampleRatio float64 `mapstructure:"trace_sample_ratio" env:"TRACE_SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Timezone:         "Asia/Kolkata",
		Magnitude:        chart.DefaultMagnitudeLimit,
		Ephemeris:        "analytic",
		CacheTTL:         7 * 24 * time.Hour,
		FetchTimeout:     60 * time.Second,
		LogLevel:         "info",
		TraceSampleRatio: 1,
	}
}

// Sources names where Load reads from. Empty File skips the config file;
// empty DotEnv means ".env" in the working directory, which may be absent.
type Sources struct {
	File   string
	DotEnv string
}

// Load builds a Config from defaults, then the config file, then the .env
// file, then the environment. Later sources win.
func Load(src Sources) (Config, error) {
	cfg := Default()

	if src.File != "" {
		v := viper.New()
		v.SetConfigFile(src.File)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", src.File, err)
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", src.File, err)
		}
	}

	dotenv := src.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	// godotenv never overrides variables already in the environment.
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", dotenv, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config key so errors match flag and file names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the settings, returning a *chart.InvalidInputError for the
// first offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}

	fe := verrs[0]
	return &chart.InvalidInputError{
		Field:  fe.Field(),
		Value:  fmt.Sprint(fe.Value()),
		Reason: reason(fe),
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "timezone":
		return "unknown time zone"
	case "url":
		return "must be a URL"
	default:
		return "failed " + fe.Tag()
	}
}

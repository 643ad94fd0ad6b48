// Package config loads and validates the fetcher configuration from an
// optional YAML file, the environment, and CLI overrides. Fail-fast:
// configuration problems are reported before any network call is made.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"vacfetch/pkg/fetch"
	"vacfetch/pkg/window"
)

// DefaultUserAgent identifies the fetcher to hh.ru. Override it with a
// contact address of your own for good API citizenship.
const DefaultUserAgent = "VacFetch/1.0 (+contact: your-email@example.com)"

// Config holds all runtime configuration for the fetcher.
type Config struct {
	// Search criteria.
	Text       string   `yaml:"text"`
	Areas      []string `yaml:"areas" validate:"required,min=1,dive,required"`
	PerPage    int      `yaml:"per_page" validate:"min=1,max=100"`
	MaxPages   int      `yaml:"max_pages"` // inclusive zero-based cap; -1 disables
	Employment []string `yaml:"employment"`
	Schedule   []string `yaml:"schedule"`

	// Date range: explicit bounds or the last-days shorthand, never both.
	DateFrom   string `yaml:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `yaml:"date_to" validate:"omitempty,datetime=2006-01-02"`
	LastDays   int    `yaml:"last_days" validate:"min=0"`
	WindowDays int    `yaml:"window_days" validate:"min=1"`

	// Rate etiquette.
	DelaySeconds float64 `yaml:"delay_seconds" validate:"min=0"`

	// Detail enrichment toggle.
	WithDetails bool `yaml:"details"`

	// API access.
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	UserAgent string `yaml:"user_agent" validate:"required"`

	// Output.
	Out      string `yaml:"out"`
	RedisURL string `yaml:"redis_url"`
	RedisKey string `yaml:"redis_key"`

	// Operations.
	MetricsAddr string `yaml:"metrics_addr"`
	Cron        string `yaml:"cron"`
	LogLevel    string `yaml:"log_level"`
	LogPretty   bool   `yaml:"log_pretty"`
}

// Default returns the baseline configuration, matching the public API
// defaults: Moscow area, full pages, half-second pacing, weekly windows.
func Default() Config {
	return Config{
		Areas:        []string{"1"},
		PerPage:      100,
		MaxPages:     -1,
		WindowDays:   7,
		DelaySeconds: 0.5,
		BaseURL:      "https://api.hh.ru",
		UserAgent:    DefaultUserAgent,
		RedisKey:     "vacfetch:rows",
		LogLevel:     "info",
	}
}

// Load builds the configuration: defaults, then an optional YAML file, then
// environment overrides. Validation is a separate step so CLI flags can be
// applied in between.
func Load(path string) (Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv overrides selected fields from the environment. Only operational
// settings live in the environment; search criteria come from the file or
// the CLI.
func applyEnv(cfg *Config) {
	if v := os.Getenv("HH_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("HH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("VACFETCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks field constraints and cross-field rules. It returns a
// fetch.ErrInvalidOptions-wrapped error for rule violations so callers can
// distinguish configuration mistakes from runtime failures.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", fetch.ErrInvalidOptions, strings.Join(fields, ", "))
		}
		return err
	}

	if c.LastDays > 0 && (c.DateFrom != "" || c.DateTo != "") {
		return fmt.Errorf("%w: last-days and explicit date bounds are mutually exclusive", fetch.ErrInvalidOptions)
	}

	return nil
}

// Delay converts the configured pacing to a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// DateBounds parses the configured explicit bounds; nil for absent sides.
func (c Config) DateBounds() (from, to *time.Time, err error) {
	if c.DateFrom != "" {
		t, err := time.Parse(window.DateLayout, c.DateFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("parse date_from: %w", err)
		}
		from = &t
	}
	if c.DateTo != "" {
		t, err := time.Parse(window.DateLayout, c.DateTo)
		if err != nil {
			return nil, nil, fmt.Errorf("parse date_to: %w", err)
		}
		to = &t
	}
	return from, to, nil
}

// FetchOptions converts the configuration into orchestrator options.
func (c Config) FetchOptions() (fetch.Options, error) {
	from, to, err := c.DateBounds()
	if err != nil {
		return fetch.Options{}, err
	}

	return fetch.Options{
		Text:        c.Text,
		Areas:       c.Areas,
		PerPage:     c.PerPage,
		MaxPages:    c.MaxPages,
		DateFrom:    from,
		DateTo:      to,
		LastDays:    c.LastDays,
		WindowDays:  c.WindowDays,
		Employment:  c.Employment,
		Schedule:    c.Schedule,
		Delay:       c.Delay(),
		WithDetails: c.WithDetails,
	}, nil
}

// Package client provides the resilient HTTP layer for the hh.ru API:
// single GET requests with status classification and bounded
// exponential-backoff retries for transient failures.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for API client operations.
var (
	hhRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_requests_total",
		Help: "Total hh.ru API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	hhRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hh_request_duration_seconds",
		Help:    "hh.ru API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	hhErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_errors_total",
		Help: "Total hh.ru API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents non-retryable 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client is the hh.ru API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration. Base URL and retry schedule are
// injected here so tests can point the client at a fake endpoint with a
// deterministic backoff.
type Config struct {
	// BaseURL of the API, without a trailing slash.
	BaseURL string

	// User-Agent header, required by hh.ru for every request.
	// Format: "AppName/Version (+contact: you@example.com)"
	UserAgent string

	// Timeout per attempt.
	Timeout time.Duration

	// Retry policy for 429/5xx and network failures.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration for api.hh.ru.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   "https://api.hh.ru",
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// New creates a new hh.ru API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	logger := log.With().Str("component", "hh-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// Get performs one GET request against the given API path, retrying transient
// failures per the configured policy. Query values with multiple entries are
// encoded as repeated same-named parameters. On success the caller owns the
// response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	endpoint := path

	startTime := time.Now()
	defer func() {
		hhRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	target := c.config.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", query.Encode()).
		Msg("Executing hh request")

	var resp *http.Response

	retryErr := retryWithBackoff(ctx, c.config.Retry, c.logger, func() error {
		r, reqErr := c.httpClient.Do(req)
		if reqErr != nil {
			c.logger.Warn().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			hhErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			hhRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &APIError{
				Class:   ErrorClassNetwork,
				Message: "request failed",
				Err:     reqErr,
			}
		}

		if r.StatusCode < 200 || r.StatusCode > 299 {
			class := classifyStatus(r.StatusCode)
			hhErrorsTotal.WithLabelValues(string(class)).Inc()
			hhRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", r.StatusCode)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", r.StatusCode).
				Str("error_class", string(class)).
				Msg("hh request error")

			r.Body.Close()
			return &APIError{
				StatusCode: r.StatusCode,
				Class:      class,
				Message:    r.Status,
			}
		}

		hhRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", r.StatusCode)).Inc()
		resp = r
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response body into out.
// A body that cannot be decoded surfaces as ErrMalformedResponse.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

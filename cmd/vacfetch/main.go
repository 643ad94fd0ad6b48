// Command vacfetch retrieves job vacancies from the hh.ru public API and
// saves them as CSV (optionally mirroring rows to Redis).
//
// Usage examples:
//
//	vacfetch -text "Product Manager" -areas 1,2 -per-page 100 -delay 0.5
//	vacfetch -text "Data Scientist" -areas 1 -date-from 2025-09-01 -date-to 2025-09-24 -details
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"vacfetch/internal/config"
	"vacfetch/internal/scheduler"
	"vacfetch/internal/sink"
	"vacfetch/pkg/client"
	"vacfetch/pkg/fetch"
	"vacfetch/pkg/logging"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to a YAML config file")
		text        = flag.String("text", "", "Search text (query)")
		areas       = flag.String("areas", "", "Comma-separated area IDs (e.g. '1,2' for Moscow, SPB)")
		perPage     = flag.Int("per-page", 0, "Items per page (max 100)")
		maxPages    = flag.Int("max-pages", -1, "Inclusive cap for the zero-based page index; -1 uses the API page count")
		dateFrom    = flag.String("date-from", "", "YYYY-MM-DD lower publication-date bound")
		dateTo      = flag.String("date-to", "", "YYYY-MM-DD upper publication-date bound")
		lastDays    = flag.Int("last-days", 0, "Fetch the last N calendar days (mutually exclusive with explicit bounds)")
		windowDays  = flag.Int("window-days", 0, "Date window width in days")
		employment  = flag.String("employment", "", "Comma-separated employment filters (e.g. 'full,part')")
		schedule    = flag.String("schedule", "", "Comma-separated schedule filters (e.g. 'remote')")
		delay       = flag.Float64("delay", 0, "Delay between requests in seconds")
		details     = flag.Bool("details", false, "Fetch per-vacancy details (slower)")
		out         = flag.String("out", "", "Output CSV path (default: output/hh_vacancies_<timestamp>.csv)")
		userAgent   = flag.String("user-agent", "", "HTTP User-Agent to send in requests")
		redisURL    = flag.String("redis-url", "", "Optional Redis URL; rows are mirrored onto a list")
		redisKey    = flag.String("redis-key", "", "Redis list key for mirrored rows")
		metricsAddr = flag.String("metrics-addr", "", "Optional listen address for Prometheus metrics")
		cronSpec    = flag.String("cron", "", "Optional cron expression for repeated runs")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		logPretty   = flag.Bool("log-pretty", false, "Human-readable log output")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// CLI flags override file and environment values, but only when set.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			cfg.Text = *text
		case "areas":
			cfg.Areas = splitList(*areas)
		case "per-page":
			cfg.PerPage = *perPage
		case "max-pages":
			cfg.MaxPages = *maxPages
		case "date-from":
			cfg.DateFrom = *dateFrom
		case "date-to":
			cfg.DateTo = *dateTo
		case "last-days":
			cfg.LastDays = *lastDays
		case "window-days":
			cfg.WindowDays = *windowDays
		case "employment":
			cfg.Employment = splitList(*employment)
		case "schedule":
			cfg.Schedule = splitList(*schedule)
		case "delay":
			cfg.DelaySeconds = *delay
		case "details":
			cfg.WithDetails = *details
		case "out":
			cfg.Out = *out
		case "user-agent":
			cfg.UserAgent = *userAgent
		case "redis-url":
			cfg.RedisURL = *redisURL
		case "redis-key":
			cfg.RedisKey = *redisKey
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "cron":
			cfg.Cron = *cronSpec
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-pretty":
			cfg.LogPretty = *logPretty
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("vacfetch")

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	run := func(ctx context.Context) error {
		return runOnce(ctx, cfg, logger)
	}

	if cfg.Cron != "" {
		sched, err := scheduler.New(cfg.Cron, run)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		sched.Start()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		sched.Stop()
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("Fetch run failed")
		os.Exit(1)
	}
}

// runOnce executes one complete fetch run into freshly opened sinks.
func runOnce(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	opts, err := cfg.FetchOptions()
	if err != nil {
		return err
	}

	apiCfg := client.DefaultConfig(cfg.UserAgent)
	apiCfg.BaseURL = cfg.BaseURL
	api, err := client.New(apiCfg)
	if err != nil {
		return err
	}

	orch, err := fetch.New(api, opts)
	if err != nil {
		return err
	}

	csvSink, err := sink.NewCSV(cfg.Out)
	if err != nil {
		return err
	}

	out := sink.Sink(csvSink)
	if cfg.RedisURL != "" {
		redisSink, err := sink.NewRedis(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			csvSink.Close()
			return err
		}
		out = sink.Multi(csvSink, redisSink)
	}

	count, runErr := orch.Run(ctx, func(row fetch.FlatRow) error {
		return out.Write(ctx, row)
	})
	if closeErr := out.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return runErr
	}

	logger.Info().Int("rows", count).Str("path", csvSink.Path()).Msg("Run saved")
	fmt.Printf("Saved %d rows to %s\n", count, csvSink.Path())
	return nil
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info().Str("addr", addr).Msg("Serving Prometheus metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Metrics listener failed")
	}
}

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

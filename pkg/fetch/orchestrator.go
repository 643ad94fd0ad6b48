// Package fetch composes the window planner, pagination driver, and detail
// enricher into a single streaming run producing flattened vacancy rows.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vacfetch/pkg/client"
	"vacfetch/pkg/hh"
	"vacfetch/pkg/pagination"
	"vacfetch/pkg/ratelimit"
	"vacfetch/pkg/window"
)

// Prometheus metrics for fetch runs.
var (
	hhRecordsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_records_fetched_total",
		Help: "Total vacancy records emitted by fetch runs",
	})

	hhFetchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hh_fetch_runs_total",
		Help: "Completed fetch runs by outcome",
	}, []string{"outcome"})
)

// ErrInvalidOptions marks configuration problems detected before any network
// call. No partial output is produced for runs rejected with it.
var ErrInvalidOptions = errors.New("invalid fetch options")

// Options configures one fetch run.
type Options struct {
	// Text is the optional search query.
	Text string

	// Areas lists the hh.ru area identifiers to search, processed in the
	// order supplied. At least one is required.
	Areas []string

	// PerPage is the page size, 1..100.
	PerPage int

	// MaxPages caps the zero-based page index per (area, window); the cap is
	// inclusive, so 0 still fetches page 0. Negative disables the cap.
	MaxPages int

	// DateFrom/DateTo bound the publication date range. Mutually exclusive
	// with LastDays.
	DateFrom *time.Time
	DateTo   *time.Time

	// LastDays is the "last n calendar days" shorthand, 0 when unused.
	LastDays int

	// WindowDays is the width of one date window; values below 1 are treated
	// as 1. Ignored when the date range is open on either side.
	WindowDays int

	// Employment and Schedule filter values, sent as repeated parameters.
	Employment []string
	Schedule   []string

	// Delay is the minimum interval between successive page requests.
	Delay time.Duration

	// WithDetails enables the per-vacancy detail fetch.
	WithDetails bool
}

// validate rejects option combinations before any network call is made.
func (o Options) validate() error {
	if len(o.Areas) == 0 {
		return fmt.Errorf("%w: at least one area is required", ErrInvalidOptions)
	}
	for _, a := range o.Areas {
		if a == "" {
			return fmt.Errorf("%w: empty area id", ErrInvalidOptions)
		}
	}
	if o.PerPage < 1 || o.PerPage > 100 {
		return fmt.Errorf("%w: per-page must be in [1,100], got %d", ErrInvalidOptions, o.PerPage)
	}
	if o.LastDays > 0 && (o.DateFrom != nil || o.DateTo != nil) {
		return fmt.Errorf("%w: last-days and explicit date bounds are mutually exclusive", ErrInvalidOptions)
	}
	if o.LastDays < 0 {
		return fmt.Errorf("%w: last-days must not be negative", ErrInvalidOptions)
	}
	if o.DateFrom != nil && o.DateTo != nil && o.DateFrom.After(*o.DateTo) {
		return fmt.Errorf("%w: date-from is after date-to", ErrInvalidOptions)
	}
	return nil
}

// Orchestrator runs the full fetch pipeline: date windows in chronological
// order, areas in supplied order within each window, pages in ascending order
// within each (area, window). Execution is strictly sequential with no
// concurrent outstanding requests.
type Orchestrator struct {
	client   *client.Client
	enricher *hh.Enricher
	opts     Options
	pacer    *ratelimit.Pacer
	logger   zerolog.Logger

	// now is stubbed in tests to pin the last-days shorthand.
	now func() time.Time
}

// New validates the options and creates an orchestrator.
func New(c *client.Client, opts Options) (*Orchestrator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &Orchestrator{
		client:   c,
		enricher: hh.NewEnricher(c),
		opts:     opts,
		pacer:    ratelimit.NewPacer(opts.Delay),
		logger:   log.With().Str("component", "fetch").Logger(),
		now:      time.Now,
	}, nil
}

// windows derives the run's date windows from the configured bounds or the
// last-days shorthand.
func (o *Orchestrator) windows() []window.Window {
	from, to := o.opts.DateFrom, o.opts.DateTo
	if o.opts.LastDays > 0 {
		from, to = window.LastDays(o.opts.LastDays, o.now())
	}
	return window.Plan(from, to, o.opts.WindowDays)
}

// Run streams every flattened row to fn and returns the number of rows
// emitted. Errors on the pagination path abort the run; detail enrichment
// failures degrade to absent detail fields for the affected record only.
// Rows reach fn before the next page is requested, so consumers see output
// as the run progresses.
func (o *Orchestrator) Run(ctx context.Context, fn func(FlatRow) error) (int, error) {
	windows := o.windows()
	driver := pagination.New(o.client, o.pacer, o.opts.MaxPages)
	detailDelay := ratelimit.DetailInterval(o.opts.Delay)

	o.logger.Info().
		Int("windows", len(windows)).
		Int("areas", len(o.opts.Areas)).
		Bool("details", o.opts.WithDetails).
		Msg("Starting fetch run")

	count := 0
	for _, w := range windows {
		for _, area := range o.opts.Areas {
			crit := pagination.SearchCriteria{
				Text:       o.opts.Text,
				Area:       area,
				DateFrom:   w.From,
				DateTo:     w.To,
				Employment: o.opts.Employment,
				Schedule:   o.opts.Schedule,
				PerPage:    o.opts.PerPage,
			}

			o.logger.Debug().
				Str("window", w.String()).
				Str("area", area).
				Msg("Fetching criteria set")

			err := driver.ForEach(ctx, crit, func(v hh.Vacancy) error {
				var detail *hh.VacancyDetail
				if o.opts.WithDetails && v.ID != "" {
					detail = o.enricher.Fetch(ctx, v.ID)
					if err := ratelimit.Sleep(ctx, detailDelay); err != nil {
						return err
					}
				}

				count++
				hhRecordsFetchedTotal.Inc()
				return fn(Flatten(v, detail))
			})
			if err != nil {
				hhFetchRunsTotal.WithLabelValues("error").Inc()
				return count, fmt.Errorf("window %s area %s: %w", w, area, err)
			}
		}
	}

	hhFetchRunsTotal.WithLabelValues("ok").Inc()
	o.logger.Info().
		Int("records", count).
		Msg("Fetch run complete")

	return count, nil
}

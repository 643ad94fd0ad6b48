// Package pagination drives serial page-by-page retrieval of the vacancies
// endpoint for one set of search criteria.
//
// The driver is an explicit state machine per criteria set:
//
//	INIT:     no request issued yet, total page count unknown
//	FETCHING: total pages captured from the first response, pages remain
//	DONE:     terminal; no further requests for this criteria set
//
// Requests are strictly sequential. A configured max-page cap is inclusive of
// the starting page, so a cap of 0 still fetches page 0. The API-reported page
// count missing from the response reads as zero, yielding an empty stream
// after exactly one request.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vacfetch/pkg/client"
	"vacfetch/pkg/hh"
	"vacfetch/pkg/ratelimit"
	"vacfetch/pkg/window"
)

// Prometheus metrics for pagination.
var (
	hhPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_pages_fetched_total",
		Help: "Total search result pages fetched",
	})

	hhMalformedPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_malformed_pages_total",
		Help: "Search responses dropped because the body could not be decoded",
	})
)

// state of one pagination run.
type state int

const (
	stateInit state = iota
	stateFetching
	stateDone
)

// SearchCriteria fixes one pagination run. Values are immutable for the
// duration of ForEach; empty criteria are omitted from the query.
type SearchCriteria struct {
	Text       string
	Area       string
	DateFrom   *time.Time
	DateTo     *time.Time
	Employment []string
	Schedule   []string
	PerPage    int
}

// queryParams encodes the criteria for one page request. Multi-valued
// filters become repeated same-named parameters.
func (c SearchCriteria) queryParams(page int) url.Values {
	v := url.Values{}
	if c.Text != "" {
		v.Set("text", c.Text)
	}
	if c.Area != "" {
		v.Set("area", c.Area)
	}
	v.Set("per_page", strconv.Itoa(c.PerPage))
	v.Set("page", strconv.Itoa(page))
	if c.DateFrom != nil {
		v.Set("date_from", c.DateFrom.Format(window.DateLayout))
	}
	if c.DateTo != nil {
		v.Set("date_to", c.DateTo.Format(window.DateLayout))
	}
	for _, e := range c.Employment {
		v.Add("employment", e)
	}
	for _, s := range c.Schedule {
		v.Add("schedule", s)
	}
	return v
}

// Driver pulls every page for a criteria set, invoking a callback per item.
type Driver struct {
	client   *client.Client
	pacer    *ratelimit.Pacer
	maxPages int
	logger   zerolog.Logger
}

// New creates a pagination driver. maxPages is an inclusive cap on the
// zero-based page index; a negative value disables the cap. The pacer is
// consulted before every page request so the delay between successive
// requests is shared with the rest of the pipeline.
func New(c *client.Client, pacer *ratelimit.Pacer, maxPages int) *Driver {
	return &Driver{
		client:   c,
		pacer:    pacer,
		maxPages: maxPages,
		logger:   log.With().Str("component", "pagination").Logger(),
	}
}

// ForEach fetches pages in ascending order and invokes fn for every item in
// the order the API returned it. A malformed response body ends the run for
// this criteria set as if the API reported zero pages. HTTP failures that
// survive the retry policy abort with the underlying error; an error from fn
// aborts immediately.
func (d *Driver) ForEach(ctx context.Context, crit SearchCriteria, fn func(hh.Vacancy) error) error {
	page := 0
	totalPages := 0
	st := stateInit

	for st != stateDone {
		if d.maxPages >= 0 && page > d.maxPages {
			d.logger.Debug().
				Str("area", crit.Area).
				Int("max_pages", d.maxPages).
				Msg("Page cap reached")
			st = stateDone
			continue
		}

		if err := d.pacer.Wait(ctx); err != nil {
			return fmt.Errorf("pacing: %w", err)
		}

		var resp hh.SearchPage
		err := d.client.GetJSON(ctx, hh.VacanciesPath, crit.queryParams(page), &resp)
		if errors.Is(err, client.ErrMalformedResponse) {
			hhMalformedPagesTotal.Inc()
			d.logger.Warn().
				Err(err).
				Str("area", crit.Area).
				Int("page", page).
				Msg("Malformed search response, treating as empty")
			return nil
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		hhPagesFetchedTotal.Inc()

		if st == stateInit {
			totalPages = resp.Pages
			st = stateFetching
			d.logger.Debug().
				Str("area", crit.Area).
				Int("total_pages", totalPages).
				Int("found", resp.Found).
				Msg("Pagination started")
		}

		for _, item := range resp.Items {
			if err := fn(item); err != nil {
				return err
			}
		}

		page++
		if page >= totalPages {
			st = stateDone
		}
	}

	return nil
}

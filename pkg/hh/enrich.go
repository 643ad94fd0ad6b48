package hh

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vacfetch/pkg/client"
)

// Prometheus metrics for detail enrichment.
var (
	hhDetailsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_details_total",
		Help: "Total per-vacancy detail requests",
	})

	hhDetailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hh_detail_failures_total",
		Help: "Detail requests that failed and degraded to an absent detail",
	})
)

// Enricher fetches the extended per-vacancy resource. Enrichment is
// best-effort and record-scoped: a failed detail fetch never aborts the run.
type Enricher struct {
	client *client.Client
	logger zerolog.Logger
}

// NewEnricher creates an Enricher on top of an API client.
func NewEnricher(c *client.Client) *Enricher {
	return &Enricher{
		client: c,
		logger: log.With().Str("component", "hh-enricher").Logger(),
	}
}

// Fetch retrieves the detail document for one vacancy. Any failure, including
// retry exhaustion, returns nil so the caller proceeds with absent detail
// fields.
func (e *Enricher) Fetch(ctx context.Context, id string) *VacancyDetail {
	hhDetailsTotal.Inc()

	var detail VacancyDetail
	if err := e.client.GetJSON(ctx, DetailPath(id), nil, &detail); err != nil {
		hhDetailFailuresTotal.Inc()
		e.logger.Warn().
			Err(err).
			Str("vacancy_id", id).
			Msg("Detail fetch failed, continuing without detail")
		return nil
	}

	return &detail
}

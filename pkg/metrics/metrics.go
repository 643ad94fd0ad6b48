// Package metrics provides the centralized Prometheus registry reference for
// the fetcher. All metrics are defined in their respective packages (client,
// pagination, hh, fetch) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the fetcher.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - hh_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - hh_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - hh_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - hh_retries_total{error_class} (Counter): Retry attempts by error class
//   - hh_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - hh_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Pagination Metrics (pkg/pagination):
//   - hh_pages_fetched_total (Counter): Search result pages fetched
//   - hh_malformed_pages_total (Counter): Responses dropped as undecodable
//
// Enrichment Metrics (pkg/hh):
//   - hh_details_total (Counter): Detail requests issued
//   - hh_detail_failures_total (Counter): Detail requests degraded to absent
//
// Run Metrics (pkg/fetch):
//   - hh_records_fetched_total (Counter): Vacancy records emitted
//   - hh_fetch_runs_total{outcome} (Counter): Runs by outcome (ok, error)
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(hh_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(hh_request_duration_seconds_bucket[5m]))
//
//   # Detail Degradation Rate
//   rate(hh_detail_failures_total[5m]) / rate(hh_details_total[5m])

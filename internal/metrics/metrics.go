// Package metrics holds the Prometheus collectors exported by the API server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_recommendations_total",
			Help: "Recommendation requests served, by strategy",
		},
		[]string{"strategy"},
	)

	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_catalog_fetches_total",
			Help: "Catalog fetches, by source and outcome (success, failure, rejected)",
		},
		[]string{"source", "outcome"},
	)

	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neighborly_catalog_fetch_duration_seconds",
			Help:    "Duration of upstream catalog fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neighborly_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_history_writes_total",
			Help: "History mutations received through the API, by log and action",
		},
		[]string{"log", "action"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_api_requests_total",
			Help: "API requests, by route pattern and status code",
		},
		[]string{"route", "status"},
	)
)

// ObserveCatalogFetch records the outcome and duration of a catalog fetch.
func ObserveCatalogFetch(source, outcome string, started time.Time) {
	CatalogFetches.WithLabelValues(source, outcome).Inc()
	CatalogFetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

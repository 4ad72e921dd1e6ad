// Package metrics holds the prometheus collectors shared by the clients, the
// cache, the aggregation engine and the gallery server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts calls to the knowledge graph and the image
	// repository, by source and outcome (ok, error, rejected).
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artists_upstream_requests_total",
			Help: "Requests made to upstream data sources",
		},
		[]string{"source", "outcome"},
	)

	// CircuitBreakerState is 0 when closed, 0.5 when half-open, 1 when open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artists_circuit_breaker_state",
			Help: "Circuit breaker state per upstream",
		},
		[]string{"name"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artists_cache_lookups_total",
			Help: "Memo cache lookups by outcome (hit, miss)",
		},
		[]string{"outcome"},
	)

	AggregateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artists_aggregate_duration_seconds",
			Help:    "Wall time of one aggregation run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)

	DisplayItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artists_display_items_total",
			Help: "Display items produced, by image origin",
		},
		[]string{"origin"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artists_http_requests_total",
			Help: "Gallery HTTP requests by route pattern and status code",
		},
		[]string{"route", "code"},
	)
)

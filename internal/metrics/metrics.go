// Package metrics provides Prometheus metrics for the search service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardledger_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Source Adapter Metrics
	SourceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_source_requests_total",
			Help: "Source adapter calls by outcome",
		},
		[]string{"source", "outcome"}, // outcome: "ok", "empty", "error", "timeout"
	)

	SourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardledger_source_duration_seconds",
			Help:    "Source adapter call latency including timeouts",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10, 20},
		},
		[]string{"source"},
	)

	SourceQuotaRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cardledger_source_quota_remaining",
			Help: "Remaining daily requests per source (-1 when unlimited)",
		},
		[]string{"source"},
	)

	WebSearchQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardledger_web_search_quota_remaining",
			Help: "Remaining web search API requests for today",
		},
	)

	WebSearchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_web_search_errors_total",
			Help: "Web search API errors by type",
		},
		[]string{"type"}, // "network", "api", "parse", "quota"
	)

	SummarizerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_summarizer_requests_total",
			Help: "Answer synthesis requests by result",
		},
		[]string{"result"}, // "success", "error", "empty"
	)

	// Cache Metrics
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_cache_lookups_total",
			Help: "Cache lookups by tier and result",
		},
		[]string{"tier", "result"}, // result: "hit", "miss", "error"
	)

	CacheWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_cache_write_failures_total",
			Help: "Failed best-effort cache writes by tier",
		},
		[]string{"tier"},
	)

	CacheEntriesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_cache_entries_expired_total",
			Help: "Expired cache rows removed by the janitor",
		},
	)

	// Aggregation Metrics
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_searches_total",
			Help: "Searches by route taken",
		},
		[]string{"route"}, // "graded", "sports", "tcg", "pokemon", "cached"
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardledger_search_results",
			Help:    "Number of products returned per search",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)

	CoverageFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_coverage_fallbacks_total",
			Help: "Generalized search fallbacks triggered by insufficient coverage",
		},
		[]string{"reason"}, // "no_results", "no_images"
	)

	DuplicatesRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_duplicates_removed_total",
			Help: "Candidates dropped by deduplication",
		},
	)
)

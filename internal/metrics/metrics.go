// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	upstreamSearchesMetricName  = "reposearcher_upstream_searches_total"
	upstreamDurationMetricName  = "reposearcher_upstream_search_duration_seconds"
	reconciledRecordsMetricName = "reposearcher_reconciled_repositories_total"
)

// Outcome labels for UpstreamSearches.
const (
	OutcomeSuccess = "success"
)

// Action labels for ReconciledRepositories.
const (
	ActionInserted = "inserted"
	ActionUpdated  = "updated"
	ActionFailed   = "failed"
)

var (
	UpstreamSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: upstreamSearchesMetricName,
		Help: "Number of GitHub repository searches by outcome (success, rate_limited, rejected_query, unavailable).",
	}, []string{"outcome"})
	UpstreamSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    upstreamDurationMetricName,
		Help:    "Latency of GitHub repository searches, including failed ones.",
		Buckets: prometheus.DefBuckets,
	})
	ReconciledRepositories = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: reconciledRecordsMetricName,
		Help: "Number of repositories reconciled into the store by action.",
	}, []string{"action"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal       *prometheus.CounterVec
	FollowUpsTotal      *prometheus.CounterVec
	OracleCalls         *prometheus.CounterVec
	FallbackExtractions prometheus.Counter
	ProviderLatency     prometheus.Histogram
	ContextsSwept       prometheus.Counter
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates metrics registered on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of flight searches by result status",
		}, []string{"status"}),
		FollowUpsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "follow_ups_total",
			Help:      "The total number of classified follow-up queries",
		}, []string{"type"}),
		OracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_calls_total",
			Help:      "Language model extraction calls by backend and outcome",
		}, []string{"backend", "outcome"}),
		FallbackExtractions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_extractions_total",
			Help:      "The total number of searches resolved by the deterministic extractor",
		}),
		ProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_seconds",
			Help:      "Time taken by the flight offers provider",
			Buckets:   prometheus.DefBuckets,
		}),
		ContextsSwept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_swept_total",
			Help:      "The total number of expired contexts deactivated by the sweeper",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

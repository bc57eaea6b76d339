// Package observability provides Prometheus metrics for the review browser.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BrowserMetrics holds all Prometheus metrics for the review interaction engine.
type BrowserMetrics struct {
	// Name resolution metrics
	NameCacheHitsTotal   prometheus.Counter
	NameCacheMissesTotal prometheus.Counter
	NameLookupsTotal     *prometheus.CounterVec

	// Stats loading metrics
	StatsFetchesTotal *prometheus.CounterVec
	StatsFetchSeconds prometheus.Histogram

	// Like toggle metrics
	LikeTogglesTotal *prometheus.CounterVec

	// Search metrics
	SearchRequestsTotal *prometheus.CounterVec
}

// DefaultBrowserMetrics creates metrics registered on the default registerer.
func DefaultBrowserMetrics() *BrowserMetrics {
	return NewBrowserMetrics(prometheus.DefaultRegisterer)
}

// NewBrowserMetrics creates a new set of browser metrics.
func NewBrowserMetrics(reg prometheus.Registerer) *BrowserMetrics {
	factory := promauto.With(reg)

	return &BrowserMetrics{
		// Name resolution metrics
		NameCacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "polybites_name_cache_hits_total",
				Help: "Author name lookups served from the cache",
			},
		),
		NameCacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "polybites_name_cache_misses_total",
				Help: "Author name lookups that required a profile fetch",
			},
		),
		NameLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polybites_name_lookups_total",
				Help: "Profile fetch outcomes for author names",
			},
			[]string{"status"},
		),

		// Stats loading metrics
		StatsFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polybites_stats_fetches_total",
				Help: "Per-id stats fetch outcomes",
			},
			[]string{"kind", "status"},
		),
		StatsFetchSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "polybites_stats_fetch_seconds",
				Help:    "Wall time of one stats batch, fan-out to fan-in",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),

		// Like toggle metrics
		LikeTogglesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polybites_like_toggles_total",
				Help: "Like toggle attempts by result",
			},
			[]string{"result"},
		),

		// Search metrics
		SearchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polybites_search_requests_total",
				Help: "Effective search executions by source",
			},
			[]string{"source"},
		),
	}
}

// Label values for LikeTogglesTotal.
const (
	ToggleResultSuccess   = "success"
	ToggleResultFailed    = "failed"
	ToggleResultDropped   = "dropped"
	ToggleResultThrottled = "throttled"
	ToggleResultSignIn    = "sign_in_required"
)

// Label values for SearchRequestsTotal.
const (
	SearchSourceLocal    = "local"
	SearchSourceRemote   = "remote"
	SearchSourceFallback = "fallback"
)

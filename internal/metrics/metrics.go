package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ComparisonMetrics groups the prometheus collectors for the rate
// aggregation core. Registered once at wiring time.
type ComparisonMetrics struct {
	ProviderFetchTotal    *prometheus.CounterVec
	ProviderFetchDuration *prometheus.HistogramVec
	CacheHitsTotal        *prometheus.CounterVec
	ComparisonsTotal      prometheus.Counter
	FallbackTotal         prometheus.Counter
}

func NewComparisonMetrics(reg prometheus.Registerer) *ComparisonMetrics {
	factory := promauto.With(reg)
	return &ComparisonMetrics{
		ProviderFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_fetch_total",
			Help: "Adapter invocations by provider and outcome (ok, error, unsupported_pair, quota_exceeded, timeout).",
		}, []string{"provider", "outcome"}),
		ProviderFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_fetch_duration_seconds",
			Help:    "Adapter invocation latency by provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_cache_hits_total",
			Help: "Cache hits by tier (memory, persistent).",
		}, []string{"tier"}),
		ComparisonsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "comparisons_total",
			Help: "Completed comparison requests.",
		}),
		FallbackTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "comparison_fallback_total",
			Help: "Requests that needed the direct fallback provider call.",
		}),
	}
}

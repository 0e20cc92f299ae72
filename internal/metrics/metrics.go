// Package metrics exposes Prometheus collectors for the scoring pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gorillagenics"

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Cache reads that returned a fresh entry.",
	}, []string{"cache"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Cache reads that found nothing usable (absent, stale, or version mismatch).",
	}, []string{"cache"})

	cacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_evictions_total",
		Help:      "Entries purged lazily on access.",
	}, []string{"cache"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_failures_total",
		Help:      "Adapter calls that errored or timed out and degraded to a fallback.",
	}, []string{"provider"})

	rankingPasses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_passes_total",
		Help:      "Completed ranking passes.",
	})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_pass_duration_seconds",
		Help:      "Wall time of a full ranking pass, adapters included.",
		Buckets:   prometheus.DefBuckets,
	})
)

func RecordCacheHit(cache string)      { cacheHits.WithLabelValues(cache).Inc() }
func RecordCacheMiss(cache string)     { cacheMisses.WithLabelValues(cache).Inc() }
func RecordCacheEviction(cache string) { cacheEvictions.WithLabelValues(cache).Inc() }

// RecordProviderFailure counts a degraded adapter call. The pipeline
// substitutes an empty result, so this is the only trace of the failure
// besides the log line.
func RecordProviderFailure(provider string) { providerFailures.WithLabelValues(provider).Inc() }

func RecordRankingPass()                   { rankingPasses.Inc() }
func ObservePassDuration(seconds float64)  { passDuration.Observe(seconds) }

// Package metrics defines confidence-engine-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine counter vectors
var (
	EstimatesComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "estimates_computed_total",
		Help:      "Total number of confidence estimates computed by category",
	}, []string{"category"})

	InsufficientHistoryTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "insufficient_history_total",
		Help:      "Total number of estimates skipped because every window was empty",
	})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "cache_hits_total",
		Help:      "Total number of window statistic cache hits",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "cache_misses_total",
		Help:      "Total number of window statistic cache misses",
	})
)

// Engine histograms
var (
	EstimateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pattern_edge",
		Name:      "estimate_duration_seconds",
		Help:      "Duration of a single confidence estimate in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
)

// Engine cache gauges
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pattern_edge",
		Name:      "cache_hit_ratio",
		Help:      "Window statistic cache hit ratio",
	})

	CacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pattern_edge",
		Name:      "cache_entries",
		Help:      "Number of entries currently held by the window statistic cache",
	})
)

// RecordEstimate records a computed confidence estimate.
func RecordEstimate(category string, durationSeconds float64) {
	EstimatesComputedTotal.WithLabelValues(category).Inc()
	EstimateDuration.Observe(durationSeconds)
}

// RecordInsufficientHistory records an estimate skipped for lack of history.
func RecordInsufficientHistory() {
	InsufficientHistoryTotal.Inc()
}

// RecordCacheHit records a window statistic cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a window statistic cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// UpdateCacheStats updates the cache gauges.
func UpdateCacheStats(hitRatio float64, entries int) {
	CacheHitRatio.Set(hitRatio)
	CacheEntries.Set(float64(entries))
}

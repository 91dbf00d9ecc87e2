// Package metrics defines data-ingestion-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion counter vectors
var (
	RecordsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "records_ingested_total",
		Help:      "Total number of match records ingested by competition",
	}, []string{"competition"})

	RecordsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "records_skipped_total",
		Help:      "Total number of source rows skipped by reason",
	}, []string{"reason"})

	IngestionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "ingestion_errors_total",
		Help:      "Total number of ingestion failures",
	})

	SeasonDownloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "season_downloads_total",
		Help:      "Total number of season CSV downloads by status",
	}, []string{"status"})
)

// Datasource gauges
var (
	CircuitBreakerOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pattern_edge",
		Name:      "datasource_circuit_breaker_open",
		Help:      "Whether the datasource circuit breaker is currently open (1) or closed (0)",
	})
)

// Ingestion histograms
var (
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pattern_edge",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of a season ingestion in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// RecordIngested records successfully ingested match records.
func RecordIngested(competition string, count int) {
	RecordsIngestedTotal.WithLabelValues(competition).Add(float64(count))
}

// RecordSkipped records source rows skipped during ingestion.
// reason should be one of: "invalid_date", "missing_column", "duplicate", "negative_count"
func RecordSkipped(reason string, count int) {
	RecordsSkippedTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordIngestionError records an ingestion failure.
func RecordIngestionError() {
	IngestionErrorsTotal.Inc()
}

// RecordIngestionDuration records how long a season ingestion took.
func RecordIngestionDuration(durationSeconds float64) {
	IngestionDuration.Observe(durationSeconds)
}

// RecordSeasonDownload records a season CSV download attempt.
// status should be one of: "success", "not_found", "failure"
func RecordSeasonDownload(status string) {
	SeasonDownloadsTotal.WithLabelValues(status).Inc()
}

// SetCircuitBreakerOpen records the datasource circuit breaker state.
func SetCircuitBreakerOpen(open bool) {
	if open {
		CircuitBreakerOpen.Set(1)
	} else {
		CircuitBreakerOpen.Set(0)
	}
}

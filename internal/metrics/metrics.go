// Package metrics provides centralized Prometheus metrics registry for the pattern engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "recommendations_total",
		Help:      "Total number of recommendations issued by category",
	}, []string{"category"})
	FixturesWithoutBetTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "fixtures_without_bet_total",
		Help:      "Total number of fixtures where no pattern qualified",
	})
	PredictionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "prediction_runs_total",
		Help:      "Total number of prediction runs by status",
	}, []string{"status"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register selection metrics
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(FixturesWithoutBetTotal)
		registry.MustRegister(PredictionRunsTotal)

		// Register engine metrics
		registry.MustRegister(EstimatesComputedTotal)
		registry.MustRegister(InsufficientHistoryTotal)
		registry.MustRegister(EstimateDuration)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheEntries)

		// Register backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(UnresolvedFixturesTotal)

		// Register ingestion metrics
		registry.MustRegister(RecordsIngestedTotal)
		registry.MustRegister(RecordsSkippedTotal)
		registry.MustRegister(IngestionErrorsTotal)
		registry.MustRegister(IngestionDuration)
		registry.MustRegister(SeasonDownloadsTotal)
		registry.MustRegister(CircuitBreakerOpen)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRecommendation records an issued recommendation.
func RecordRecommendation(category string) {
	RecommendationsTotal.WithLabelValues(category).Inc()
}

// RecordFixtureWithoutBet records a fixture where nothing qualified.
func RecordFixtureWithoutBet() {
	FixturesWithoutBetTotal.Inc()
}

// RecordPredictionRun records a prediction run event.
// status should be one of: "success", "failure"
func RecordPredictionRun(status string) {
	PredictionRunsTotal.WithLabelValues(status).Inc()
}

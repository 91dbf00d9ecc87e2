// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})

	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "bets_settled_total",
		Help:      "Total number of settled backtest bets by outcome",
	}, []string{"outcome"})

	UnresolvedFixturesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pattern_edge",
		Name:      "unresolved_fixtures_total",
		Help:      "Total number of recommendations that could not be settled",
	})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pattern_edge",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(status string) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}

// RecordBetSettled records a settled bet.
// outcome should be one of: "win", "loss"
func RecordBetSettled(outcome string) {
	BetsSettledTotal.WithLabelValues(outcome).Inc()
}

// RecordUnresolvedFixture records a recommendation that could not be settled.
func RecordUnresolvedFixture() {
	UnresolvedFixturesTotal.Inc()
}

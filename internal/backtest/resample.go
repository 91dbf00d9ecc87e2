package backtest

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/pattern-edge/internal/config"
)

// ResampleResult summarizes the bootstrap profit distribution of a run's
// settled bets.
type ResampleResult struct {
	Iterations          int                `json:"iterations"`
	MeanProfit          float64            `json:"mean_profit"`
	StdProfit           float64            `json:"std_profit"`
	Quantiles           map[string]float64 `json:"quantiles"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
}

// Resample bootstraps the settled bets: each iteration redraws the same
// number of bets with replacement and sums their flat-stake profits. A fixed
// seed reproduces the distribution exactly; a zero seed draws one from the
// clock.
func Resample(bets []SettledBet, cfg config.ResampleConfig) ResampleResult {
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 1000
	}
	result := ResampleResult{Iterations: iterations, Quantiles: map[string]float64{}}
	if len(bets) == 0 {
		return result
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	profits := make([]float64, len(bets))
	for i, bet := range bets {
		profits[i], _ = bet.Profit.Float64()
	}

	distribution := make([]float64, iterations)
	for i := 0; i < iterations; i++ {
		total := 0.0
		for range profits {
			total += profits[rng.Intn(len(profits))]
		}
		distribution[i] = total
	}

	result.MeanProfit = stat.Mean(distribution, nil)
	result.StdProfit = stat.StdDev(distribution, nil)

	sorted := append([]float64{}, distribution...)
	sort.Float64s(sorted)
	for _, q := range []struct {
		label string
		p     float64
	}{
		{"p05", 0.05},
		{"p25", 0.25},
		{"p50", 0.50},
		{"p75", 0.75},
		{"p95", 0.95},
	} {
		result.Quantiles[q.label] = percentile(sorted, q.p)
	}

	above := 0
	for _, total := range distribution {
		if total > 0 {
			above++
		}
	}
	result.ProbabilityOfProfit = float64(above) / float64(iterations)
	return result
}

// percentile reads a quantile from an already sorted distribution.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

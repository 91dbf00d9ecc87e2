package backtest

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/models"
)

// SweepRow pairs a weight profile with the result of evaluating the same
// period under it.
type SweepRow struct {
	Profile string  `json:"profile"`
	Result  *Result `json:"result"`
}

// RunSweep evaluates the period once per named profile, holding the corpus,
// patterns, risk table and selection policy fixed, and ranks the profiles by
// profit.
func RunSweep(ctx context.Context, params Params, profiles map[string]*models.WeightProfile, log *logrus.Logger) ([]SweepRow, error) {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]SweepRow, 0, len(names))
	for _, name := range names {
		p := params
		p.Profile = profiles[name]
		ev, err := NewEvaluator(p, log)
		if err != nil {
			return nil, fmt.Errorf("sweep profile %q: %w", name, err)
		}
		result, err := ev.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("sweep profile %q: %w", name, err)
		}
		rows = append(rows, SweepRow{Profile: name, Result: result})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Result.Overall.Profit.GreaterThan(rows[j].Result.Overall.Profit)
	})
	return rows, nil
}

// Package risk shades confidence estimates by how volatile each bet family
// is before they reach selection.
package risk

import (
	"fmt"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/models"
)

// Table resolves the penalty for a pattern. Lookup order: an explicit
// per-pattern penalty, then the pattern's category penalty, then the default.
type Table struct {
	defaultPenalty float64
	byPattern      map[string]float64
	byCategory     map[models.Category]float64
}

// NewTable builds the penalty table from configuration. Every penalty,
// including the default, must lie in [0, models.MaxRiskPenalty].
func NewTable(cfg *config.RiskConfig) (*Table, error) {
	if err := checkPenalty("risk.default_penalty", cfg.DefaultPenalty); err != nil {
		return nil, err
	}

	byPattern := make(map[string]float64, len(cfg.PatternPenalties))
	for name, penalty := range cfg.PatternPenalties {
		if err := checkPenalty("risk.pattern_penalties."+name, penalty); err != nil {
			return nil, err
		}
		byPattern[name] = penalty
	}

	byCategory := make(map[models.Category]float64, len(cfg.CategoryPenalties))
	for name, penalty := range cfg.CategoryPenalties {
		category := models.Category(name)
		if !category.Valid() {
			return nil, &models.ConfigError{
				Field:  "risk.category_penalties." + name,
				Reason: fmt.Sprintf("unknown category %q", name),
			}
		}
		if err := checkPenalty("risk.category_penalties."+name, penalty); err != nil {
			return nil, err
		}
		byCategory[category] = penalty
	}

	return &Table{
		defaultPenalty: cfg.DefaultPenalty,
		byPattern:      byPattern,
		byCategory:     byCategory,
	}, nil
}

func checkPenalty(field string, penalty float64) error {
	if penalty < 0 || penalty > models.MaxRiskPenalty {
		return &models.ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("must be in [0, %v], got %v", models.MaxRiskPenalty, penalty),
		}
	}
	return nil
}

// PenaltyFor returns the penalty applied to the pattern's confidence.
func (t *Table) PenaltyFor(pattern models.Pattern) float64 {
	if penalty, ok := t.byPattern[pattern.Name]; ok {
		return penalty
	}
	if penalty, ok := t.byCategory[pattern.Category]; ok {
		return penalty
	}
	return t.defaultPenalty
}

// Adjust applies the pattern's penalty to a confidence estimate. The
// risk-adjusted value is not clamped at zero; the threshold comparison is
// what decides whether the bet qualifies.
func (t *Table) Adjust(pattern models.Pattern, estimate models.ConfidenceEstimate) models.RiskAdjustedBet {
	penalty := t.PenaltyFor(pattern)
	return models.RiskAdjustedBet{
		PatternName:  pattern.Name,
		Category:     pattern.Category,
		Confidence:   estimate.Final,
		Penalty:      penalty,
		RiskAdjusted: estimate.Final - penalty,
		Threshold:    pattern.Threshold,
	}
}

// Package selection picks at most one qualifying bet per fixture.
package selection

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/logger"
	"github.com/yourusername/pattern-edge/internal/metrics"
	"github.com/yourusername/pattern-edge/internal/models"
)

// Candidate is one pattern's scored bet for a fixture, carrying the full
// estimate so the recommendation can explain itself.
type Candidate struct {
	Bet      models.RiskAdjustedBet
	Estimate models.ConfidenceEstimate
}

// Policy ranks qualifying bets and keeps the best one per fixture. Ties on
// risk-adjusted confidence break by category variance rank, then by pattern
// name, so a selection run is fully deterministic.
type Policy struct {
	varianceRank map[models.Category]int
	audit        *logger.AuditLogger
}

// NewPolicy builds the selection policy from configuration. The variance
// ranking lists categories from least to most volatile; a category missing
// from the list loses every tie.
func NewPolicy(cfg *config.SelectionConfig, baseLogger *logrus.Logger) (*Policy, error) {
	rank := make(map[models.Category]int, len(cfg.VarianceRanking))
	for i, name := range cfg.VarianceRanking {
		category := models.Category(name)
		if !category.Valid() {
			return nil, &models.ConfigError{
				Field:  "selection.variance_ranking",
				Reason: fmt.Sprintf("unknown category %q", name),
			}
		}
		if _, ok := rank[category]; ok {
			return nil, &models.ConfigError{
				Field:  "selection.variance_ranking",
				Reason: fmt.Sprintf("duplicate category %q", name),
			}
		}
		rank[category] = i
	}
	if len(rank) == 0 {
		return nil, &models.ConfigError{
			Field:  "selection.variance_ranking",
			Reason: "must list at least one category",
		}
	}

	return &Policy{
		varianceRank: rank,
		audit:        logger.NewAuditLogger(baseLogger),
	}, nil
}

// Select returns the single best qualifying candidate for the fixture, or
// nil when none clears its threshold.
func (p *Policy) Select(fixture models.Fixture, candidates []Candidate) *models.Recommendation {
	var best *Candidate
	for i := range candidates {
		if !candidates[i].Bet.Qualifies() {
			continue
		}
		if best == nil || p.better(candidates[i].Bet, best.Bet) {
			best = &candidates[i]
		}
	}

	if best == nil {
		metrics.RecordFixtureWithoutBet()
		p.audit.LogNoRecommendation(fixture.Key(), len(candidates))
		return nil
	}

	metrics.RecordRecommendation(string(best.Bet.Category))
	p.audit.LogRecommendation(
		fixture.Key(), best.Bet.PatternName, string(best.Bet.Category),
		best.Bet.Confidence, best.Bet.RiskAdjusted, best.Bet.Threshold, best.Bet.Margin(),
	)

	return &models.Recommendation{
		Fixture:  fixture,
		Bet:      best.Bet,
		Estimate: best.Estimate,
	}
}

func (p *Policy) better(a, b models.RiskAdjustedBet) bool {
	if a.RiskAdjusted != b.RiskAdjusted {
		return a.RiskAdjusted > b.RiskAdjusted
	}
	ra, rb := p.rankOf(a.Category), p.rankOf(b.Category)
	if ra != rb {
		return ra < rb
	}
	return a.PatternName < b.PatternName
}

func (p *Policy) rankOf(category models.Category) int {
	if rank, ok := p.varianceRank[category]; ok {
		return rank
	}
	return len(p.varianceRank)
}

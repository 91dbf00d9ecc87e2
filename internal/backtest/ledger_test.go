package backtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pattern-edge/internal/models"
)

func TestFlatStakeProfit(t *testing.T) {
	win := flatStakeProfit(decimal.NewFromFloat(3.8), true)
	if !win.Equal(decimal.NewFromFloat(2.8)) {
		t.Errorf("win at 3.8: got %s, want 2.8", win)
	}

	loss := flatStakeProfit(decimal.NewFromFloat(3.8), false)
	if !loss.Equal(decimal.NewFromInt(-1)) {
		t.Errorf("loss: got %s, want -1", loss)
	}
}

func TestSettleBet(t *testing.T) {
	pattern := models.Pattern{
		Name:     "over_2_5_goals",
		Category: models.CategoryGoals,
		Predicate: func(m models.MatchRecord) bool {
			return m.Stat(models.StatHomeGoals)+m.Stat(models.StatAwayGoals) > 2.5
		},
		Threshold:   0.65,
		MinSample7:  1,
		MinSample30: 1,
		Requires:    []string{models.StatHomeGoals, models.StatAwayGoals},
	}
	odds, err := models.NewNominalOdds(map[string]float64{"over_2_5_goals": 2.2}, 2.0)
	if err != nil {
		t.Fatalf("odds: %v", err)
	}

	record := models.NewMatchRecord("premier_league",
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), "Arsenal", "Chelsea",
		map[string]float64{models.StatHomeGoals: 2, models.StatAwayGoals: 1})
	rec := models.Recommendation{
		Fixture: record.Fixture(),
		Bet: models.RiskAdjustedBet{
			PatternName:  "over_2_5_goals",
			Category:     models.CategoryGoals,
			Confidence:   0.72,
			RiskAdjusted: 0.66,
			Threshold:    0.65,
		},
	}

	bet := settleBet(pattern, record, rec, odds)

	if !bet.Won {
		t.Error("three goals should settle over 2.5 as won")
	}
	if !bet.Odds.Equal(decimal.NewFromFloat(2.2)) {
		t.Errorf("odds: got %s, want 2.2", bet.Odds)
	}
	if !bet.Profit.Equal(decimal.NewFromFloat(1.2)) {
		t.Errorf("profit: got %s, want 1.2", bet.Profit)
	}
	if bet.Month() != "2024-01" {
		t.Errorf("month: got %q, want 2024-01", bet.Month())
	}

	// A goalless draw loses the unit.
	blank := models.NewMatchRecord("premier_league",
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), "Everton", "Fulham",
		map[string]float64{models.StatHomeGoals: 0, models.StatAwayGoals: 0})
	lost := settleBet(pattern, blank, rec, odds)
	if lost.Won {
		t.Error("goalless draw should settle over 2.5 as lost")
	}
	if !lost.Profit.Equal(decimal.NewFromInt(-1)) {
		t.Errorf("loss profit: got %s, want -1", lost.Profit)
	}
}

func TestSettleBetFallbackOdds(t *testing.T) {
	pattern := models.Pattern{
		Name:     "home_clean_sheet",
		Category: models.CategoryGoals,
		Predicate: func(m models.MatchRecord) bool {
			return m.Stat(models.StatAwayGoals) == 0
		},
		Threshold:   0.65,
		MinSample7:  1,
		MinSample30: 1,
		Requires:    []string{models.StatAwayGoals},
	}
	odds, err := models.NewNominalOdds(nil, 2.0)
	if err != nil {
		t.Fatalf("odds: %v", err)
	}

	record := models.NewMatchRecord("premier_league",
		time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), "Arsenal", "Chelsea",
		map[string]float64{models.StatAwayGoals: 0})
	rec := models.Recommendation{Fixture: record.Fixture(), Bet: models.RiskAdjustedBet{PatternName: "home_clean_sheet"}}

	bet := settleBet(pattern, record, rec, odds)
	if !bet.Odds.Equal(decimal.NewFromFloat(2.0)) {
		t.Errorf("fallback odds: got %s, want 2.0", bet.Odds)
	}
	if !bet.Profit.Equal(decimal.NewFromInt(1)) {
		t.Errorf("profit at evens-plus fallback: got %s, want 1", bet.Profit)
	}
}

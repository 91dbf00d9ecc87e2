package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/pattern-edge/internal/models"
)

func settledBet(date time.Time, pattern string, category models.Category, won bool, odds float64) SettledBet {
	price := decimal.NewFromFloat(odds)
	return SettledBet{
		Fixture: models.Fixture{
			Competition: "serie_a",
			Date:        models.Day(date),
			HomeTeam:    "Home",
			AwayTeam:    "Away",
		},
		PatternName: pattern,
		Category:    category,
		Odds:        price,
		Won:         won,
		Profit:      flatStakeProfit(price, won),
	}
}

func TestTallyMath(t *testing.T) {
	tally := Tally{}
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	tally.add(settledBet(day, "draw", models.CategoryResult, true, 3.0))
	tally.add(settledBet(day, "draw", models.CategoryResult, false, 3.0))
	tally.add(settledBet(day, "draw", models.CategoryResult, false, 3.0))

	if tally.Bets != 3 || tally.Wins != 1 || tally.Losses() != 2 {
		t.Errorf("counts: got bets=%d wins=%d losses=%d", tally.Bets, tally.Wins, tally.Losses())
	}
	if math.Abs(tally.WinRate()-1.0/3.0) > 1e-9 {
		t.Errorf("win rate: got %v", tally.WinRate())
	}
	// +2 for the win, -2 for the losses.
	if !tally.Profit.Equal(decimal.Zero) {
		t.Errorf("profit: got %s, want 0", tally.Profit)
	}
	if tally.ROI() != 0 {
		t.Errorf("roi: got %v, want 0", tally.ROI())
	}
}

func TestMonthlySlicesOrdered(t *testing.T) {
	bets := []SettledBet{
		settledBet(time.Date(2023, 9, 16, 0, 0, 0, 0, time.UTC), "home_win", models.CategoryResult, true, 2.0),
		settledBet(time.Date(2023, 8, 12, 0, 0, 0, 0, time.UTC), "home_win", models.CategoryResult, false, 2.0),
		settledBet(time.Date(2023, 9, 23, 0, 0, 0, 0, time.UTC), "home_win", models.CategoryResult, true, 2.0),
	}

	months := monthlySlices(bets)
	if len(months) != 2 {
		t.Fatalf("months: got %d, want 2", len(months))
	}
	if months[0].Month != "2023-08" || months[1].Month != "2023-09" {
		t.Errorf("month order: got %s, %s", months[0].Month, months[1].Month)
	}
	if months[0].Bets != 1 || months[1].Bets != 2 {
		t.Errorf("month counts: got %d and %d", months[0].Bets, months[1].Bets)
	}
	if months[1].Wins != 2 {
		t.Errorf("september wins: got %d, want 2", months[1].Wins)
	}
}

func TestProfitFactor(t *testing.T) {
	if got := profitFactor(decimal.NewFromInt(6), decimal.NewFromInt(3)); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("profit factor: got %v, want 2", got)
	}
	if got := profitFactor(decimal.NewFromInt(5), decimal.Zero); got != 999 {
		t.Errorf("no losses: got %v, want capped 999", got)
	}
	if got := profitFactor(decimal.Zero, decimal.Zero); got != 0 {
		t.Errorf("no bets: got %v, want 0", got)
	}
}

func TestFinalizeStatistics(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	result := newResult(uuid.Nil, "serie_a", "balanced", day, day)
	result.fold(dayOutcome{
		date:     day,
		fixtures: 2,
		settled: []SettledBet{
			settledBet(day, "btts", models.CategoryGoals, true, 2.0),
			settledBet(day, "btts", models.CategoryGoals, false, 2.0),
		},
	})
	result.finalize(time.Second)

	// Per-bet profits are +1 and -1.
	if math.Abs(result.MeanProfit) > 1e-9 {
		t.Errorf("mean profit: got %v, want 0", result.MeanProfit)
	}
	if math.Abs(result.StdProfit-math.Sqrt2) > 1e-9 {
		t.Errorf("std profit: got %v, want sqrt(2)", result.StdProfit)
	}
	if math.Abs(result.ProfitFactor-1.0) > 1e-9 {
		t.Errorf("profit factor: got %v, want 1", result.ProfitFactor)
	}
}

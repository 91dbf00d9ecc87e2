package backtest

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/pattern-edge/internal/models"
)

func curveFixture() EquityCurve {
	day1 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	bets := []SettledBet{
		settledBet(day1, "over_2_5_goals", models.CategoryGoals, true, 2.0),
		settledBet(day1, "over_7_5_corners", models.CategoryCorners, true, 3.0),
		settledBet(day2, "over_2_5_goals", models.CategoryGoals, false, 2.0),
		settledBet(day2, "over_7_5_corners", models.CategoryCorners, false, 3.0),
		settledBet(day3, "over_2_5_goals", models.CategoryGoals, true, 2.5),
	}
	return buildEquityCurve(bets)
}

func TestBuildEquityCurve(t *testing.T) {
	curve := curveFixture()
	if len(curve) != 3 {
		t.Fatalf("points: got %d, want 3", len(curve))
	}

	want := []EquityPoint{
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), DailyProfit: 3, Cumulative: 3, Drawdown: 0},
		{Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), DailyProfit: -2, Cumulative: 1, Drawdown: 2},
		{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), DailyProfit: 1.5, Cumulative: 2.5, Drawdown: 0.5},
	}
	for i, p := range curve {
		if !p.Date.Equal(want[i].Date) {
			t.Errorf("point %d date: got %s, want %s", i, p.Date, want[i].Date)
		}
		if math.Abs(p.DailyProfit-want[i].DailyProfit) > 1e-9 {
			t.Errorf("point %d daily: got %v, want %v", i, p.DailyProfit, want[i].DailyProfit)
		}
		if math.Abs(p.Cumulative-want[i].Cumulative) > 1e-9 {
			t.Errorf("point %d cumulative: got %v, want %v", i, p.Cumulative, want[i].Cumulative)
		}
		if math.Abs(p.Drawdown-want[i].Drawdown) > 1e-9 {
			t.Errorf("point %d drawdown: got %v, want %v", i, p.Drawdown, want[i].Drawdown)
		}
	}

	if buildEquityCurve(nil) != nil {
		t.Error("empty bet list should produce no curve")
	}
}

func TestEquityCurveNegativeLedger(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	curve := buildEquityCurve([]SettledBet{
		settledBet(day, "draw", models.CategoryResult, false, 3.4),
	})
	if len(curve) != 1 {
		t.Fatalf("points: got %d, want 1", len(curve))
	}
	// The ledger opens at zero, so the opening loss is all drawdown.
	if math.Abs(curve[0].Cumulative+1) > 1e-9 {
		t.Errorf("cumulative: got %v, want -1", curve[0].Cumulative)
	}
	if math.Abs(curve[0].Drawdown-1) > 1e-9 {
		t.Errorf("drawdown: got %v, want 1", curve[0].Drawdown)
	}
}

func TestEquityCurveMaxDrawdown(t *testing.T) {
	curve := curveFixture()
	if got := curve.MaxDrawdown(); math.Abs(got-2) > 1e-9 {
		t.Errorf("max drawdown: got %v, want 2", got)
	}
	if got := (EquityCurve{}).MaxDrawdown(); got != 0 {
		t.Errorf("empty curve: got %v, want 0", got)
	}
}

func TestEquityCurveVolatility(t *testing.T) {
	curve := curveFixture()
	// Daily profits are +3, -2 and +1.5.
	want := math.Sqrt(79.0 / 12.0)
	if got := curve.Volatility(); math.Abs(got-want) > 1e-9 {
		t.Errorf("volatility: got %v, want %v", got, want)
	}
	if got := curve[:1].Volatility(); got != 0 {
		t.Errorf("single point: got %v, want 0", got)
	}
}

func TestEquityCurveToCSV(t *testing.T) {
	csv := curveFixture().ToCSV()
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines: got %d, want 4", len(lines))
	}
	if lines[0] != "date,daily_profit,cumulative,drawdown" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "2024-03-02,3.0000,3.0000,0.0000" {
		t.Errorf("first row: got %q", lines[1])
	}
	if lines[2] != "2024-03-03,-2.0000,1.0000,2.0000" {
		t.Errorf("second row: got %q", lines[2])
	}
	if lines[3] != "2024-03-05,1.5000,2.5000,0.5000" {
		t.Errorf("third row: got %q", lines[3])
	}
}

func TestEquityCurveToJSON(t *testing.T) {
	curve := curveFixture()

	var decoded EquityCurve
	if err := json.Unmarshal([]byte(curve.ToJSON()), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(curve) {
		t.Fatalf("points: got %d, want %d", len(decoded), len(curve))
	}
	for i := range curve {
		if math.Abs(decoded[i].Cumulative-curve[i].Cumulative) > 1e-9 {
			t.Errorf("point %d cumulative: got %v, want %v", i, decoded[i].Cumulative, curve[i].Cumulative)
		}
	}
}

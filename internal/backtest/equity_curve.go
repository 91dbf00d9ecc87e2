package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/pattern-edge/internal/models"
)

// EquityPoint is the flat-stake ledger at the close of one evaluation date.
// Cumulative and drawdown are measured in stake units, not ratios: the
// ledger starts at zero and may go negative.
type EquityPoint struct {
	Date        time.Time `json:"date"`
	DailyProfit float64   `json:"daily_profit"`
	Cumulative  float64   `json:"cumulative"`
	Drawdown    float64   `json:"drawdown"`
}

// EquityCurve is the date-ordered series of ledger states.
type EquityCurve []EquityPoint

// buildEquityCurve folds date-ordered settled bets into one point per date
// that settled at least one bet.
func buildEquityCurve(bets []SettledBet) EquityCurve {
	if len(bets) == 0 {
		return nil
	}

	var curve EquityCurve
	cumulative := decimal.Zero
	peak := 0.0
	i := 0
	for i < len(bets) {
		date := models.Day(bets[i].Fixture.Date)
		daily := decimal.Zero
		for i < len(bets) && models.Day(bets[i].Fixture.Date).Equal(date) {
			daily = daily.Add(bets[i].Profit)
			i++
		}
		cumulative = cumulative.Add(daily)

		value, _ := cumulative.Float64()
		if value > peak {
			peak = value
		}
		dailyProfit, _ := daily.Float64()
		curve = append(curve, EquityPoint{
			Date:        date,
			DailyProfit: dailyProfit,
			Cumulative:  value,
			Drawdown:    peak - value,
		})
	}
	return curve
}

// MaxDrawdown returns the deepest peak-to-trough fall in stake units.
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	for _, p := range e {
		if p.Drawdown > maxDD {
			maxDD = p.Drawdown
		}
	}
	return maxDD
}

// Volatility returns the standard deviation of daily profits.
func (e EquityCurve) Volatility() float64 {
	if len(e) < 2 {
		return 0
	}
	daily := make([]float64, len(e))
	for i, p := range e {
		daily[i] = p.DailyProfit
	}
	return stat.StdDev(daily, nil)
}

// ToCSV exports the curve as a CSV string.
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("date,daily_profit,cumulative,drawdown\n")
	for _, point := range e {
		buf.WriteString(point.Date.Format("2006-01-02"))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.DailyProfit))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Cumulative))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the curve as a JSON string.
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

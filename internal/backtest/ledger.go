package backtest

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/pattern-edge/internal/models"
)

var (
	one   = decimal.NewFromInt(1)
	stake = decimal.NewFromInt(1)
)

// SettledBet is one recommendation judged against its fixture's final
// statistics, with the flat-stake profit it produced.
type SettledBet struct {
	Fixture      models.Fixture  `json:"fixture"`
	PatternName  string          `json:"pattern_name"`
	Category     models.Category `json:"category"`
	Confidence   float64         `json:"confidence"`
	RiskAdjusted float64         `json:"risk_adjusted"`
	Odds         decimal.Decimal `json:"odds"`
	Won          bool            `json:"won"`
	Profit       decimal.Decimal `json:"profit"`
}

// Month returns the calendar month the bet settles into.
func (b SettledBet) Month() string {
	return b.Fixture.Date.Format("2006-01")
}

// flatStakeProfit prices one unit staked at the given decimal odds: a win
// returns odds minus one units, a loss costs the unit.
func flatStakeProfit(odds decimal.Decimal, won bool) decimal.Decimal {
	if won {
		return odds.Sub(one).Mul(stake)
	}
	return stake.Neg()
}

// settleBet judges a recommendation against the completed fixture record and
// prices it from the nominal odds table.
func settleBet(pattern models.Pattern, record models.MatchRecord, rec models.Recommendation, odds *models.NominalOdds) SettledBet {
	price := odds.Price(pattern.Name)
	won := pattern.Predicate(record)
	return SettledBet{
		Fixture:      rec.Fixture,
		PatternName:  rec.Bet.PatternName,
		Category:     rec.Bet.Category,
		Confidence:   rec.Bet.Confidence,
		RiskAdjusted: rec.Bet.RiskAdjusted,
		Odds:         price,
		Won:          won,
		Profit:       flatStakeProfit(price, won),
	}
}

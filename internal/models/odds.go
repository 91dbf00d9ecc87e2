package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NominalOdds maps pattern names to the fixed decimal odds the evaluator's
// flat-stake ledger pays out at. These are configuration, not live market
// prices: the ledger measures pattern quality, not realizable returns.
type NominalOdds struct {
	prices   map[string]decimal.Decimal
	fallback decimal.Decimal
}

// NewNominalOdds validates and builds an odds table. Every price, including
// the fallback, must exceed 1.0 (decimal odds include the returned stake).
func NewNominalOdds(prices map[string]float64, fallback float64) (*NominalOdds, error) {
	if fallback <= 1 {
		return nil, &ConfigError{
			Field:  "odds.default",
			Reason: fmt.Sprintf("decimal odds must exceed 1.0, got %v", fallback),
		}
	}
	table := make(map[string]decimal.Decimal, len(prices))
	for pattern, price := range prices {
		if price <= 1 {
			return nil, &ConfigError{
				Field:  fmt.Sprintf("odds.%s", pattern),
				Reason: fmt.Sprintf("decimal odds must exceed 1.0, got %v", price),
			}
		}
		table[pattern] = decimal.NewFromFloat(price)
	}
	return &NominalOdds{prices: table, fallback: decimal.NewFromFloat(fallback)}, nil
}

// Price returns the odds for a pattern, falling back to the default price
// for patterns without an explicit entry.
func (o *NominalOdds) Price(pattern string) decimal.Decimal {
	if price, ok := o.prices[pattern]; ok {
		return price
	}
	return o.fallback
}

// ImpliedProbability returns 1/odds for a pattern's nominal price.
func (o *NominalOdds) ImpliedProbability(pattern string) float64 {
	price, _ := o.Price(pattern).Float64()
	if price <= 0 {
		return 0
	}
	return 1.0 / price
}

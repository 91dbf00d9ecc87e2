package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EvaluationResult is the persisted summary of one walk-forward run.
type EvaluationResult struct {
	ID           uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Competition  string          `db:"competition" json:"competition" validate:"required"`
	Profile      string          `db:"profile" json:"profile" validate:"required"`
	StartDate    time.Time       `db:"start_date" json:"start_date" validate:"required"`
	EndDate      time.Time       `db:"end_date" json:"end_date" validate:"required"`
	Fixtures     int             `db:"fixtures" json:"fixtures"`
	Bets         int             `db:"bets" json:"bets"`
	Wins         int             `db:"wins" json:"wins"`
	Unresolved   int             `db:"unresolved" json:"unresolved"`
	WinRate      float64         `db:"win_rate" json:"win_rate"`
	Profit       decimal.Decimal `db:"profit" json:"profit"`
	ROI          float64         `db:"roi" json:"roi"`
	MaxDrawdown  float64         `db:"max_drawdown" json:"max_drawdown"`
	ProfitFactor float64         `db:"profit_factor" json:"profit_factor"`
	PatternStats json.RawMessage `db:"pattern_stats" json:"pattern_stats"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Losses returns the number of settled losing bets.
func (r *EvaluationResult) Losses() int {
	return r.Bets - r.Wins
}

// Profitable reports whether the run ended above a flat-stake break-even.
func (r *EvaluationResult) Profitable() bool {
	return r.Profit.IsPositive()
}

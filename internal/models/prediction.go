package models

import (
	"time"

	"github.com/google/uuid"
)

// PatternPrediction is a persisted recommendation for a fixture, written by
// the prediction service and the daily sweep.
type PatternPrediction struct {
	ID           uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Competition  string    `db:"competition" json:"competition" validate:"required"`
	MatchDate    time.Time `db:"match_date" json:"match_date" validate:"required"`
	HomeTeam     string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam     string    `db:"away_team" json:"away_team" validate:"required"`
	PatternName  string    `db:"pattern_name" json:"pattern_name" validate:"required"`
	Category     Category  `db:"category" json:"category" validate:"required"`
	Confidence   float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	RiskAdjusted float64   `db:"risk_adjusted" json:"risk_adjusted"`
	Threshold    float64   `db:"threshold" json:"threshold" validate:"gt=0,lte=1"`
	Margin       float64   `db:"margin" json:"margin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewPatternPrediction flattens a recommendation into its persisted form.
func NewPatternPrediction(rec Recommendation) *PatternPrediction {
	return &PatternPrediction{
		ID:           uuid.New(),
		Competition:  rec.Fixture.Competition,
		MatchDate:    rec.Fixture.Date,
		HomeTeam:     rec.Fixture.HomeTeam,
		AwayTeam:     rec.Fixture.AwayTeam,
		PatternName:  rec.Bet.PatternName,
		Category:     rec.Bet.Category,
		Confidence:   rec.Bet.Confidence,
		RiskAdjusted: rec.Bet.RiskAdjusted,
		Threshold:    rec.Bet.Threshold,
		Margin:       rec.Bet.Margin(),
		CreatedAt:    time.Now().UTC(),
	}
}

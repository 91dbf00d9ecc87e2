package models

// MaxRiskPenalty caps every configured risk penalty. Anything larger would
// dominate the confidence signal instead of shading it.
const MaxRiskPenalty = 0.10

// RiskAdjustedBet is a pattern's confidence after the category risk penalty,
// paired with the threshold it must clear.
type RiskAdjustedBet struct {
	PatternName  string   `json:"pattern_name"`
	Category     Category `json:"category"`
	Confidence   float64  `json:"confidence"`
	Penalty      float64  `json:"penalty"`
	RiskAdjusted float64  `json:"risk_adjusted"`
	Threshold    float64  `json:"threshold"`
}

// Margin is the distance between the risk-adjusted confidence and the
// threshold. Non-negative margins qualify.
func (b RiskAdjustedBet) Margin() float64 {
	return b.RiskAdjusted - b.Threshold
}

// Qualifies reports whether the bet meets or exceeds its threshold.
func (b RiskAdjustedBet) Qualifies() bool {
	return b.RiskAdjusted >= b.Threshold
}

// Recommendation is the single bet the selection policy picked for a
// fixture. A fixture with no qualifying pattern has no recommendation.
type Recommendation struct {
	Fixture  Fixture            `json:"fixture"`
	Bet      RiskAdjustedBet    `json:"bet"`
	Estimate ConfidenceEstimate `json:"estimate"`
}

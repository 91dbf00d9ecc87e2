package backtest

import (
	"time"

	"github.com/yourusername/pattern-edge/internal/models"
)

// phase is one step of the walk-forward cycle. Every evaluation date moves
// through advance, predict, settle and aggregate in that order; the run is
// done when advance finds no further date with a completed fixture.
type phase int

const (
	phaseAdvance phase = iota
	phasePredict
	phaseSettle
	phaseAggregate
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseAdvance:
		return "ADVANCE"
	case phasePredict:
		return "PREDICT"
	case phaseSettle:
		return "SETTLE"
	case phaseAggregate:
		return "AGGREGATE"
	case phaseDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// pendingBet is a recommendation waiting to be settled against the fixture's
// now-known statistics.
type pendingBet struct {
	record models.MatchRecord
	rec    models.Recommendation
}

// dayOutcome is the partial result of one evaluation date. Outcomes are
// independent of each other and fold into the run result in date order.
type dayOutcome struct {
	date       time.Time
	fixtures   int
	noBet      int
	unresolved int
	pending    []pendingBet
	settled    []SettledBet
}

package backtest

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/pattern-edge/internal/models"
)

// Tally accumulates win/bet counts and flat-stake profit for one grouping.
type Tally struct {
	Bets   int             `json:"bets"`
	Wins   int             `json:"wins"`
	Profit decimal.Decimal `json:"profit"`
}

// Losses returns the number of settled losing bets.
func (t Tally) Losses() int {
	return t.Bets - t.Wins
}

// WinRate returns the fraction of settled bets won.
func (t Tally) WinRate() float64 {
	if t.Bets == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Bets)
}

// ROI returns profit per unit staked.
func (t Tally) ROI() float64 {
	if t.Bets == 0 {
		return 0
	}
	profit, _ := t.Profit.Float64()
	return profit / float64(t.Bets)
}

func (t *Tally) add(bet SettledBet) {
	t.Bets++
	if bet.Won {
		t.Wins++
	}
	t.Profit = t.Profit.Add(bet.Profit)
}

// MonthSlice is the tally for one calendar month of the evaluation period.
type MonthSlice struct {
	Month string `json:"month"`
	Tally
}

// Result is the aggregated outcome of one walk-forward run.
type Result struct {
	RunID       uuid.UUID                  `json:"run_id"`
	Competition string                     `json:"competition"`
	Profile     string                     `json:"profile"`
	Start       time.Time                  `json:"start_date"`
	End         time.Time                  `json:"end_date"`
	Fixtures    int                        `json:"fixtures"`
	NoBet       int                        `json:"fixtures_without_bet"`
	Unresolved  int                        `json:"unresolved"`
	Overall     Tally                      `json:"overall"`
	ByPattern   map[string]*Tally          `json:"by_pattern"`
	ByCategory  map[models.Category]*Tally `json:"by_category"`
	Months      []MonthSlice               `json:"months"`
	Bets        []SettledBet               `json:"settled_bets"`
	Equity      EquityCurve                `json:"equity_curve"`

	MeanProfit   float64       `json:"mean_profit"`
	StdProfit    float64       `json:"std_profit"`
	ProfitFactor float64       `json:"profit_factor"`
	MaxDrawdown  float64       `json:"max_drawdown"`
	Elapsed      time.Duration `json:"-"`
}

func newResult(runID uuid.UUID, competition, profile string, start, end time.Time) *Result {
	return &Result{
		RunID:       runID,
		Competition: competition,
		Profile:     profile,
		Start:       start,
		End:         end,
		ByPattern:   make(map[string]*Tally),
		ByCategory:  make(map[models.Category]*Tally),
	}
}

// fold merges one day's outcome into the running result. Callers fold
// outcomes in date order so the bet list and equity curve stay chronological.
func (r *Result) fold(outcome dayOutcome) {
	r.Fixtures += outcome.fixtures
	r.NoBet += outcome.noBet
	r.Unresolved += outcome.unresolved
	for _, bet := range outcome.settled {
		r.Overall.add(bet)
		tallyFor(r.ByPattern, bet.PatternName).add(bet)
		tallyFor(r.ByCategory, bet.Category).add(bet)
		r.Bets = append(r.Bets, bet)
	}
}

// finalize derives the summary statistics once every outcome is folded.
func (r *Result) finalize(elapsed time.Duration) {
	r.Elapsed = elapsed
	r.Months = monthlySlices(r.Bets)
	r.Equity = buildEquityCurve(r.Bets)
	r.MaxDrawdown = r.Equity.MaxDrawdown()

	profits := make([]float64, len(r.Bets))
	grossWin := decimal.Zero
	grossLoss := decimal.Zero
	for i, bet := range r.Bets {
		profits[i], _ = bet.Profit.Float64()
		if bet.Profit.IsPositive() {
			grossWin = grossWin.Add(bet.Profit)
		} else {
			grossLoss = grossLoss.Sub(bet.Profit)
		}
	}
	switch len(profits) {
	case 0:
	case 1:
		r.MeanProfit = profits[0]
	default:
		r.MeanProfit, r.StdProfit = stat.MeanStdDev(profits, nil)
	}
	r.ProfitFactor = profitFactor(grossWin, grossLoss)
}

// Record flattens the result into its persisted form.
func (r *Result) Record() (*models.EvaluationResult, error) {
	patternStats, err := json.Marshal(r.ByPattern)
	if err != nil {
		return nil, fmt.Errorf("marshal pattern stats: %w", err)
	}
	return &models.EvaluationResult{
		ID:           r.RunID,
		Competition:  r.Competition,
		Profile:      r.Profile,
		StartDate:    r.Start,
		EndDate:      r.End,
		Fixtures:     r.Fixtures,
		Bets:         r.Overall.Bets,
		Wins:         r.Overall.Wins,
		Unresolved:   r.Unresolved,
		WinRate:      r.Overall.WinRate(),
		Profit:       r.Overall.Profit,
		ROI:          r.Overall.ROI(),
		MaxDrawdown:  r.MaxDrawdown,
		ProfitFactor: r.ProfitFactor,
		PatternStats: patternStats,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func tallyFor[K comparable](m map[K]*Tally, key K) *Tally {
	if t, ok := m[key]; ok {
		return t
	}
	t := &Tally{}
	m[key] = t
	return t
}

func monthlySlices(bets []SettledBet) []MonthSlice {
	if len(bets) == 0 {
		return nil
	}
	byMonth := make(map[string]*Tally)
	for _, bet := range bets {
		tallyFor(byMonth, bet.Month()).add(bet)
	}
	months := make([]MonthSlice, 0, len(byMonth))
	for month, tally := range byMonth {
		months = append(months, MonthSlice{Month: month, Tally: *tally})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// profitFactor caps at 999 when the run has no losing bets so the value
// stays JSON-encodable.
func profitFactor(grossWin, grossLoss decimal.Decimal) float64 {
	if grossLoss.IsZero() {
		if grossWin.IsPositive() {
			return 999
		}
		return 0
	}
	ratio, _ := grossWin.Div(grossLoss).Float64()
	return ratio
}

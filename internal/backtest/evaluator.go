// Package backtest replays the corpus date by date, predicting each fixture
// from strictly prior history and settling against the now-known outcomes.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/corpus"
	"github.com/yourusername/pattern-edge/internal/engine"
	"github.com/yourusername/pattern-edge/internal/logger"
	"github.com/yourusername/pattern-edge/internal/metrics"
	"github.com/yourusername/pattern-edge/internal/models"
	"github.com/yourusername/pattern-edge/internal/patterns"
	"github.com/yourusername/pattern-edge/internal/risk"
	"github.com/yourusername/pattern-edge/internal/selection"
)

const maxWorkers = 64

// Params wires an evaluator. Corpus, registry, engine, risk table, policy
// and odds are required. Competition filters the corpus before the run;
// Profile pins every estimate to one weight profile, which sweep runs use to
// hold everything else fixed.
type Params struct {
	Corpus      *corpus.Corpus
	Registry    *patterns.Registry
	Engine      *engine.Engine
	Risk        *risk.Table
	Policy      *selection.Policy
	Odds        *models.NominalOdds
	Competition string
	Start       time.Time
	End         time.Time
	Workers     int
	Profile     *models.WeightProfile
}

// Evaluator walks the evaluation period one fixture date at a time. Dates
// are independent units: predictions only ever see history strictly before
// their date, so fixtures on the same day are mutually invisible.
type Evaluator struct {
	params Params
	corpus *corpus.Corpus
	log    *logrus.Logger
	audit  *logger.AuditLogger
}

// NewEvaluator validates the wiring and pre-filters the corpus.
func NewEvaluator(params Params, log *logrus.Logger) (*Evaluator, error) {
	if params.Corpus == nil {
		return nil, fmt.Errorf("corpus is required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("pattern registry is required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if params.Risk == nil {
		return nil, fmt.Errorf("risk table is required")
	}
	if params.Policy == nil {
		return nil, fmt.Errorf("selection policy is required")
	}
	if params.Odds == nil {
		return nil, fmt.Errorf("nominal odds table is required")
	}
	if params.End.Before(params.Start) {
		return nil, fmt.Errorf("evaluation end %s is before start %s",
			params.End.Format("2006-01-02"), params.Start.Format("2006-01-02"))
	}
	if params.Workers <= 0 {
		params.Workers = 1
	}
	if params.Workers > maxWorkers {
		params.Workers = maxWorkers
	}
	if log == nil {
		log = logrus.New()
	}

	c := params.Corpus
	if params.Competition != "" {
		c = c.FilterCompetition(params.Competition)
	}

	return &Evaluator{
		params: params,
		corpus: c,
		log:    log,
		audit:  logger.NewAuditLogger(log),
	}, nil
}

// Run executes the walk-forward cycle over every date in the period that has
// at least one completed fixture and returns the aggregated result.
func (ev *Evaluator) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := uuid.New()
	dates := ev.corpus.FixtureDatesBetween(ev.params.Start, ev.params.End)

	ev.log.WithFields(logrus.Fields{
		"run_id":      runID,
		"competition": ev.competitionLabel(),
		"profile":     ev.profileName(),
		"start":       ev.params.Start.Format("2006-01-02"),
		"end":         ev.params.End.Format("2006-01-02"),
		"dates":       len(dates),
		"workers":     ev.params.Workers,
	}).Info("Starting walk-forward evaluation")

	result := newResult(runID, ev.competitionLabel(), ev.profileName(), ev.params.Start, ev.params.End)

	var err error
	if ev.params.Workers > 1 && len(dates) > 1 {
		err = ev.runParallel(ctx, dates, result)
	} else {
		err = ev.runSequential(ctx, dates, result)
	}
	if err != nil {
		metrics.RecordBacktestRun("failure")
		return nil, err
	}

	result.finalize(time.Since(started))
	metrics.RecordBacktestRun("success")
	metrics.RecordBacktestDuration(result.Elapsed.Seconds())
	ev.audit.LogEvaluationRun(
		runID.String(), result.Competition, result.Profile,
		result.Start, result.End,
		result.Overall.Bets, result.Overall.WinRate(), result.Overall.Profit.StringFixed(2),
	)
	return result, nil
}

// runSequential drives the explicit phase machine: advance to the next
// fixture date, predict its fixtures, settle the recommendations, fold the
// outcome, repeat until no dates remain.
func (ev *Evaluator) runSequential(ctx context.Context, dates []time.Time, result *Result) error {
	cursor := 0
	state := phaseAdvance
	var outcome dayOutcome

	for state != phaseDone {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("evaluation aborted in %s: %w", state, err)
		}
		switch state {
		case phaseAdvance:
			if cursor >= len(dates) {
				state = phaseDone
				continue
			}
			outcome = dayOutcome{date: dates[cursor]}
			cursor++
			state = phasePredict
		case phasePredict:
			if err := ev.predict(&outcome); err != nil {
				return err
			}
			state = phaseSettle
		case phaseSettle:
			if err := ev.settle(&outcome); err != nil {
				return err
			}
			state = phaseAggregate
		case phaseAggregate:
			result.fold(outcome)
			state = phaseAdvance
		}
	}
	return nil
}

// runParallel runs the same predict/settle cycle per date across a worker
// pool. Outcomes land in a slice indexed by date and fold in date order, so
// the result is identical to a sequential run.
func (ev *Evaluator) runParallel(ctx context.Context, dates []time.Time, result *Result) error {
	outcomes := make([]dayOutcome, len(dates))
	errs := make([]error, len(dates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < ev.params.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcome := dayOutcome{date: dates[i]}
				if err := ev.predict(&outcome); err != nil {
					errs[i] = err
					continue
				}
				if err := ev.settle(&outcome); err != nil {
					errs[i] = err
					continue
				}
				outcomes[i] = outcome
			}
		}()
	}

feed:
	for i := range dates {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation aborted: %w", err)
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for _, outcome := range outcomes {
		result.fold(outcome)
	}
	return nil
}

// predict scores every registered pattern once for the date (confidence is a
// property of the pattern and date, not of the individual fixture) and runs
// selection for each fixture played that day.
func (ev *Evaluator) predict(outcome *dayOutcome) error {
	fixtures := ev.corpus.FixturesOn(outcome.date)
	history := ev.corpus.HistoryBefore(outcome.date)
	outcome.fixtures = len(fixtures)

	candidates := make([]selection.Candidate, 0, ev.params.Registry.Len())
	for _, pattern := range ev.params.Registry.List() {
		estimate, err := ev.estimate(pattern, outcome.date, history)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientHistory) {
				continue
			}
			return fmt.Errorf("estimate %s on %s: %w", pattern.Name, outcome.date.Format("2006-01-02"), err)
		}
		candidates = append(candidates, selection.Candidate{
			Bet:      ev.params.Risk.Adjust(pattern, estimate),
			Estimate: estimate,
		})
	}

	for _, record := range fixtures {
		rec := ev.params.Policy.Select(record.Fixture(), candidates)
		if rec == nil {
			outcome.noBet++
			continue
		}
		outcome.pending = append(outcome.pending, pendingBet{record: record, rec: *rec})
	}
	return nil
}

func (ev *Evaluator) estimate(pattern models.Pattern, day time.Time, history []models.MatchRecord) (models.ConfidenceEstimate, error) {
	if ev.params.Profile != nil {
		return ev.params.Engine.EstimateWithProfile(pattern, day, history, ev.params.Profile)
	}
	return ev.params.Engine.Estimate(pattern, day, history)
}

// settle judges each pending recommendation against its fixture's final
// statistics. A fixture missing a required statistic is counted unresolved,
// never silently dropped.
func (ev *Evaluator) settle(outcome *dayOutcome) error {
	for _, pending := range outcome.pending {
		pattern, err := ev.params.Registry.Get(pending.rec.Bet.PatternName)
		if err != nil {
			return fmt.Errorf("settle %s: %w", pending.record.Key(), err)
		}

		if !pattern.Settleable(pending.record) {
			outcome.unresolved++
			metrics.RecordUnresolvedFixture()
			ev.audit.LogUnresolvedFixture(pending.record.Key(), pattern.Name, "missing required statistics")
			continue
		}

		bet := settleBet(pattern, pending.record, pending.rec, ev.params.Odds)
		outcome.settled = append(outcome.settled, bet)
		if bet.Won {
			metrics.RecordBetSettled("win")
		} else {
			metrics.RecordBetSettled("loss")
		}
		ev.audit.LogSettlement(pending.record.Key(), pattern.Name, bet.Won, bet.Profit.StringFixed(2))
	}
	outcome.pending = nil
	return nil
}

func (ev *Evaluator) competitionLabel() string {
	if ev.params.Competition != "" {
		return ev.params.Competition
	}
	return "all"
}

func (ev *Evaluator) profileName() string {
	if ev.params.Profile != nil {
		return ev.params.Profile.Name
	}
	return ev.params.Engine.ProfileFor(ev.params.Competition).Name
}

// Package engine computes multi-timeframe confidence estimates for betting
// patterns from historical match records.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/logger"
	"github.com/yourusername/pattern-edge/internal/metrics"
	"github.com/yourusername/pattern-edge/internal/models"
)

// trendReferenceDays is the window the most recent hit-rate is compared
// against. When a profile has no 30-day window, or it is empty, the next
// longer defined window stands in.
const trendReferenceDays = 30

// Default adjustment constants, applied when the configuration leaves the
// adjustments block unset. The values are empirical, not structural.
const (
	defaultTrendThreshold     = 0.03
	defaultTrendBoost         = 0.02
	defaultConsistencyLow     = 0.03
	defaultConsistencyHigh    = 0.05
	defaultConsistencyBoost   = 0.01
	defaultConsistencyPenalty = 0.02
	defaultSamplePenalty      = 0.05
)

// defaultCacheTTL bounds staleness when the cache TTL is left unset.
const defaultCacheTTL = 15 * time.Minute

// Engine scores pattern predicates against trailing history windows and
// folds the window hit-rates into a single confidence estimate.
type Engine struct {
	profiles            map[string]*models.WeightProfile
	defaultProfile      string
	competitionProfiles map[string]string
	adj                 config.AdjustmentsConfig
	cache               *WindowCache
	log                 *logger.EngineLogger
}

// New builds an engine from configuration. Every configured profile is
// validated up front; referencing an undefined profile is a startup error,
// not something to discover mid-run.
func New(cfg *config.EngineConfig, baseLogger *logrus.Logger) (*Engine, error) {
	profiles := make(map[string]*models.WeightProfile, len(cfg.Profiles))
	for name, windows := range cfg.Profiles {
		converted := make([]models.TimeframeWindow, len(windows))
		for i, w := range windows {
			converted[i] = models.TimeframeWindow{Days: w.Days, Weight: w.Weight}
		}
		profile, err := models.NewWeightProfile(name, converted)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		profiles[name] = &profile
	}

	if _, ok := profiles[cfg.DefaultProfile]; !ok {
		return nil, fmt.Errorf("default profile %q: %w", cfg.DefaultProfile, models.ErrUnknownProfile)
	}
	for competition, name := range cfg.CompetitionProfiles {
		if _, ok := profiles[name]; !ok {
			return nil, fmt.Errorf("competition %q profile %q: %w", competition, name, models.ErrUnknownProfile)
		}
	}

	adj := cfg.Adjustments
	if adj == (config.AdjustmentsConfig{}) {
		adj = config.AdjustmentsConfig{
			TrendThreshold:     defaultTrendThreshold,
			TrendBoost:         defaultTrendBoost,
			ConsistencyLow:     defaultConsistencyLow,
			ConsistencyHigh:    defaultConsistencyHigh,
			ConsistencyBoost:   defaultConsistencyBoost,
			ConsistencyPenalty: defaultConsistencyPenalty,
			SamplePenalty:      defaultSamplePenalty,
		}
	}

	engine := &Engine{
		profiles:            profiles,
		defaultProfile:      cfg.DefaultProfile,
		competitionProfiles: make(map[string]string, len(cfg.CompetitionProfiles)),
		adj:                 adj,
		log:                 logger.NewEngineLogger(baseLogger),
	}
	for competition, name := range cfg.CompetitionProfiles {
		engine.competitionProfiles[competition] = name
	}

	if cfg.Cache.Enabled {
		ttl := cfg.Cache.TTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		engine.cache = NewWindowCache(ttl)
	}

	return engine, nil
}

// Profile returns the named weight profile.
func (e *Engine) Profile(name string) (*models.WeightProfile, error) {
	profile, ok := e.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", name, models.ErrUnknownProfile)
	}
	return profile, nil
}

// ProfileFor resolves the weight profile for a competition, falling back to
// the default profile.
func (e *Engine) ProfileFor(competition string) *models.WeightProfile {
	if name, ok := e.competitionProfiles[competition]; ok {
		return e.profiles[name]
	}
	return e.profiles[e.defaultProfile]
}

// Cache returns the window cache, or nil when caching is disabled.
func (e *Engine) Cache() *WindowCache {
	return e.cache
}

// Estimate computes the confidence estimate for a pattern at a fixture date,
// resolving the weight profile from the history's competition. History must
// be sorted ascending by date and strictly before the fixture date.
func (e *Engine) Estimate(pattern models.Pattern, fixtureDate time.Time, history []models.MatchRecord) (models.ConfidenceEstimate, error) {
	competition := ""
	if len(history) > 0 {
		competition = history[0].Competition
	}
	return e.EstimateWithProfile(pattern, fixtureDate, history, e.ProfileFor(competition))
}

// EstimateWithProfile computes the confidence estimate using an explicit
// weight profile. Profile sweeps use this to hold everything else fixed.
//
// The estimate is a pure function of (pattern, fixtureDate, history,
// profile): calling it twice returns identical values.
func (e *Engine) EstimateWithProfile(pattern models.Pattern, fixtureDate time.Time, history []models.MatchRecord, profile *models.WeightProfile) (models.ConfidenceEstimate, error) {
	start := time.Now()
	day := models.Day(fixtureDate)

	// History handed to the engine must already be filtered to records
	// strictly before the fixture date. Anything else would silently leak
	// outcomes into their own prediction, so it fails loudly.
	if n := len(history); n > 0 && !history[n-1].Date.Before(day) {
		panic(fmt.Sprintf(
			"look-ahead violation: history contains a record dated %s, on or after fixture date %s",
			history[n-1].Date.Format("2006-01-02"), day.Format("2006-01-02"),
		))
	}

	competition := ""
	if len(history) > 0 {
		competition = history[0].Competition
	}

	windows := make([]models.WindowStatistic, len(profile.Windows))
	anyDefined := false
	for i, w := range profile.Windows {
		counts := e.windowCounts(pattern, competition, day, history, w.Days)
		ws := models.WindowStatistic{
			Days:    w.Days,
			Weight:  w.Weight,
			Count:   counts.Count,
			Hits:    counts.Hits,
			Defined: counts.Count > 0,
		}
		if ws.Defined {
			ws.Rate = float64(counts.Hits) / float64(counts.Count)
			anyDefined = true
		}
		windows[i] = ws
	}

	if !anyDefined {
		metrics.RecordInsufficientHistory()
		e.log.LogInsufficientHistory(pattern.Name, day)
		return models.ConfidenceEstimate{}, fmt.Errorf(
			"pattern %q at %s: %w", pattern.Name, day.Format("2006-01-02"), models.ErrInsufficientHistory)
	}

	raw := weightedMean(windows)
	trendAdj := e.trendAdjustment(windows)
	consistencyAdj := e.consistencyAdjustment(windows)
	sampleAdj := e.sampleAdjustment(pattern, day, history)

	estimate := models.ConfidenceEstimate{
		PatternName:    pattern.Name,
		FixtureDate:    day,
		Raw:            raw,
		TrendAdj:       trendAdj,
		ConsistencyAdj: consistencyAdj,
		SampleAdj:      sampleAdj,
		Final:          clamp01(raw + trendAdj + consistencyAdj + sampleAdj),
		Windows:        windows,
	}

	metrics.RecordEstimate(string(pattern.Category), time.Since(start).Seconds())
	e.log.LogEstimate(pattern.Name, day, raw, trendAdj, consistencyAdj, sampleAdj, estimate.Final, definedCount(windows))
	return estimate, nil
}

// windowCounts scans one trailing window, consulting the cache when enabled.
func (e *Engine) windowCounts(pattern models.Pattern, competition string, day time.Time, history []models.MatchRecord, days int) windowCounts {
	var key windowKey
	if e.cache != nil && competition != "" {
		key = windowKey{Competition: competition, Pattern: pattern.Name, Days: days, Day: day}
		if counts, found := e.cache.Get(key); found {
			return counts
		}
	}

	from := day.AddDate(0, 0, -days)
	counts := windowCounts{}
	for _, record := range history[lowerBound(history, from):] {
		counts.Count++
		if pattern.Predicate(record) {
			counts.Hits++
		}
	}

	if e.cache != nil && competition != "" {
		e.cache.Set(key, counts)
	}
	return counts
}

// trendAdjustment compares the shortest defined window's hit-rate against
// the reference window and nudges the confidence in the trend's direction.
func (e *Engine) trendAdjustment(windows []models.WindowStatistic) float64 {
	shortest := -1
	for i, w := range windows {
		if w.Defined {
			shortest = i
			break
		}
	}
	if shortest == -1 {
		return 0
	}

	reference := -1
	for i, w := range windows {
		if i != shortest && w.Defined && w.Days == trendReferenceDays {
			reference = i
			break
		}
	}
	if reference == -1 {
		for i := shortest + 1; i < len(windows); i++ {
			if windows[i].Defined {
				reference = i
				break
			}
		}
	}
	if reference == -1 {
		return 0
	}

	diff := windows[shortest].Rate - windows[reference].Rate
	switch {
	case diff >= e.adj.TrendThreshold:
		return e.adj.TrendBoost
	case diff <= -e.adj.TrendThreshold:
		return -e.adj.TrendBoost
	default:
		return 0
	}
}

// consistencyAdjustment rewards stable hit-rates across windows and
// penalizes volatile ones, using the population standard deviation.
func (e *Engine) consistencyAdjustment(windows []models.WindowStatistic) float64 {
	rates := make([]float64, 0, len(windows))
	for _, w := range windows {
		if w.Defined {
			rates = append(rates, w.Rate)
		}
	}
	if len(rates) == 0 {
		return 0
	}

	stddev := stat.PopStdDev(rates, nil)
	switch {
	case stddev < e.adj.ConsistencyLow:
		return e.adj.ConsistencyBoost
	case stddev > e.adj.ConsistencyHigh:
		return -e.adj.ConsistencyPenalty
	default:
		return 0
	}
}

// sampleAdjustment penalizes estimates backed by thin recent history. The
// counts come straight from the history slice, so the check holds even for
// profiles without 7 or 30 day windows.
func (e *Engine) sampleAdjustment(pattern models.Pattern, day time.Time, history []models.MatchRecord) float64 {
	count7 := len(history) - lowerBound(history, day.AddDate(0, 0, -7))
	count30 := len(history) - lowerBound(history, day.AddDate(0, 0, -30))
	if count7 < pattern.MinSample7 || count30 < pattern.MinSample30 {
		return -e.adj.SamplePenalty
	}
	return 0
}

// lowerBound returns the index of the first record dated on or after day.
func lowerBound(history []models.MatchRecord, day time.Time) int {
	return sort.Search(len(history), func(i int) bool {
		return !history[i].Date.Before(day)
	})
}

// weightedMean averages the defined window hit-rates, renormalizing the
// weights so the defined subset sums to one.
func weightedMean(windows []models.WindowStatistic) float64 {
	weightSum := 0.0
	rateSum := 0.0
	for _, w := range windows {
		if !w.Defined {
			continue
		}
		weightSum += w.Weight
		rateSum += w.Weight * w.Rate
	}
	if weightSum <= 0 {
		// Every defined window carries zero weight; fall back to the
		// unweighted mean of their rates.
		count := 0
		total := 0.0
		for _, w := range windows {
			if w.Defined {
				count++
				total += w.Rate
			}
		}
		if count == 0 {
			return 0
		}
		return total / float64(count)
	}
	return rateSum / weightSum
}

func definedCount(windows []models.WindowStatistic) int {
	count := 0
	for _, w := range windows {
		if w.Defined {
			count++
		}
	}
	return count
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

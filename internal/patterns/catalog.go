package patterns

import (
	"fmt"

	"github.com/yourusername/pattern-edge/internal/models"
)

// Default qualification thresholds per category. Higher-variance categories
// demand more confidence before a bet is worth placing.
const (
	goalsThreshold   = 0.65
	cornersThreshold = 0.60
	cardsThreshold   = 0.70
	resultThreshold  = 0.70
)

// totalOver builds a predicate on the sum of two statistics exceeding a line.
func totalOver(statA, statB string, line float64) models.Predicate {
	return func(m models.MatchRecord) bool {
		return m.Stat(statA)+m.Stat(statB) > line
	}
}

// totalUnder builds a predicate on the sum of two statistics staying below a line.
func totalUnder(statA, statB string, line float64) models.Predicate {
	return func(m models.MatchRecord) bool {
		return m.Stat(statA)+m.Stat(statB) < line
	}
}

// sideOver builds a predicate on a single side's statistic exceeding a line.
func sideOver(stat string, line float64) models.Predicate {
	return func(m models.MatchRecord) bool {
		return m.Stat(stat) > line
	}
}

func goalsPattern(name string, predicate models.Predicate, description string) models.Pattern {
	return models.Pattern{
		Name:        name,
		Category:    models.CategoryGoals,
		Predicate:   predicate,
		Threshold:   goalsThreshold,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
		Requires:    []string{models.StatHomeGoals, models.StatAwayGoals},
		Description: description,
	}
}

func cornersPattern(name string, predicate models.Predicate, description string) models.Pattern {
	return models.Pattern{
		Name:        name,
		Category:    models.CategoryCorners,
		Predicate:   predicate,
		Threshold:   cornersThreshold,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
		Requires:    []string{models.StatHomeCorners, models.StatAwayCorners},
		Description: description,
	}
}

func cardsPattern(name string, predicate models.Predicate, description string) models.Pattern {
	return models.Pattern{
		Name:        name,
		Category:    models.CategoryCards,
		Predicate:   predicate,
		Threshold:   cardsThreshold,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
		Requires:    []string{models.StatHomeCards, models.StatAwayCards},
		Description: description,
	}
}

func resultPattern(name string, predicate models.Predicate, description string) models.Pattern {
	return models.Pattern{
		Name:        name,
		Category:    models.CategoryResult,
		Predicate:   predicate,
		Threshold:   resultThreshold,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
		Requires:    []string{models.StatHomeGoals, models.StatAwayGoals},
		Description: description,
	}
}

// builtinPatterns returns the league pattern catalog.
func builtinPatterns() []models.Pattern {
	patterns := []models.Pattern{
		// Goal totals
		goalsPattern("over_0_5_goals",
			totalOver(models.StatHomeGoals, models.StatAwayGoals, 0.5),
			"At least one goal scored"),
		goalsPattern("over_1_5_goals",
			totalOver(models.StatHomeGoals, models.StatAwayGoals, 1.5),
			"At least two goals scored"),
		goalsPattern("over_2_5_goals",
			totalOver(models.StatHomeGoals, models.StatAwayGoals, 2.5),
			"At least three goals scored"),
		goalsPattern("over_3_5_goals",
			totalOver(models.StatHomeGoals, models.StatAwayGoals, 3.5),
			"At least four goals scored"),
		goalsPattern("under_2_5_goals",
			totalUnder(models.StatHomeGoals, models.StatAwayGoals, 2.5),
			"At most two goals scored"),
		goalsPattern("btts",
			func(m models.MatchRecord) bool {
				return m.Stat(models.StatHomeGoals) > 0.5 && m.Stat(models.StatAwayGoals) > 0.5
			},
			"Both teams score"),
		goalsPattern("home_over_1_5_goals",
			sideOver(models.StatHomeGoals, 1.5),
			"Home side scores at least twice"),
		goalsPattern("away_over_1_5_goals",
			sideOver(models.StatAwayGoals, 1.5),
			"Away side scores at least twice"),
		goalsPattern("home_clean_sheet",
			func(m models.MatchRecord) bool { return m.Stat(models.StatAwayGoals) == 0 },
			"Home side concedes nothing"),
		goalsPattern("away_clean_sheet",
			func(m models.MatchRecord) bool { return m.Stat(models.StatHomeGoals) == 0 },
			"Away side concedes nothing"),

		// Corner totals
		cornersPattern("over_0_5_corners",
			totalOver(models.StatHomeCorners, models.StatAwayCorners, 0.5),
			"At least one corner taken"),
		cornersPattern("over_7_5_corners",
			totalOver(models.StatHomeCorners, models.StatAwayCorners, 7.5),
			"At least eight corners taken"),
		cornersPattern("over_8_5_corners",
			totalOver(models.StatHomeCorners, models.StatAwayCorners, 8.5),
			"At least nine corners taken"),
		cornersPattern("over_9_5_corners",
			totalOver(models.StatHomeCorners, models.StatAwayCorners, 9.5),
			"At least ten corners taken"),
		cornersPattern("over_10_5_corners",
			totalOver(models.StatHomeCorners, models.StatAwayCorners, 10.5),
			"At least eleven corners taken"),
		cornersPattern("home_over_2_5_corners",
			sideOver(models.StatHomeCorners, 2.5),
			"Home side takes at least three corners"),
		cornersPattern("away_over_2_5_corners",
			sideOver(models.StatAwayCorners, 2.5),
			"Away side takes at least three corners"),

		// Card totals, counting yellow and red together
		cardsPattern("over_1_5_cards",
			totalOver(models.StatHomeCards, models.StatAwayCards, 1.5),
			"At least two cards shown"),
		cardsPattern("over_2_5_cards",
			totalOver(models.StatHomeCards, models.StatAwayCards, 2.5),
			"At least three cards shown"),
		cardsPattern("over_3_5_cards",
			totalOver(models.StatHomeCards, models.StatAwayCards, 3.5),
			"At least four cards shown"),
		cardsPattern("over_5_5_cards",
			totalOver(models.StatHomeCards, models.StatAwayCards, 5.5),
			"At least six cards shown"),
		cardsPattern("home_over_1_5_cards",
			sideOver(models.StatHomeCards, 1.5),
			"Home side picks up at least two cards"),
		cardsPattern("away_over_1_5_cards",
			sideOver(models.StatAwayCards, 1.5),
			"Away side picks up at least two cards"),

		// Full-time result
		resultPattern("home_win",
			func(m models.MatchRecord) bool {
				return m.Stat(models.StatHomeGoals) > m.Stat(models.StatAwayGoals)
			},
			"Home side wins"),
		resultPattern("away_win",
			func(m models.MatchRecord) bool {
				return m.Stat(models.StatAwayGoals) > m.Stat(models.StatHomeGoals)
			},
			"Away side wins"),
		resultPattern("draw",
			func(m models.MatchRecord) bool {
				return m.Stat(models.StatHomeGoals) == m.Stat(models.StatAwayGoals)
			},
			"Match drawn"),
	}

	// Half-time statistics are sparse in older seasons; the Requires list
	// keeps those fixtures out of settlement instead of scoring them as 0-0.
	halfTime := models.Pattern{
		Name:     "half_time_over_0_5_goals",
		Category: models.CategoryGoals,
		Predicate: totalOver(
			models.StatHalfTimeHomeGoals, models.StatHalfTimeAwayGoals, 0.5),
		Threshold:   goalsThreshold,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
		Requires:    []string{models.StatHalfTimeHomeGoals, models.StatHalfTimeAwayGoals},
		Description: "At least one goal before half time",
	}
	return append(patterns, halfTime)
}

// Builtin returns a registry preloaded with the league pattern catalog.
func Builtin() *Registry {
	r := NewRegistry()
	for _, p := range builtinPatterns() {
		if err := r.Register(p); err != nil {
			panic(fmt.Sprintf("builtin pattern catalog: %v", err))
		}
	}
	return r
}

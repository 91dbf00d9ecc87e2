package patterns

import (
	"errors"
	"testing"
	"time"

	"github.com/yourusername/pattern-edge/internal/models"
)

func matchWith(stats map[string]float64) models.MatchRecord {
	return models.NewMatchRecord("serie_a", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Roma", "Lazio", stats)
}

func scoreline(homeGoals, awayGoals float64) models.MatchRecord {
	return matchWith(map[string]float64{
		models.StatHomeGoals: homeGoals,
		models.StatAwayGoals: awayGoals,
	})
}

func TestBuiltinCatalog(t *testing.T) {
	r := Builtin()
	if r.Len() == 0 {
		t.Fatal("expected builtin catalog to register patterns")
	}

	for _, name := range []string{"over_2_5_goals", "over_8_5_corners", "over_3_5_cards", "home_win"} {
		if _, err := r.Get(name); err != nil {
			t.Errorf("expected builtin pattern %q, got error: %v", name, err)
		}
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	p := models.Pattern{
		Name:        "over_2_5_goals",
		Category:    models.CategoryGoals,
		Predicate:   totalOver(models.StatHomeGoals, models.StatAwayGoals, 2.5),
		Threshold:   0.65,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
	}

	if err := r.Register(p); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := r.Register(p)
	if !errors.Is(err, models.ErrDuplicatePattern) {
		t.Errorf("expected ErrDuplicatePattern, got %v", err)
	}
}

func TestRegisterRejectsInvalidPattern(t *testing.T) {
	r := NewRegistry()
	p := models.Pattern{
		Name:        "broken",
		Category:    models.CategoryGoals,
		Predicate:   totalOver(models.StatHomeGoals, models.StatAwayGoals, 2.5),
		Threshold:   1.5,
		MinSample7:  models.DefaultMinSample7,
		MinSample30: models.DefaultMinSample30,
	}

	err := r.Register(p)
	if err == nil {
		t.Fatal("expected validation error for threshold above 1")
	}
	if !models.IsConfigError(err) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestGetUnknownPattern(t *testing.T) {
	r := Builtin()
	_, err := r.Get("over_99_5_goals")
	if !errors.Is(err, models.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestListOrderedByName(t *testing.T) {
	r := Builtin()
	list := r.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Errorf("list not ordered at %d: %s >= %s", i, list[i-1].Name, list[i].Name)
		}
	}
}

func TestByCategory(t *testing.T) {
	r := Builtin()
	cards := r.ByCategory(models.CategoryCards)
	if len(cards) == 0 {
		t.Fatal("expected card patterns in builtin catalog")
	}
	for _, p := range cards {
		if p.Category != models.CategoryCards {
			t.Errorf("pattern %s has category %s", p.Name, p.Category)
		}
	}
}

func TestGoalTotalPredicates(t *testing.T) {
	r := Builtin()

	over25, err := r.Get("over_2_5_goals")
	if err != nil {
		t.Fatal(err)
	}
	if !over25.Predicate(scoreline(2, 1)) {
		t.Error("expected 2-1 to hit over_2_5_goals")
	}
	if over25.Predicate(scoreline(1, 1)) {
		t.Error("expected 1-1 to miss over_2_5_goals")
	}

	under25, err := r.Get("under_2_5_goals")
	if err != nil {
		t.Fatal(err)
	}
	if !under25.Predicate(scoreline(1, 1)) {
		t.Error("expected 1-1 to hit under_2_5_goals")
	}
	if under25.Predicate(scoreline(2, 1)) {
		t.Error("expected 2-1 to miss under_2_5_goals")
	}
}

func TestBothTeamsScorePredicate(t *testing.T) {
	r := Builtin()
	btts, err := r.Get("btts")
	if err != nil {
		t.Fatal(err)
	}

	if !btts.Predicate(scoreline(1, 1)) {
		t.Error("expected 1-1 to hit btts")
	}
	if btts.Predicate(scoreline(2, 0)) {
		t.Error("expected 2-0 to miss btts")
	}
}

func TestResultPredicates(t *testing.T) {
	r := Builtin()

	cases := []struct {
		pattern string
		home    float64
		away    float64
		want    bool
	}{
		{"home_win", 2, 0, true},
		{"home_win", 1, 1, false},
		{"away_win", 0, 1, true},
		{"away_win", 1, 1, false},
		{"draw", 1, 1, true},
		{"draw", 2, 1, false},
	}

	for _, tc := range cases {
		p, err := r.Get(tc.pattern)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.Predicate(scoreline(tc.home, tc.away)); got != tc.want {
			t.Errorf("%s on %v-%v: got %v, want %v", tc.pattern, tc.home, tc.away, got, tc.want)
		}
	}
}

func TestCornerPredicateUsesBothSides(t *testing.T) {
	r := Builtin()
	over85, err := r.Get("over_8_5_corners")
	if err != nil {
		t.Fatal(err)
	}

	record := matchWith(map[string]float64{
		models.StatHomeCorners: 5,
		models.StatAwayCorners: 4,
	})
	if !over85.Predicate(record) {
		t.Error("expected 9 total corners to hit over_8_5_corners")
	}

	record = matchWith(map[string]float64{
		models.StatHomeCorners: 5,
		models.StatAwayCorners: 3,
	})
	if over85.Predicate(record) {
		t.Error("expected 8 total corners to miss over_8_5_corners")
	}
}

func TestHalfTimePatternRequiresStats(t *testing.T) {
	r := Builtin()
	ht, err := r.Get("half_time_over_0_5_goals")
	if err != nil {
		t.Fatal(err)
	}

	// Full-time stats alone are not enough to settle a half-time pattern.
	if ht.Settleable(scoreline(3, 2)) {
		t.Error("expected record without half-time stats to be unsettleable")
	}

	record := matchWith(map[string]float64{
		models.StatHalfTimeHomeGoals: 1,
		models.StatHalfTimeAwayGoals: 0,
	})
	if !ht.Settleable(record) {
		t.Error("expected record with half-time stats to be settleable")
	}
	if !ht.Predicate(record) {
		t.Error("expected 1-0 at half time to hit the pattern")
	}
}

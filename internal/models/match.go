package models

import (
	"fmt"
	"time"
)

// Statistic names produced by ingestion and consumed by pattern predicates.
const (
	StatHomeGoals          = "home_goals"
	StatAwayGoals          = "away_goals"
	StatHalfTimeHomeGoals  = "half_time_home_goals"
	StatHalfTimeAwayGoals  = "half_time_away_goals"
	StatHomeCorners        = "home_corners"
	StatAwayCorners        = "away_corners"
	StatHomeCards          = "home_cards"
	StatAwayCards          = "away_cards"
	StatHomeYellowCards    = "home_yellow_cards"
	StatAwayYellowCards    = "away_yellow_cards"
	StatHomeRedCards       = "home_red_cards"
	StatAwayRedCards       = "away_red_cards"
	StatHomeFouls          = "home_fouls"
	StatAwayFouls          = "away_fouls"
	StatHomeShots          = "home_shots"
	StatAwayShots          = "away_shots"
	StatHomeShotsOnTarget  = "home_shots_on_target"
	StatAwayShotsOnTarget  = "away_shots_on_target"
)

// Fixture identifies one match of a competition on a calendar day.
type Fixture struct {
	Competition string    `db:"competition" json:"competition" validate:"required"`
	Date        time.Time `db:"match_date" json:"match_date" validate:"required"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
}

// Key returns a stable identifier used for deduplication and logging.
func (f Fixture) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", f.Competition, f.Date.Format("2006-01-02"), f.HomeTeam, f.AwayTeam)
}

// MatchRecord is a completed fixture with its observed statistics.
// Records are created once at ingestion and never mutated afterwards.
type MatchRecord struct {
	Competition string             `db:"competition" json:"competition" validate:"required"`
	Date        time.Time          `db:"match_date" json:"match_date" validate:"required"`
	HomeTeam    string             `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string             `db:"away_team" json:"away_team" validate:"required"`
	Stats       map[string]float64 `db:"stats" json:"stats"`
}

// NewMatchRecord builds a record with its own copy of the statistics map,
// with the date truncated to a UTC calendar day.
func NewMatchRecord(competition string, date time.Time, home, away string, stats map[string]float64) MatchRecord {
	copied := make(map[string]float64, len(stats))
	for name, value := range stats {
		copied[name] = value
	}
	return MatchRecord{
		Competition: competition,
		Date:        Day(date),
		HomeTeam:    home,
		AwayTeam:    away,
		Stats:       copied,
	}
}

// Stat returns the named statistic, or 0 when it was not recorded.
// Sparse source files omit columns; predicates treat those as zero counts.
func (m MatchRecord) Stat(name string) float64 {
	return m.Stats[name]
}

// Has reports whether every named statistic was actually recorded.
// Settlement uses this to tell a genuine zero from a missing column.
func (m MatchRecord) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := m.Stats[name]; !ok {
			return false
		}
	}
	return true
}

// Fixture returns the identity portion of the record.
func (m MatchRecord) Fixture() Fixture {
	return Fixture{
		Competition: m.Competition,
		Date:        m.Date,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
	}
}

// Key returns the same identifier as Fixture.Key.
func (m MatchRecord) Key() string {
	return m.Fixture().Key()
}

// Day truncates a timestamp to its UTC calendar day. All match dates in the
// corpus are stored at this granularity.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

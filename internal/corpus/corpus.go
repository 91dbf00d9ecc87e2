// Package corpus holds the immutable match history a run operates on.
package corpus

import (
	"sort"
	"time"

	"github.com/yourusername/pattern-edge/internal/models"
)

// Corpus is a date-sorted collection of match records. It is built once per
// run and never mutated, so every lookup is a binary search over the same
// backing slice.
type Corpus struct {
	records []models.MatchRecord
}

// New builds a corpus from the given records. The input is copied and sorted
// by date, then competition and team names for a deterministic order.
func New(records []models.MatchRecord) *Corpus {
	sorted := make([]models.MatchRecord, len(records))
	copy(sorted, records)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Competition != b.Competition {
			return a.Competition < b.Competition
		}
		if a.HomeTeam != b.HomeTeam {
			return a.HomeTeam < b.HomeTeam
		}
		return a.AwayTeam < b.AwayTeam
	})

	return &Corpus{records: sorted}
}

// Len returns the number of records in the corpus.
func (c *Corpus) Len() int {
	return len(c.records)
}

// Records returns the sorted backing slice. Callers must not modify it.
func (c *Corpus) Records() []models.MatchRecord {
	return c.records
}

// lowerBound returns the index of the first record dated on or after day.
func (c *Corpus) lowerBound(day time.Time) int {
	return sort.Search(len(c.records), func(i int) bool {
		return !c.records[i].Date.Before(day)
	})
}

// HistoryBefore returns every record strictly earlier than the given day.
// This is the single place the look-ahead boundary is applied: a fixture on
// day D sees history up to and including D-1, never D itself.
func (c *Corpus) HistoryBefore(day time.Time) []models.MatchRecord {
	return c.records[:c.lowerBound(models.Day(day))]
}

// Window returns the records in the half-open interval [from, to).
func (c *Corpus) Window(from, to time.Time) []models.MatchRecord {
	lo := c.lowerBound(models.Day(from))
	hi := c.lowerBound(models.Day(to))
	if lo >= hi {
		return nil
	}
	return c.records[lo:hi]
}

// FixturesOn returns every record dated exactly on the given day.
func (c *Corpus) FixturesOn(day time.Time) []models.MatchRecord {
	start := models.Day(day)
	return c.Window(start, start.AddDate(0, 0, 1))
}

// FixtureDates returns the distinct match days in ascending order.
func (c *Corpus) FixtureDates() []time.Time {
	dates := make([]time.Time, 0)
	for i := range c.records {
		if i == 0 || !c.records[i].Date.Equal(c.records[i-1].Date) {
			dates = append(dates, c.records[i].Date)
		}
	}
	return dates
}

// FixtureDatesBetween returns the distinct match days within [start, end],
// both bounds inclusive.
func (c *Corpus) FixtureDatesBetween(start, end time.Time) []time.Time {
	startDay := models.Day(start)
	endDay := models.Day(end)

	dates := make([]time.Time, 0)
	for _, date := range c.FixtureDates() {
		if date.Before(startDay) {
			continue
		}
		if date.After(endDay) {
			break
		}
		dates = append(dates, date)
	}
	return dates
}

// FilterCompetition returns a new corpus holding only the given competition.
func (c *Corpus) FilterCompetition(competition string) *Corpus {
	filtered := make([]models.MatchRecord, 0, len(c.records))
	for _, record := range c.records {
		if record.Competition == competition {
			filtered = append(filtered, record)
		}
	}
	// Already sorted, the subsequence preserves order.
	return &Corpus{records: filtered}
}

// Competitions returns the distinct competition names present in the corpus.
func (c *Corpus) Competitions() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, record := range c.records {
		if !seen[record.Competition] {
			seen[record.Competition] = true
			names = append(names, record.Competition)
		}
	}
	sort.Strings(names)
	return names
}

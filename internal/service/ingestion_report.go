package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// IngestionReport tracks statistics about one ingestion run. Prometheus
// counters cover the long-run totals; this is the per-run summary returned
// to callers and printed by the CLI.
type IngestionReport struct {
	mu          sync.Mutex
	Competition string
	Season      string
	Rows        int
	Inserted    int
	Errors      int
	Skipped     map[string]int
	Duration    time.Duration
}

// NewIngestionReport creates an empty report for one competition
func NewIngestionReport(competition, season string) *IngestionReport {
	return &IngestionReport{
		Competition: competition,
		Season:      season,
		Skipped:     make(map[string]int),
	}
}

func (r *IngestionReport) addRows(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows += count
}

func (r *IngestionReport) addInserted(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Inserted += count
}

func (r *IngestionReport) addError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors++
}

func (r *IngestionReport) skip(reason string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped[reason] += count
}

// SkippedTotal returns the number of rows skipped across all reasons.
func (r *IngestionReport) SkippedTotal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, count := range r.Skipped {
		total += count
	}
	return total
}

// Merge folds another report into this one. Used when one run covers
// several seasons or competitions.
func (r *IngestionReport) Merge(other *IngestionReport) {
	if other == nil {
		return
	}
	other.mu.Lock()
	rows, inserted, errors := other.Rows, other.Inserted, other.Errors
	duration := other.Duration
	skipped := make(map[string]int, len(other.Skipped))
	for reason, count := range other.Skipped {
		skipped[reason] = count
	}
	other.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows += rows
	r.Inserted += inserted
	r.Errors += errors
	r.Duration += duration
	for reason, count := range skipped {
		r.Skipped[reason] += count
	}
}

// String returns a formatted one-line summary of the run
func (r *IngestionReport) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	reasons := make([]string, 0, len(r.Skipped))
	for reason := range r.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	var skipped strings.Builder
	for i, reason := range reasons {
		if i > 0 {
			skipped.WriteString(", ")
		}
		fmt.Fprintf(&skipped, "%s=%d", reason, r.Skipped[reason])
	}
	if skipped.Len() == 0 {
		skipped.WriteString("none")
	}

	return fmt.Sprintf(
		"IngestionReport{Competition=%s, Season=%s, Rows=%d, Inserted=%d, Skipped=[%s], Errors=%d, Duration=%v}",
		r.Competition, r.Season, r.Rows, r.Inserted, skipped.String(), r.Errors, r.Duration,
	)
}

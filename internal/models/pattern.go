package models

import "fmt"

// Category groups patterns by the family of statistics they read.
type Category string

const (
	CategoryGoals   Category = "GOALS"
	CategoryCorners Category = "CORNERS"
	CategoryCards   Category = "CARDS"
	CategoryResult  Category = "RESULT"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryGoals, CategoryCorners, CategoryCards, CategoryResult:
		return true
	}
	return false
}

// Default minimum sample sizes for the short lookback windows, applied when a
// pattern does not override them.
const (
	DefaultMinSample7  = 3
	DefaultMinSample30 = 10
)

// Predicate evaluates a pattern against one completed match.
type Predicate func(MatchRecord) bool

// Pattern is an immutable descriptor of a boolean match predicate. Patterns
// are registered once in the catalog and shared read-only by every engine
// invocation.
type Pattern struct {
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Predicate   Predicate `json:"-"`
	Threshold   float64   `json:"threshold"`
	MinSample7  int       `json:"min_sample_7"`
	MinSample30 int       `json:"min_sample_30"`
	Requires    []string  `json:"requires"`
	Description string    `json:"description"`
}

// Validate checks the descriptor invariants. Violations are configuration
// errors and abort catalog construction.
func (p *Pattern) Validate() error {
	if p.Name == "" {
		return &ConfigError{Field: "pattern.name", Reason: "must not be empty"}
	}
	if !p.Category.Valid() {
		return &ConfigError{Field: fmt.Sprintf("pattern.%s.category", p.Name), Reason: fmt.Sprintf("unknown category %q", p.Category)}
	}
	if p.Predicate == nil {
		return &ConfigError{Field: fmt.Sprintf("pattern.%s.predicate", p.Name), Reason: "must not be nil"}
	}
	if p.Threshold <= 0 || p.Threshold > 1 {
		return &ConfigError{Field: fmt.Sprintf("pattern.%s.threshold", p.Name), Reason: fmt.Sprintf("must be in (0,1], got %v", p.Threshold)}
	}
	if p.MinSample7 < 1 {
		return &ConfigError{Field: fmt.Sprintf("pattern.%s.min_sample_7", p.Name), Reason: "must be at least 1"}
	}
	if p.MinSample30 < 1 {
		return &ConfigError{Field: fmt.Sprintf("pattern.%s.min_sample_30", p.Name), Reason: "must be at least 1"}
	}
	return nil
}

// Settleable reports whether the record carries every statistic the
// predicate needs, so its outcome can be judged.
func (p *Pattern) Settleable(record MatchRecord) bool {
	return record.Has(p.Requires...)
}

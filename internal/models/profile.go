package models

import (
	"fmt"
	"math"
	"sort"
)

// WeightSumTolerance is the floating tolerance used when checking that a
// profile's weights sum to 1.
const WeightSumTolerance = 1e-9

// TimeframeWindow pairs a trailing lookback length with its ensemble weight.
type TimeframeWindow struct {
	Days   int     `mapstructure:"days" json:"days" validate:"required,gt=0"`
	Weight float64 `mapstructure:"weight" json:"weight" validate:"gte=0,lte=1"`
}

// WeightProfile is an ordered set of timeframe windows whose weights sum to
// 1.0. Profiles are configuration data, validated at construction and never
// mutated afterwards.
type WeightProfile struct {
	Name    string
	Windows []TimeframeWindow
}

// NewWeightProfile validates and normalizes the window set: windows are
// sorted ascending by lookback length, lengths must be unique and positive,
// weights must lie in [0,1] and sum to 1 within WeightSumTolerance.
func NewWeightProfile(name string, windows []TimeframeWindow) (WeightProfile, error) {
	if len(windows) == 0 {
		return WeightProfile{}, &ConfigError{
			Field:  fmt.Sprintf("profile.%s", name),
			Reason: "must contain at least one window",
		}
	}

	sorted := make([]TimeframeWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Days < sorted[j].Days })

	sum := 0.0
	seen := make(map[int]bool, len(sorted))
	for _, w := range sorted {
		if w.Days <= 0 {
			return WeightProfile{}, &ConfigError{
				Field:  fmt.Sprintf("profile.%s.days", name),
				Reason: fmt.Sprintf("lookback must be positive, got %d", w.Days),
			}
		}
		if seen[w.Days] {
			return WeightProfile{}, &ConfigError{
				Field:  fmt.Sprintf("profile.%s.days", name),
				Reason: fmt.Sprintf("duplicate %d-day window", w.Days),
			}
		}
		seen[w.Days] = true
		if w.Weight < 0 || w.Weight > 1 {
			return WeightProfile{}, &ConfigError{
				Field:  fmt.Sprintf("profile.%s.weight", name),
				Reason: fmt.Sprintf("weight for %d-day window must be in [0,1], got %v", w.Days, w.Weight),
			}
		}
		sum += w.Weight
	}

	if math.Abs(sum-1.0) > WeightSumTolerance {
		return WeightProfile{}, &ConfigError{
			Field:  fmt.Sprintf("profile.%s", name),
			Reason: fmt.Sprintf("weights must sum to 1.0, got %.12f", sum),
		}
	}

	return WeightProfile{Name: name, Windows: sorted}, nil
}

// ShortestDays returns the shortest lookback in the profile.
func (p WeightProfile) ShortestDays() int {
	return p.Windows[0].Days
}

// LongestDays returns the longest lookback in the profile.
func (p WeightProfile) LongestDays() int {
	return p.Windows[len(p.Windows)-1].Days
}

package models

import "time"

// WindowStatistic is the sample a single timeframe window contributes to an
// estimate: how many matches fell inside the window and how often the
// pattern hit. A window with no matches is undefined and carries no rate.
type WindowStatistic struct {
	Days    int     `json:"days"`
	Weight  float64 `json:"weight"`
	Count   int     `json:"count"`
	Hits    int     `json:"hits"`
	Rate    float64 `json:"rate"`
	Defined bool    `json:"defined"`
}

// ConfidenceEstimate is the engine's full breakdown for one pattern and
// fixture date. It is derived on demand from the corpus and never persisted
// as a source of truth.
type ConfidenceEstimate struct {
	PatternName    string            `json:"pattern_name"`
	FixtureDate    time.Time         `json:"fixture_date"`
	Raw            float64           `json:"raw"`
	TrendAdj       float64           `json:"trend_adjustment"`
	ConsistencyAdj float64           `json:"consistency_adjustment"`
	SampleAdj      float64           `json:"sample_adjustment"`
	Final          float64           `json:"final"`
	Windows        []WindowStatistic `json:"windows"`
}

// SampleSize returns the total match count across defined windows. Windows
// overlap, so this is an upper bound on distinct matches, useful only for
// logging.
func (e ConfidenceEstimate) SampleSize() int {
	total := 0
	for _, w := range e.Windows {
		if w.Defined {
			total += w.Count
		}
	}
	return total
}

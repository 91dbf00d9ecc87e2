// Package logger provides engine-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for confidence engine operations.
// Estimates log at debug level so a full breakdown trail can be switched on
// without drowning production output.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogEstimate logs a completed confidence estimate with its adjustment breakdown.
func (el *EngineLogger) LogEstimate(pattern string, fixtureDate time.Time, raw, trend, consistency, sample, final float64, definedWindows int) {
	el.WithFields(logrus.Fields{
		"pattern":                pattern,
		"fixture_date":           fixtureDate.Format("2006-01-02"),
		"raw_confidence":         raw,
		"trend_adjustment":       trend,
		"consistency_adjustment": consistency,
		"sample_adjustment":      sample,
		"final_confidence":       final,
		"defined_windows":        definedWindows,
	}).Debug("Confidence estimate computed")
}

// LogInsufficientHistory logs a pattern excluded because no window had data.
func (el *EngineLogger) LogInsufficientHistory(pattern string, fixtureDate time.Time) {
	el.WithFields(logrus.Fields{
		"pattern":      pattern,
		"fixture_date": fixtureDate.Format("2006-01-02"),
	}).Debug("Pattern excluded: no history in any window")
}

// LogProfileSelection logs which weight profile a competition resolved to.
func (el *EngineLogger) LogProfileSelection(competition, profile string, windows int) {
	el.WithFields(logrus.Fields{
		"competition": competition,
		"profile":     profile,
		"windows":     windows,
	}).Info("Weight profile selected")
}

// LogCacheStats logs window-statistic cache effectiveness.
func (el *EngineLogger) LogCacheStats(hits, misses int64, hitRate float64, entries int) {
	el.WithFields(logrus.Fields{
		"hits":     hits,
		"misses":   misses,
		"hit_rate": hitRate,
		"entries":  entries,
	}).Info("Window statistic cache stats")
}

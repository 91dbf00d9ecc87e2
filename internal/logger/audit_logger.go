// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for recommendations and their
// settlement, so every emitted bet can be traced after the fact.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRecommendation logs a recommendation emitted for a fixture.
func (al *AuditLogger) LogRecommendation(fixtureKey, pattern string, category string, confidence, riskAdjusted, threshold, margin float64) {
	al.WithFields(logrus.Fields{
		"fixture":       fixtureKey,
		"pattern":       pattern,
		"category":      category,
		"confidence":    confidence,
		"risk_adjusted": riskAdjusted,
		"threshold":     threshold,
		"margin":        margin,
	}).Info("Recommendation recorded")
}

// LogNoRecommendation logs a fixture that produced no qualifying pattern.
func (al *AuditLogger) LogNoRecommendation(fixtureKey string, candidates int) {
	al.WithFields(logrus.Fields{
		"fixture":    fixtureKey,
		"candidates": candidates,
	}).Debug("No pattern qualified for fixture")
}

// LogSettlement logs the settled outcome of a recommendation.
func (al *AuditLogger) LogSettlement(fixtureKey, pattern string, won bool, profit string) {
	al.WithFields(logrus.Fields{
		"fixture": fixtureKey,
		"pattern": pattern,
		"won":     won,
		"profit":  profit,
	}).Info("Recommendation settled")
}

// LogUnresolvedFixture logs a fixture whose outcome could not be settled.
func (al *AuditLogger) LogUnresolvedFixture(fixtureKey, pattern, reason string) {
	al.WithFields(logrus.Fields{
		"fixture": fixtureKey,
		"pattern": pattern,
		"reason":  reason,
	}).Warn("Fixture left unresolved")
}

// LogEvaluationRun logs the summary of a completed walk-forward run.
func (al *AuditLogger) LogEvaluationRun(runID, competition, profile string, start, end time.Time, bets int, winRate float64, profit string) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"competition": competition,
		"profile":     profile,
		"start_date":  start.Format("2006-01-02"),
		"end_date":    end.Format("2006-01-02"),
		"bets":        bets,
		"win_rate":    winRate,
		"profit":      profit,
	}).Info("Evaluation run completed")
}

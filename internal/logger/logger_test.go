package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerDefaultsToInfoOnBadLevel(t *testing.T) {
	log := NewLogger("not-a-level", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	log := NewLogger("debug", "production")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok, "production logger should use the JSON formatter")
}

func TestEngineLoggerEstimate(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogEstimate(
		"home_over_2_5_corners",
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		0.8375,
		0.02,
		-0.02,
		0,
		0.8375,
		5,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "home_over_2_5_corners", logEntry["pattern"])
	assert.Equal(t, "engine", logEntry["component"])
	assert.Equal(t, 0.8375, logEntry["final_confidence"])
}

func TestEngineLoggerInsufficientHistory(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogInsufficientHistory("btts", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "btts", logEntry["pattern"])
	assert.Equal(t, "2024-08-01", logEntry["fixture_date"])
}

func TestEngineLoggerCacheStats(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogCacheStats(90, 10, 0.9, 42)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, 0.9, logEntry["hit_rate"])
}

func TestAuditLoggerRecommendation(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogRecommendation(
		"premier_league|2024-03-10|Arsenal|Chelsea",
		"home_over_2_5_corners",
		"CORNERS",
		0.8375,
		0.8175,
		0.55,
		0.2675,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "home_over_2_5_corners", logEntry["pattern"])
	assert.Equal(t, 0.2675, logEntry["margin"])
}

func TestAuditLoggerSettlement(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogSettlement("premier_league|2024-03-10|Arsenal|Chelsea", "btts", true, "0.85")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, true, logEntry["won"])
	assert.Equal(t, "0.85", logEntry["profit"])
}

func TestAuditLoggerUnresolvedFixture(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogUnresolvedFixture(
		"serie_a|2024-01-07|Lazio|Roma",
		"home_over_3_5_corners",
		"missing statistic home_corners",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "missing statistic home_corners", logEntry["reason"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogEvaluationRun(
		"e7a8f3c1",
		"premier_league",
		"extreme_recent",
		time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC),
		231,
		0.64,
		"18.40",
	)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkEngineLoggerEstimate(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	engineLogger := NewEngineLogger(log)
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < b.N; i++ {
		engineLogger.LogEstimate("home_over_2_5_corners", date, 0.8375, 0.02, -0.02, 0, 0.8375, 5)
	}
}

func BenchmarkAuditLoggerRecommendation(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogRecommendation("premier_league|2024-03-10|Arsenal|Chelsea", "btts", "GOALS", 0.7, 0.64, 0.6, 0.04)
	}
}

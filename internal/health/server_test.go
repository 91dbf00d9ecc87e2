package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

func testServer(db DatabasePinger) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(Config{
		ServiceName: "pattern-edge",
		Version:     "1.2.3",
		Commit:      "abc1234",
		Port:        8080,
		Logger:      logger,
		DB:          db,
	})
}

func TestHandleHealth(t *testing.T) {
	s := testServer(nil)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "pattern-edge", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "abc1234", body.Commit)
	assert.NotEmpty(t, body.Timestamp)
}

func TestHandleLive(t *testing.T) {
	s := testServer(nil)
	rec := httptest.NewRecorder()

	s.handleLive(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Timestamp)
}

func TestHandleReadyGate(t *testing.T) {
	s := testServer(nil)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "not_ready", body.Checks["service"])

	s.SetReady(true)
	assert.True(t, s.IsReady())

	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["service"])
}

func TestHandleReadyDatabaseCheck(t *testing.T) {
	pinger := &fakePinger{}
	s := testServer(pinger)
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Checks["database"])

	pinger.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Contains(t, body.Checks["database"], "connection refused")
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, testServer(nil).Shutdown())
}

// Package datasource fetches historical full-time results as season CSV
// files, either from football-data.co.uk or from a local mirror of its
// directory layout.
package datasource

import (
	"context"
	"errors"
	"io"
)

// DataSource fetches one season of results for a competition as a raw CSV
// stream in football-data.co.uk column format. The caller owns the returned
// reader and must close it.
type DataSource interface {
	// FetchSeason retrieves the season results file for a competition.
	// season is the site's four-digit token, e.g. "2324" for 2023/24.
	FetchSeason(ctx context.Context, competition, season string) (io.ReadCloser, error)

	// Name returns the name of the data source
	Name() string
}

// Common error codes
const (
	ErrCodeNotFound           = "not_found"
	ErrCodeNetworkError       = "network_error"
	ErrCodeServerError        = "server_error"
	ErrCodeCircuitOpen        = "circuit_open"
	ErrCodeUnknownCompetition = "unknown_competition"
	ErrCodeInvalidSeason      = "invalid_season"
	ErrCodeUnknown            = "unknown"
)

// Sentinel errors for errors.Is checks across source implementations
var (
	ErrNotFound           = errors.New("season data not found")
	ErrCircuitOpen        = errors.New("circuit breaker open")
	ErrUnknownCompetition = errors.New("unknown competition")
	ErrInvalidSeason      = errors.New("invalid season token")
)

// SourceError represents errors from data source operations
type SourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g. "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new data source error
func NewSourceError(source, code, message string, err error) *SourceError {
	return &SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

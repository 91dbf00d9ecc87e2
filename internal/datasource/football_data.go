package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/metrics"
)

const footballDataName = "football-data"

// competitionCodes maps canonical competition names to the division codes
// football-data.co.uk uses in its CSV paths.
var competitionCodes = map[string]string{
	"premier_league": "E0",
	"serie_a":        "I1",
	"la_liga":        "SP1",
	"bundesliga":     "D1",
	"ligue_1":        "F1",
}

// CompetitionCode resolves the division code for a canonical competition
// name, e.g. "serie_a" to "I1".
func CompetitionCode(competition string) (string, error) {
	code, ok := competitionCodes[competition]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCompetition, competition)
	}
	return code, nil
}

// validSeason reports whether season is the site's four-digit token, e.g.
// "2324" for the 2023/24 season.
func validSeason(season string) bool {
	if len(season) != 4 {
		return false
	}
	for _, r := range season {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FootballDataSource downloads season result CSVs from football-data.co.uk
type FootballDataSource struct {
	client  *RateLimitedHTTPClient
	baseURL string
	logger  *logrus.Logger
}

// NewFootballDataSource creates a source backed by the site's season archive
func NewFootballDataSource(cfg *config.DatasourceConfig, logger *logrus.Logger) *FootballDataSource {
	if logger == nil {
		logger = logrus.New()
	}
	client := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:          cfg.Timeout,
		MaxRetries:       cfg.MaxRetries,
		RateLimit:        cfg.RateLimit,
		Burst:            cfg.Burst,
		FailureThreshold: cfg.FailureThreshold,
		Cooldown:         cfg.Cooldown,
	}, logger)

	return &FootballDataSource{
		client:  client,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// FetchSeason downloads the results file at {base}/mmz4281/{season}/{div}.csv
func (s *FootballDataSource) FetchSeason(ctx context.Context, competition, season string) (io.ReadCloser, error) {
	code, err := CompetitionCode(competition)
	if err != nil {
		return nil, NewSourceError(footballDataName, ErrCodeUnknownCompetition,
			"no division code for "+competition, err)
	}
	if !validSeason(season) {
		return nil, NewSourceError(footballDataName, ErrCodeInvalidSeason,
			fmt.Sprintf("season must be a four-digit token, got %q", season), ErrInvalidSeason)
	}

	url := fmt.Sprintf("%s/mmz4281/%s/%s.csv", s.baseURL, season, code)
	s.logger.WithFields(logrus.Fields{
		"competition": competition,
		"season":      season,
		"url":         url,
	}).Debug("Downloading season results")

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		metrics.RecordSeasonDownload("failure")
		var srcErr *SourceError
		if errors.As(err, &srcErr) {
			return nil, err
		}
		return nil, NewSourceError(footballDataName, ErrCodeNetworkError,
			"failed to download "+url, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		metrics.RecordSeasonDownload("not_found")
		return nil, NewSourceError(footballDataName, ErrCodeNotFound,
			fmt.Sprintf("season %s not published for %s", season, competition), ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		metrics.RecordSeasonDownload("failure")
		return nil, NewSourceError(footballDataName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	metrics.RecordSeasonDownload("success")
	return resp.Body, nil
}

// Name returns the name of the data source
func (s *FootballDataSource) Name() string {
	return footballDataName
}

// Close releases the underlying HTTP client
func (s *FootballDataSource) Close() error {
	return s.client.Close()
}

package datasource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/metrics"
)

const localCSVName = "csv"

// LocalCSVSource reads season files from a directory tree mirroring the
// site's layout, {root}/{season}/{code}.csv. It backs offline ingestion and
// repeatable backtests against a fixed snapshot.
type LocalCSVSource struct {
	root   string
	logger *logrus.Logger
}

// NewLocalCSVSource creates a source over a local mirror. The configured
// base URL may be a plain directory path or a file:// URL.
func NewLocalCSVSource(cfg *config.DatasourceConfig, logger *logrus.Logger) (*LocalCSVSource, error) {
	if logger == nil {
		logger = logrus.New()
	}

	root := cfg.BaseURL
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Scheme == "file" {
		root = u.Path
	}
	if root == "" {
		return nil, fmt.Errorf("csv datasource requires a base_url directory")
	}

	return &LocalCSVSource{root: root, logger: logger}, nil
}

// FetchSeason opens the mirrored results file for a competition and season
func (s *LocalCSVSource) FetchSeason(ctx context.Context, competition, season string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code, err := CompetitionCode(competition)
	if err != nil {
		return nil, NewSourceError(localCSVName, ErrCodeUnknownCompetition,
			"no division code for "+competition, err)
	}
	if !validSeason(season) {
		return nil, NewSourceError(localCSVName, ErrCodeInvalidSeason,
			fmt.Sprintf("season must be a four-digit token, got %q", season), ErrInvalidSeason)
	}

	path := filepath.Join(s.root, season, code+".csv")
	s.logger.WithFields(logrus.Fields{
		"competition": competition,
		"season":      season,
		"path":        path,
	}).Debug("Reading season results from mirror")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			metrics.RecordSeasonDownload("not_found")
			return nil, NewSourceError(localCSVName, ErrCodeNotFound,
				"no mirrored file at "+path, ErrNotFound)
		}
		metrics.RecordSeasonDownload("failure")
		return nil, NewSourceError(localCSVName, ErrCodeUnknown, "failed to open "+path, err)
	}

	metrics.RecordSeasonDownload("success")
	return f, nil
}

// Name returns the name of the data source
func (s *LocalCSVSource) Name() string {
	return localCSVName
}

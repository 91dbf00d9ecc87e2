// Package service wires datasources, the engine and the repositories into
// the ingestion and prediction workflows the commands and the scheduler run.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/datasource"
	"github.com/yourusername/pattern-edge/internal/metrics"
	"github.com/yourusername/pattern-edge/internal/models"
	"github.com/yourusername/pattern-edge/internal/repository"
)

const defaultBatchSize = 200

// IngestionService turns season CSV files into stored match records:
// fetch, parse, normalize, validate, deduplicate, persist in batches.
type IngestionService struct {
	source     datasource.DataSource
	matches    repository.MatchRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	logger     *logrus.Logger
	batchSize  int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.DataSource,
	matches repository.MatchRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	logger *logrus.Logger,
	batchSize int,
) *IngestionService {
	if logger == nil {
		logger = logrus.New()
	}
	if validator == nil {
		validator = NewDataValidator(logger)
	}
	if normalizer == nil {
		normalizer = NewDataNormalizer(logger)
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &IngestionService{
		source:     source,
		matches:    matches,
		validator:  validator,
		normalizer: normalizer,
		logger:     logger,
		batchSize:  batchSize,
	}
}

// IngestSeason downloads one season of one competition and stores its
// completed fixtures. Rows already present in the database are skipped,
// so re-ingesting a season refreshed mid-way is safe.
func (s *IngestionService) IngestSeason(ctx context.Context, competition, season string) (*IngestionReport, error) {
	s.logger.WithFields(logrus.Fields{
		"competition": competition,
		"season":      season,
		"source":      s.source.Name(),
	}).Info("Starting season ingestion")

	body, err := s.source.FetchSeason(ctx, competition, season)
	if err != nil {
		metrics.RecordIngestionError()
		return nil, fmt.Errorf("failed to fetch %s season %s: %w", competition, season, err)
	}
	defer body.Close()

	report, err := s.IngestCSV(ctx, competition, season, body)
	if err != nil {
		return report, err
	}

	s.logger.WithFields(logrus.Fields{
		"competition": competition,
		"season":      season,
		"rows":        report.Rows,
		"inserted":    report.Inserted,
		"skipped":     report.SkippedTotal(),
		"duration":    report.Duration.String(),
	}).Info("Season ingestion complete")
	return report, nil
}

// IngestSeasons ingests every configured competition and season in turn.
// Seasons the provider has not published yet are skipped; other failures
// are counted and the remaining seasons still run.
func (s *IngestionService) IngestSeasons(ctx context.Context, competitions, seasons []string) (*IngestionReport, error) {
	combined := NewIngestionReport("all", "all")
	for _, competition := range competitions {
		for _, season := range seasons {
			if err := ctx.Err(); err != nil {
				return combined, err
			}

			report, err := s.IngestSeason(ctx, competition, season)
			if err != nil {
				if errors.Is(err, datasource.ErrNotFound) {
					s.logger.WithFields(logrus.Fields{
						"competition": competition,
						"season":      season,
					}).Warn("Season not published, skipping")
					continue
				}
				combined.addError()
				s.logger.WithError(err).WithFields(logrus.Fields{
					"competition": competition,
					"season":      season,
				}).Error("Season ingestion failed")
				continue
			}
			combined.Merge(report)
		}
	}
	return combined, nil
}

// IngestCSV stores the completed fixtures of an already-opened season file.
func (s *IngestionService) IngestCSV(ctx context.Context, competition, season string, r io.Reader) (*IngestionReport, error) {
	started := time.Now()
	report := NewIngestionReport(competition, season)

	err := s.ingest(ctx, report, competition, r)
	report.Duration = time.Since(started)
	metrics.RecordIngestionDuration(report.Duration.Seconds())
	return report, err
}

func (s *IngestionService) ingest(ctx context.Context, report *IngestionReport, competition string, r io.Reader) error {
	rows, err := ReadSeasonCSV(r)
	if err != nil {
		report.addError()
		metrics.RecordIngestionError()
		return fmt.Errorf("failed to parse %s season file: %w", competition, err)
	}
	report.addRows(len(rows))

	seen := make(map[string]bool, len(rows))
	batch := make([]models.MatchRecord, 0, s.batchSize)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := s.normalizer.MatchRecord(competition, row)
		if err != nil {
			s.skipRow(report, err)
			continue
		}
		if problems := s.validator.ValidateRecord(record); len(problems) > 0 {
			report.skip(skipValidation, 1)
			metrics.RecordSkipped(skipValidation, 1)
			s.logger.WithFields(logrus.Fields{
				"line":     row.Line,
				"fixture":  record.Key(),
				"problems": strings.Join(problems, "; "),
			}).Warn("Skipping invalid row")
			continue
		}
		if seen[record.Key()] {
			report.skip(skipDuplicate, 1)
			metrics.RecordSkipped(skipDuplicate, 1)
			continue
		}
		seen[record.Key()] = true

		batch = append(batch, record)
		if len(batch) >= s.batchSize {
			if err := s.flush(ctx, report, competition, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return s.flush(ctx, report, competition, batch)
	}
	return nil
}

func (s *IngestionService) skipRow(report *IngestionReport, err error) {
	reason := skipValidation
	var re *rowError
	if errors.As(err, &re) {
		reason = re.reason
	}
	report.skip(reason, 1)
	metrics.RecordSkipped(reason, 1)
	s.logger.WithField("reason", reason).Debugf("Skipping row: %v", err)
}

// flush persists one batch. InsertBatch reports how many records were new;
// the remainder were already stored by an earlier run.
func (s *IngestionService) flush(ctx context.Context, report *IngestionReport, competition string, batch []models.MatchRecord) error {
	inserted, err := s.matches.InsertBatch(ctx, batch)
	if err != nil {
		report.addError()
		metrics.RecordIngestionError()
		return fmt.Errorf("failed to store %s records: %w", competition, err)
	}

	report.addInserted(inserted)
	metrics.RecordIngested(competition, inserted)
	if duplicates := len(batch) - inserted; duplicates > 0 {
		report.skip(skipDuplicate, duplicates)
		metrics.RecordSkipped(skipDuplicate, duplicates)
	}
	return nil
}

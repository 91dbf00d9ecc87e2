package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pattern-edge/internal/models"
)

func validRecord() models.MatchRecord {
	return models.NewMatchRecord("serie_a",
		time.Date(2023, 9, 16, 0, 0, 0, 0, time.UTC),
		"Juventus", "Lazio",
		map[string]float64{models.StatHomeGoals: 3, models.StatAwayGoals: 1})
}

func TestValidateRecord(t *testing.T) {
	validator := NewDataValidator(discardLogger())

	tests := []struct {
		name    string
		mutate  func(*models.MatchRecord)
		problem string
	}{
		{
			name:   "valid record",
			mutate: func(r *models.MatchRecord) {},
		},
		{
			name:    "missing competition",
			mutate:  func(r *models.MatchRecord) { r.Competition = "" },
			problem: "competition",
		},
		{
			name:    "empty home team",
			mutate:  func(r *models.MatchRecord) { r.HomeTeam = "" },
			problem: "home team",
		},
		{
			name:    "identical teams",
			mutate:  func(r *models.MatchRecord) { r.AwayTeam = r.HomeTeam },
			problem: "both",
		},
		{
			name:    "zero date",
			mutate:  func(r *models.MatchRecord) { r.Date = time.Time{} },
			problem: "date is required",
		},
		{
			name: "prehistoric date",
			mutate: func(r *models.MatchRecord) {
				r.Date = time.Date(1988, 5, 7, 0, 0, 0, 0, time.UTC)
			},
			problem: "predates",
		},
		{
			name: "future date",
			mutate: func(r *models.MatchRecord) {
				r.Date = models.Day(time.Now().UTC().AddDate(0, 0, 10))
			},
			problem: "future",
		},
		{
			name:    "missing goals",
			mutate:  func(r *models.MatchRecord) { delete(r.Stats, models.StatAwayGoals) },
			problem: "goals",
		},
		{
			name:    "negative count",
			mutate:  func(r *models.MatchRecord) { r.Stats[models.StatHomeCorners] = -3 },
			problem: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(&record)

			problems := validator.ValidateRecord(record)
			if tt.problem == "" {
				assert.Empty(t, problems)
				return
			}
			assert.NotEmpty(t, problems)
			assert.Contains(t, strings.Join(problems, "; "), tt.problem)
		})
	}
}

func TestIsValidTeamName(t *testing.T) {
	validator := NewDataValidator(discardLogger())

	assert.True(t, validator.IsValidTeamName("Juventus"))
	assert.False(t, validator.IsValidTeamName(""))
	assert.False(t, validator.IsValidTeamName(strings.Repeat("x", 100)))
}

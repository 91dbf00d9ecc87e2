package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/models"
)

// The archive starts with the 1993-94 season; anything earlier is garbage.
const minMatchYear = 1993

// DataValidator checks normalized match records before persistence
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &DataValidator{logger: logger}
}

// ValidateRecord validates a normalized record for required fields and
// constraints. An empty result means the record is storable.
func (v *DataValidator) ValidateRecord(record models.MatchRecord) []string {
	var problems []string

	if record.Competition == "" {
		problems = append(problems, "competition is required")
	}
	if !v.IsValidTeamName(record.HomeTeam) {
		problems = append(problems, fmt.Sprintf("invalid home team name %q", record.HomeTeam))
	}
	if !v.IsValidTeamName(record.AwayTeam) {
		problems = append(problems, fmt.Sprintf("invalid away team name %q", record.AwayTeam))
	}
	if record.HomeTeam != "" && record.HomeTeam == record.AwayTeam {
		problems = append(problems, fmt.Sprintf("home and away teams are both %q", record.HomeTeam))
	}

	if record.Date.IsZero() {
		problems = append(problems, "match date is required")
	} else {
		if record.Date.Year() < minMatchYear {
			problems = append(problems, fmt.Sprintf("match date %s predates the archive", record.Date.Format("2006-01-02")))
		}
		if record.Date.After(time.Now().UTC().Add(24 * time.Hour)) {
			problems = append(problems, fmt.Sprintf("match date %s is in the future", record.Date.Format("2006-01-02")))
		}
	}

	if !record.Has(models.StatHomeGoals, models.StatAwayGoals) {
		problems = append(problems, "full-time goals are required")
	}
	for name, value := range record.Stats {
		if value < 0 {
			problems = append(problems, fmt.Sprintf("negative %s count %v", name, value))
		}
	}

	return problems
}

// IsValidTeamName checks if a team name is in expected format
func (v *DataValidator) IsValidTeamName(name string) bool {
	return len(name) > 0 && len(name) < 100
}

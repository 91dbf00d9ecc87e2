package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/models"
)

// Skip reasons recorded when an ingested row cannot become a MatchRecord.
const (
	skipInvalidDate   = "invalid_date"
	skipMissingColumn = "missing_column"
	skipDuplicate     = "duplicate"
	skipNegativeCount = "negative_count"
	skipAbandoned     = "abandoned"
	skipValidation    = "validation"
)

// rowError rejects a single season-file row with a metrics-friendly reason.
type rowError struct {
	reason string
	msg    string
}

func (e *rowError) Error() string { return e.msg }

// Columns every usable row must carry a value for.
var requiredColumns = []string{colDate, colHomeTeam, colAwayTeam, "FTHG", "FTAG"}

// statColumns maps optional football-data columns to statistic names.
var statColumns = []struct {
	column string
	stat   string
}{
	{"HTHG", models.StatHalfTimeHomeGoals},
	{"HTAG", models.StatHalfTimeAwayGoals},
	{"HC", models.StatHomeCorners},
	{"AC", models.StatAwayCorners},
	{"HY", models.StatHomeYellowCards},
	{"AY", models.StatAwayYellowCards},
	{"HR", models.StatHomeRedCards},
	{"AR", models.StatAwayRedCards},
	{"HF", models.StatHomeFouls},
	{"AF", models.StatAwayFouls},
	{"HS", models.StatHomeShots},
	{"AS", models.StatAwayShots},
	{"HST", models.StatHomeShotsOnTarget},
	{"AST", models.StatAwayShotsOnTarget},
}

// Result markers football-data uses for postponed, cancelled, awarded and
// abandoned fixtures.
var abandonedResults = map[string]bool{
	"Psp.": true,
	"Can.": true,
	"Awd.": true,
	"Abd.": true,
}

// Sentinel values some archive seasons use for a missing count.
var sentinelValues = map[float64]bool{-1: true, -99: true, 999: true}

// DataNormalizer converts season-file rows into canonical match records:
// UTC calendar-day dates, canonical team names, statistics keyed by the
// internal names the pattern catalog evaluates.
type DataNormalizer struct {
	teamNameMap map[string]string
	divisionMap map[string]string
	logger      *logrus.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *logrus.Logger) *DataNormalizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &DataNormalizer{
		teamNameMap: buildTeamNameMap(),
		divisionMap: buildDivisionMap(),
		logger:      logger,
	}
}

// MatchRecord converts one season-file row into a MatchRecord for the given
// competition. Rows that cannot be converted fail with a rowError carrying
// the skip reason the ingestion metrics use.
func (n *DataNormalizer) MatchRecord(competition string, row SeasonRow) (models.MatchRecord, error) {
	for _, column := range requiredColumns {
		if !row.Has(column) {
			return models.MatchRecord{}, &rowError{
				reason: skipMissingColumn,
				msg:    fmt.Sprintf("line %d has no %s value", row.Line, column),
			}
		}
	}
	if abandonedResults[row.Field(colResult)] {
		return models.MatchRecord{}, &rowError{
			reason: skipAbandoned,
			msg:    fmt.Sprintf("line %d is marked %s", row.Line, row.Field(colResult)),
		}
	}

	date, err := n.ParseMatchDate(row.Field(colDate))
	if err != nil {
		return models.MatchRecord{}, &rowError{
			reason: skipInvalidDate,
			msg:    fmt.Sprintf("line %d: %v", row.Line, err),
		}
	}

	homeGoals, err := parseGoals(row, "FTHG")
	if err != nil {
		return models.MatchRecord{}, err
	}
	awayGoals, err := parseGoals(row, "FTAG")
	if err != nil {
		return models.MatchRecord{}, err
	}

	stats := map[string]float64{
		models.StatHomeGoals: homeGoals,
		models.StatAwayGoals: awayGoals,
	}
	for _, sc := range statColumns {
		if !row.Has(sc.column) {
			continue
		}
		value, err := strconv.ParseFloat(row.Field(sc.column), 64)
		if err != nil {
			n.logger.WithFields(logrus.Fields{
				"line":   row.Line,
				"column": sc.column,
				"value":  row.Field(sc.column),
			}).Debug("Dropping unreadable statistic")
			continue
		}
		if value < 0 || sentinelValues[value] {
			continue
		}
		stats[sc.stat] = value
	}
	deriveCardTotals(stats)

	return models.NewMatchRecord(
		competition,
		date,
		n.NormalizeTeamName(row.Field(colHomeTeam)),
		n.NormalizeTeamName(row.Field(colAwayTeam)),
		stats,
	), nil
}

// parseGoals reads a required full-time goal column. Negative values mark
// unplayed or voided fixtures in some archive seasons.
func parseGoals(row SeasonRow, column string) (float64, error) {
	value, err := strconv.ParseFloat(row.Field(column), 64)
	if err != nil {
		return 0, &rowError{
			reason: skipMissingColumn,
			msg:    fmt.Sprintf("line %d has unreadable %s %q", row.Line, column, row.Field(column)),
		}
	}
	if value < 0 {
		return 0, &rowError{
			reason: skipNegativeCount,
			msg:    fmt.Sprintf("line %d has negative %s %v", row.Line, column, value),
		}
	}
	return value, nil
}

// deriveCardTotals adds the combined card counts the card patterns read.
// Yellow and red cards are summed per side; a missing red-card column
// counts as zero once yellows are known.
func deriveCardTotals(stats map[string]float64) {
	if yellow, ok := stats[models.StatHomeYellowCards]; ok {
		stats[models.StatHomeCards] = yellow + stats[models.StatHomeRedCards]
	}
	if yellow, ok := stats[models.StatAwayYellowCards]; ok {
		stats[models.StatAwayCards] = yellow + stats[models.StatAwayRedCards]
	}
}

// NormalizeTeamName collapses whitespace and maps provider short names to
// canonical club names. Unknown names pass through trimmed.
func (n *DataNormalizer) NormalizeTeamName(name string) string {
	trimmed := strings.Join(strings.Fields(name), " ")
	if canonical, ok := n.teamNameMap[strings.ToUpper(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// ParseMatchDate parses the dd/mm/yyyy and dd/mm/yy formats the archive
// mixes across seasons. Results are UTC calendar days.
func (n *DataNormalizer) ParseMatchDate(value string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return models.Day(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised match date %q", value)
}

// CompetitionFromDivision maps a football-data division code to the
// competition name used throughout the system.
func (n *DataNormalizer) CompetitionFromDivision(code string) (string, error) {
	competition, ok := n.divisionMap[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", fmt.Errorf("unknown division code %q", code)
	}
	return competition, nil
}

// buildDivisionMap returns the division codes of the supported competitions
func buildDivisionMap() map[string]string {
	return map[string]string{
		"E0":  "premier_league",
		"I1":  "serie_a",
		"SP1": "la_liga",
		"D1":  "bundesliga",
		"F1":  "ligue_1",
	}
}

// buildTeamNameMap returns mapping of provider team name variations to
// canonical names
func buildTeamNameMap() map[string]string {
	return map[string]string{
		// England
		"MAN UNITED":     "Manchester United",
		"MAN UTD":        "Manchester United",
		"MAN CITY":       "Manchester City",
		"NOTT'M FOREST":  "Nottingham Forest",
		"NOTTM FOREST":   "Nottingham Forest",
		"SPURS":          "Tottenham Hotspur",
		"TOTTENHAM":      "Tottenham Hotspur",
		"NEWCASTLE":      "Newcastle United",
		"WEST HAM":       "West Ham United",
		"WEST BROM":      "West Bromwich Albion",
		"WOLVES":         "Wolverhampton Wanderers",
		"LEICESTER":      "Leicester City",
		"LEEDS":          "Leeds United",
		"NORWICH":        "Norwich City",
		"SHEFFIELD WEDS": "Sheffield Wednesday",
		"QPR":            "Queens Park Rangers",
		// Italy
		"MILAN":    "AC Milan",
		"AC MILAN": "AC Milan",
		"INTER":    "Inter Milan",
		"ROMA":     "AS Roma",
		// Spain
		"ATH MADRID": "Atletico Madrid",
		"ATH BILBAO": "Athletic Bilbao",
		"ESPANOL":    "Espanyol",
		"SOCIEDAD":   "Real Sociedad",
		"BETIS":      "Real Betis",
		"CELTA":      "Celta Vigo",
		// Germany
		"DORTMUND":      "Borussia Dortmund",
		"M'GLADBACH":    "Borussia Monchengladbach",
		"MGLADBACH":     "Borussia Monchengladbach",
		"LEVERKUSEN":    "Bayer Leverkusen",
		"EIN FRANKFURT": "Eintracht Frankfurt",
		"HERTHA":        "Hertha Berlin",
		// France
		"PARIS SG":   "Paris Saint-Germain",
		"ST ETIENNE": "Saint-Etienne",
	}
}

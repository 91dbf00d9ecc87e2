package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Column names used by football-data.co.uk season files.
const (
	colDivision = "Div"
	colDate     = "Date"
	colHomeTeam = "HomeTeam"
	colAwayTeam = "AwayTeam"
	colResult   = "FTR"
)

// SeasonRow is one data line of a season file, indexed by header name.
type SeasonRow struct {
	Line   int
	fields map[string]string
}

// Field returns the trimmed cell under the named column, or "" when the
// column is absent or the cell is empty.
func (r SeasonRow) Field(name string) string {
	return r.fields[name]
}

// Has reports whether the named column carries a non-empty value.
func (r SeasonRow) Has(name string) bool {
	return r.fields[name] != ""
}

// ReadSeasonCSV parses a season file into header-indexed rows. Files are
// decoded as UTF-8 when valid and as Windows-1252 otherwise, which is the
// encoding football-data.co.uk actually serves for accented team names.
// Ragged rows are tolerated; trailing empty cells are common in the archive.
func ReadSeasonCSV(r io.Reader) ([]SeasonRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read season file: %w", err)
	}
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode season file: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("season file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read season header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	var rows []SeasonRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to parse season file line %d: %w", line, err)
		}
		if isBlankRow(record) {
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			if value := strings.TrimSpace(record[i]); value != "" {
				fields[name] = value
			}
		}
		rows = append(rows, SeasonRow{Line: line, fields: fields})
	}
	return rows, nil
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

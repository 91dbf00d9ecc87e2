package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/pattern-edge/internal/models"
)

// GenerateConsoleReport formats a run result for terminal output.
func GenerateConsoleReport(result *Result) string {
	var builder strings.Builder
	builder.WriteString("Walk-Forward Evaluation\n")
	builder.WriteString("=======================\n")
	builder.WriteString(fmt.Sprintf("Run:           %s\n", result.RunID))
	builder.WriteString(fmt.Sprintf("Competition:   %s\n", result.Competition))
	builder.WriteString(fmt.Sprintf("Profile:       %s\n", result.Profile))
	builder.WriteString(fmt.Sprintf("Period:        %s to %s\n",
		result.Start.Format("2006-01-02"), result.End.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Fixtures:      %d (%d without a bet)\n", result.Fixtures, result.NoBet))
	builder.WriteString(fmt.Sprintf("Bets:          %d (%d unresolved)\n", result.Overall.Bets, result.Unresolved))
	builder.WriteString(fmt.Sprintf("Win Rate:      %.2f%%\n", result.Overall.WinRate()*100))
	builder.WriteString(fmt.Sprintf("Profit:        %s units\n", result.Overall.Profit.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("ROI:           %.2f%%\n", result.Overall.ROI()*100))
	builder.WriteString(fmt.Sprintf("Max Drawdown:  %.2f units\n", result.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", result.ProfitFactor))

	if len(result.ByCategory) > 0 {
		builder.WriteString("\nBy Category\n-----------\n")
		categories := make([]string, 0, len(result.ByCategory))
		for category := range result.ByCategory {
			categories = append(categories, string(category))
		}
		sort.Strings(categories)
		for _, category := range categories {
			tally := result.ByCategory[models.Category(category)]
			builder.WriteString(fmt.Sprintf("%-8s %4d bets  %6.2f%%  %8s units\n",
				category, tally.Bets, tally.WinRate()*100, tally.Profit.StringFixed(2)))
		}
	}

	if len(result.Months) > 0 {
		builder.WriteString("\nBy Month\n--------\n")
		for _, month := range result.Months {
			builder.WriteString(fmt.Sprintf("%s  %4d bets  %6.2f%%  %8s units\n",
				month.Month, month.Bets, month.WinRate()*100, month.Profit.StringFixed(2)))
		}
	}
	return builder.String()
}

// GenerateSweepReport formats a profile sweep for terminal output.
func GenerateSweepReport(rows []SweepRow) string {
	var builder strings.Builder
	builder.WriteString("Profile Sweep\n")
	builder.WriteString("=============\n")
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("%-16s %4d bets  %6.2f%%  %8s units  drawdown %.2f\n",
			row.Profile, row.Result.Overall.Bets, row.Result.Overall.WinRate()*100,
			row.Result.Overall.Profit.StringFixed(2), row.Result.MaxDrawdown))
	}
	return builder.String()
}

// WriteCSVReport exports per-pattern tallies for spreadsheets.
func WriteCSVReport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("pattern,bets,wins,win_rate,profit\n")
	names := make([]string, 0, len(result.ByPattern))
	for name := range result.ByPattern {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tally := result.ByPattern[name]
		builder.WriteString(fmt.Sprintf("%s,%d,%d,%.4f,%s\n",
			name, tally.Bets, tally.Wins, tally.WinRate(), tally.Profit.StringFixed(2)))
	}
	builder.WriteString(fmt.Sprintf("TOTAL,%d,%d,%.4f,%s\n",
		result.Overall.Bets, result.Overall.Wins, result.Overall.WinRate(), result.Overall.Profit.StringFixed(2)))

	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

// WriteJSONReport exports the full result, equity curve included.
func WriteJSONReport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// WriteEquityCSV exports the equity curve beside the main report.
func WriteEquityCSV(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(result.Equity.ToCSV()), 0o644)
}

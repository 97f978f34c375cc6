// Package export writes screening results to files a hiring team can share:
// CSV for quick filtering and a multi-sheet XLSX report.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spigell/resume-screener/internal/screening"
)

var csvHeader = []string{
	"Candidate",
	"Decision",
	"Overall Score",
	"Keywords Matched",
	"Total Keywords",
	"Preliminary Verdict",
	"Evaluation Summary",
}

// WriteCSV writes one row per result in the given order.
func WriteCSV(path string, results screening.Results) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	for _, result := range results {
		record := []string{
			result.ResumeID,
			string(result.Decision),
			scoreCell(result.Score),
			strconv.Itoa(len(result.MatchedKeywords)),
			strconv.Itoa(result.TotalKeywords),
			string(result.Verdict),
			result.Summary,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func scoreCell(score *int) string {
	if score == nil {
		return "N/A"
	}

	return strconv.Itoa(*score)
}

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-screener/internal/screening"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"
	detailsSheet    = "Detailed Analysis"
)

// WriteXLSX writes a three-sheet report: batch statistics, the ranked
// candidate table and a per-candidate breakdown. The input order is kept as
// is for ranking, so callers sort first. A missing .xlsx extension is added.
func WriteXLSX(path string, results screening.Results) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(candidatesSheet)
	f.NewSheet(detailsSheet)

	if err := writeSummarySheet(f, results); err != nil {
		return fmt.Errorf("building summary sheet: %w", err)
	}

	if err := writeCandidatesSheet(f, results); err != nil {
		return fmt.Errorf("building candidates sheet: %w", err)
	}

	if err := writeDetailsSheet(f, results); err != nil {
		return fmt.Errorf("building details sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeSummarySheet(f *excelize.File, results screening.Results) error {
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 24)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	f.SetCellValue(summarySheet, "A1", "Resume Screening Report")
	f.SetCellStyle(summarySheet, "A1", "B1", header)
	f.MergeCell(summarySheet, "A1", "B1")

	stats := results.Stats()

	rows := []struct {
		label string
		value any
	}{
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Candidates", stats.Total},
		{"Shortlisted", stats.Shortlisted},
		{"Not Shortlisted", stats.NotShortlisted},
		{"Errors", stats.Errors},
	}
	if stats.Scored > 0 {
		rows = append(rows, struct {
			label string
			value any
		}{"Average Score", fmt.Sprintf("%.1f", stats.AverageScore)})
	}

	for i, row := range rows {
		cell := i + 3
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", cell), row.label)
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", cell), fmt.Sprintf("A%d", cell), labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", cell), row.value)
	}

	return nil
}

func writeCandidatesSheet(f *excelize.File, results screening.Results) error {
	widths := []float64{8, 32, 16, 14, 18, 16, 20}
	for i, width := range widths {
		col := string(rune('A' + i))
		f.SetColWidth(candidatesSheet, col, col, width)
	}

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Candidate", "Decision", "Overall Score", "Keywords Matched", "Total Keywords", "Preliminary Verdict"}
	for col, title := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(candidatesSheet, cell, title)
		f.SetCellStyle(candidatesSheet, cell, cell, header)
	}

	for i, result := range results {
		row := i + 2
		f.SetCellValue(candidatesSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("B%d", row), result.ResumeID)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("C%d", row), string(result.Decision))
		if result.Score != nil {
			f.SetCellValue(candidatesSheet, fmt.Sprintf("D%d", row), *result.Score)
		} else {
			f.SetCellValue(candidatesSheet, fmt.Sprintf("D%d", row), "N/A")
		}
		f.SetCellValue(candidatesSheet, fmt.Sprintf("E%d", row), len(result.MatchedKeywords))
		f.SetCellValue(candidatesSheet, fmt.Sprintf("F%d", row), result.TotalKeywords)
		f.SetCellValue(candidatesSheet, fmt.Sprintf("G%d", row), string(result.Verdict))
	}

	if len(results) > 0 {
		f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:G%d", len(results)+1), []excelize.AutoFilterOptions{})
	}

	f.SetPanes(candidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func writeDetailsSheet(f *excelize.File, results screening.Results) error {
	f.SetColWidth(detailsSheet, "A", "A", 8)
	f.SetColWidth(detailsSheet, "B", "B", 32)
	f.SetColWidth(detailsSheet, "C", "C", 22)
	f.SetColWidth(detailsSheet, "D", "D", 80)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Candidate", "Section", "Details"}
	for col, title := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(detailsSheet, cell, title)
		f.SetCellStyle(detailsSheet, cell, cell, header)
	}

	row := 2
	for i, result := range results {
		sections := []struct {
			name string
			text string
		}{
			{"Evaluation Summary", result.Summary},
			{"Requirements Met", bulletList(result.RequirementsMet)},
			{"Requirements Missing", bulletList(result.RequirementsMissing)},
		}

		for _, section := range sections {
			f.SetCellValue(detailsSheet, fmt.Sprintf("A%d", row), i+1)
			f.SetCellValue(detailsSheet, fmt.Sprintf("B%d", row), result.ResumeID)
			f.SetCellValue(detailsSheet, fmt.Sprintf("C%d", row), section.name)
			f.SetCellValue(detailsSheet, fmt.Sprintf("D%d", row), section.text)
			f.SetCellStyle(detailsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), wrapStyle)
			row++
		}
	}

	f.SetPanes(detailsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "None"
	}

	return "- " + strings.Join(items, "\n- ")
}

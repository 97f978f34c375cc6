package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/screening"
)

func sampleResults() screening.Results {
	score := 91

	return screening.Results{
		{
			ResumeID:            "alice.pdf",
			Decision:            ai.DecisionShortlisted,
			MatchedKeywords:     []string{"Go", "Kubernetes"},
			TotalKeywords:       3,
			Verdict:             "STRONG",
			Summary:             "Covers nearly every requirement.",
			RequirementsMet:     []string{"Go", "Kubernetes"},
			RequirementsMissing: []string{"Terraform"},
			Score:               &score,
		},
		{
			ResumeID:            "bob.docx",
			Decision:            ai.DecisionError,
			MatchedKeywords:     []string{},
			TotalKeywords:       3,
			Summary:             "Screening failed: resume text is empty",
			RequirementsMet:     []string{},
			RequirementsMissing: []string{},
			ErrorMessage:        "resume text is empty",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")

	if err := WriteCSV(path, sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{
		{"Candidate", "Decision", "Overall Score", "Keywords Matched", "Total Keywords", "Preliminary Verdict", "Evaluation Summary"},
		{"alice.pdf", "Shortlisted", "91", "2", "3", "STRONG", "Covers nearly every requirement."},
		{"bob.docx", "Error", "N/A", "0", "3", "", "Screening failed: resume text is empty"},
	}

	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
}

func TestWriteCSVEmptyResults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want header only", len(records))
	}
}

func TestWriteCSVBadPath(t *testing.T) {
	t.Parallel()

	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "results.csv"), sampleResults())
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

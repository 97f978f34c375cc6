// Package screening runs resumes through the two-stage decision pipeline:
// deterministic keyword matching followed by a model adjudication. Every run
// terminates in a Result; failures degrade into Error decisions instead of
// propagating.
package screening

import (
	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/matching"
)

// Result is the complete outcome of screening one resume.
type Result struct {
	ResumeID            string           `json:"resume_id"`
	Decision            ai.Decision      `json:"decision"`
	MatchedKeywords     []string         `json:"matched_keywords"`
	TotalKeywords       int              `json:"total_keywords"`
	Verdict             matching.Verdict `json:"preliminary_verdict"`
	Summary             string           `json:"evaluation_summary"`
	RequirementsMet     []string         `json:"requirements_met"`
	RequirementsMissing []string         `json:"requirements_missing"`
	Score               *int             `json:"overall_score"`
	ErrorMessage        string           `json:"error_message,omitempty"`
}

// Resume is one batch item: an identifier, typically the source file name,
// plus the extracted text.
type Resume struct {
	ID   string
	Text string
}

// ErrorResult builds the degraded result reported when a resume cannot be
// screened at all, for example when text extraction fails before the pipeline
// runs.
func ErrorResult(resumeID, message string) *Result {
	return &Result{
		ResumeID:            resumeID,
		Decision:            ai.DecisionError,
		MatchedKeywords:     []string{},
		Summary:             message,
		RequirementsMet:     []string{},
		RequirementsMissing: []string{},
		ErrorMessage:        message,
	}
}

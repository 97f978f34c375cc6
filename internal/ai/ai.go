package ai

import (
	"context"

	"github.com/spigell/resume-screener/internal/matching"
)

// Decision is the final screening outcome for a candidate.
type Decision string

const (
	DecisionShortlisted    Decision = "Shortlisted"
	DecisionNotShortlisted Decision = "Not Shortlisted"
	// DecisionError marks runs that failed before a decision was reached. It
	// is set by the screening pipeline, never by an adjudicator.
	DecisionError Decision = "Error"
)

// EvaluationRequest carries the evidence the adjudicator judges a candidate
// on, including the keyword matcher's advisory verdict.
type EvaluationRequest struct {
	ResumeText      string
	JobDescription  string
	MatchedKeywords []string
	TotalKeywords   int
	Verdict         matching.Verdict
}

// Assessment is the structured outcome of a model evaluation. Score is nil
// when the model returned no usable value; it is never clamped.
type Assessment struct {
	Decision            Decision
	Summary             string
	RequirementsMet     []string
	RequirementsMissing []string
	Score               *int
	Raw                 string
}

// Adjudicator renders the final decision for a candidate. Implementations
// return an error only for transport failures; malformed model output
// resolves to a conservative fallback Assessment instead.
type Adjudicator interface {
	Evaluate(ctx context.Context, req *EvaluationRequest) (*Assessment, error)
}

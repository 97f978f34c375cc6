package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/matching"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func sampleRequest() *ai.EvaluationRequest {
	return &ai.EvaluationRequest{
		ResumeText:      "Go developer with five years of backend experience.",
		JobDescription:  "Looking for a senior Go engineer.",
		MatchedKeywords: []string{"Go", "Kubernetes"},
		TotalKeywords:   4,
		Verdict:         matching.VerdictModerate,
	}
}

func TestEvaluatorEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{
		"decision": "Shortlisted",
		"evaluation_summary": "Strong backend profile.",
		"criteria_breakdown": {
			"requirements_met": ["Go", "Kubernetes"],
			"requirements_missing": ["Terraform"]
		},
		"overall_score": 85
	}`}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0)

	assessment, err := evaluator.Evaluate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Decision != ai.DecisionShortlisted {
		t.Fatalf("unexpected decision: %s", assessment.Decision)
	}

	if assessment.Summary != "Strong backend profile." {
		t.Fatalf("unexpected summary: %q", assessment.Summary)
	}

	if len(assessment.RequirementsMet) != 2 || assessment.RequirementsMet[0] != "Go" {
		t.Fatalf("unexpected requirements met: %v", assessment.RequirementsMet)
	}

	if len(assessment.RequirementsMissing) != 1 || assessment.RequirementsMissing[0] != "Terraform" {
		t.Fatalf("unexpected requirements missing: %v", assessment.RequirementsMissing)
	}

	if assessment.Score == nil || *assessment.Score != 85 {
		t.Fatalf("unexpected score: %v", assessment.Score)
	}

	if assessment.Raw != stub.response {
		t.Fatalf("expected raw response to be preserved")
	}

	if stub.lastSystem != evaluatorSystem {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}

	prompt := stub.lastPrompt
	for _, fragment := range []string{
		"Go developer with five years of backend experience.",
		"Looking for a senior Go engineer.",
		"Go, Kubernetes",
		"Total keywords required: 4",
		"Keywords found in resume: 2",
		"MODERATE - Moderate keyword match rate",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("expected prompt to contain %q, got: %s", fragment, prompt)
		}
	}
}

func TestEvaluatorPromptWithoutMatches(t *testing.T) {
	stub := &stubGenerator{response: `{"decision": "Not Shortlisted", "evaluation_summary": "No fit."}`}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0)

	req := sampleRequest()
	req.MatchedKeywords = nil
	req.Verdict = matching.VerdictFail

	if _, err := evaluator.Evaluate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "Keywords found in resume: 0 (None)") {
		t.Fatalf("expected empty match placeholder, got: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "FAIL - No keywords matched") {
		t.Fatalf("expected verdict description, got: %s", stub.lastPrompt)
	}
}

func TestEvaluatorTransportError(t *testing.T) {
	transportErr := errors.New("model unavailable")
	stub := &stubGenerator{err: transportErr}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0)

	_, err := evaluator.Evaluate(context.Background(), sampleRequest())
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestEvaluatorFallbackOnMalformedResponse(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "the candidate looks great, hire them"},
		{name: "missing decision", response: `{"evaluation_summary": "fine"}`},
		{name: "unknown decision", response: `{"decision": "Maybe", "evaluation_summary": "fine"}`},
		{name: "missing summary", response: `{"decision": "Shortlisted"}`},
		{name: "blank summary", response: `{"decision": "Shortlisted", "evaluation_summary": "  "}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubGenerator{response: tc.response}
			evaluator := NewEvaluator(stub, zap.NewNop(), 0)

			assessment, err := evaluator.Evaluate(context.Background(), sampleRequest())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if assessment.Decision != ai.DecisionNotShortlisted {
				t.Fatalf("expected fallback decision, got %s", assessment.Decision)
			}

			if assessment.Summary != fallbackSummary {
				t.Fatalf("expected fallback summary, got %q", assessment.Summary)
			}

			if assessment.RequirementsMet == nil || len(assessment.RequirementsMet) != 0 {
				t.Fatalf("expected empty requirements met, got %v", assessment.RequirementsMet)
			}

			if assessment.RequirementsMissing == nil || len(assessment.RequirementsMissing) != 0 {
				t.Fatalf("expected empty requirements missing, got %v", assessment.RequirementsMissing)
			}

			if assessment.Score != nil {
				t.Fatalf("expected nil score, got %v", *assessment.Score)
			}

			if assessment.Raw != tc.response {
				t.Fatalf("expected raw response to be preserved")
			}
		})
	}
}

func TestParseAssessmentHandlesCodeBlock(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"decision\": \"SHORTLISTED\", \"evaluation_summary\": \"Looks good\", \"overall_score\": \"85\"}\n```"

	assessment, parsed := parseAssessment(raw)
	if !parsed {
		t.Fatalf("expected response to parse")
	}

	if assessment.Decision != ai.DecisionShortlisted {
		t.Fatalf("unexpected decision: %s", assessment.Decision)
	}

	if assessment.Score == nil || *assessment.Score != 85 {
		t.Fatalf("unexpected score: %v", assessment.Score)
	}

	if len(assessment.RequirementsMet) != 0 || len(assessment.RequirementsMissing) != 0 {
		t.Fatalf("expected empty requirement lists without breakdown")
	}
}

func TestCoerceScore(t *testing.T) {
	t.Parallel()

	intPtr := func(v int) *int { return &v }

	cases := []struct {
		name string
		in   any
		want *int
	}{
		{name: "json number", in: float64(85), want: intPtr(85)},
		{name: "fractional number truncates", in: float64(96.7), want: intPtr(96)},
		{name: "zero", in: float64(0), want: intPtr(0)},
		{name: "upper bound", in: float64(100), want: intPtr(100)},
		{name: "numeric string", in: "85", want: intPtr(85)},
		{name: "fractional string", in: "85.5", want: nil},
		{name: "negative", in: float64(-1), want: nil},
		{name: "above range", in: float64(101), want: nil},
		{name: "missing", in: nil, want: nil},
		{name: "boolean", in: true, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := coerceScore(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil score, got %d", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("expected score %d, got nil", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("expected score %d, got %d", *tc.want, *got)
			}
		})
	}
}

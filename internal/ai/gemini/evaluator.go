package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed evaluate_prompt.md
var evaluatePromptTemplate string

const evaluatorSystem = "You are an expert-level Senior Technical Recruiter and Hiring Manager. " +
	"Your task is to perform a definitive, final-stage evaluation of a job candidate."

// fallbackSummary is reported when the model response cannot be parsed into
// the expected schema.
const fallbackSummary = "Failed to get a structured evaluation from the AI model."

const defaultMaxLogLength = 200

// Evaluator renders final hiring decisions through Gemini. A response that
// does not conform to the expected schema resolves to a conservative
// "Not Shortlisted" assessment rather than an error.
type Evaluator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewEvaluator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Evaluator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, req *ai.EvaluationRequest) (*ai.Assessment, error) {
	if req == nil {
		return nil, fmt.Errorf("evaluation request is required")
	}

	prompt := buildEvaluatePrompt(req)

	e.logger.Debug("gemini evaluation request",
		zap.Int("matched_keywords", len(req.MatchedKeywords)),
		zap.Int("total_keywords", req.TotalKeywords),
		zap.String("preliminary_verdict", string(req.Verdict)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, evaluatorSystem, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini evaluation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	assessment, parsed := parseAssessment(raw)
	if !parsed {
		e.logger.Warn("unparseable gemini evaluation, using fallback",
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)
	}

	assessment.Raw = raw

	return assessment, nil
}

func buildEvaluatePrompt(req *ai.EvaluationRequest) string {
	matched := "None"
	if len(req.MatchedKeywords) > 0 {
		matched = strings.Join(req.MatchedKeywords, ", ")
	}

	prompt := strings.ReplaceAll(evaluatePromptTemplate, "{{TOTAL_KEYWORDS}}", strconv.Itoa(req.TotalKeywords))
	prompt = strings.ReplaceAll(prompt, "{{MATCHED_COUNT}}", strconv.Itoa(len(req.MatchedKeywords)))
	prompt = strings.ReplaceAll(prompt, "{{MATCHED_KEYWORDS}}", matched)
	prompt = strings.ReplaceAll(prompt, "{{PRELIMINARY_VERDICT}}", req.Verdict.Describe())
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", req.ResumeText)

	return strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", req.JobDescription)
}

// parseAssessment maps the model response onto an Assessment. The second
// return value is false when the response was unusable and the fallback was
// applied. The decision and a non-empty summary are required; everything else
// degrades field by field.
func parseAssessment(raw string) (*ai.Assessment, bool) {
	cleaned := ai.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fallbackAssessment(), false
	}

	decision, ok := coerceDecision(data["decision"])
	if !ok {
		return fallbackAssessment(), false
	}

	summary := coerceString(data["evaluation_summary"])
	if summary == "" {
		return fallbackAssessment(), false
	}

	met := []string{}
	missing := []string{}
	if breakdown, ok := data["criteria_breakdown"].(map[string]any); ok {
		met = coerceStringList(breakdown["requirements_met"])
		missing = coerceStringList(breakdown["requirements_missing"])
	}

	return &ai.Assessment{
		Decision:            decision,
		Summary:             summary,
		RequirementsMet:     met,
		RequirementsMissing: missing,
		Score:               coerceScore(data["overall_score"]),
	}, true
}

func fallbackAssessment() *ai.Assessment {
	return &ai.Assessment{
		Decision:            ai.DecisionNotShortlisted,
		Summary:             fallbackSummary,
		RequirementsMet:     []string{},
		RequirementsMissing: []string{},
	}
}

func coerceDecision(v any) (ai.Decision, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shortlisted":
		return ai.DecisionShortlisted, true
	case "not shortlisted":
		return ai.DecisionNotShortlisted, true
	default:
		return "", false
	}
}

// coerceScore accepts integers serialized as JSON numbers or strings. Scores
// outside [0,100] are discarded, never clamped.
func coerceScore(v any) *int {
	var score int

	switch val := v.(type) {
	case float64:
		score = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		score = parsed
	default:
		return nil
	}

	if score < 0 || score > 100 {
		return nil
	}

	return &score
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	list := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			list = append(list, s)
		}
	}

	return list
}

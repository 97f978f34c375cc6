package screening

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/spigell/resume-screener/internal/utils"
)

// Pipeline screens a single resume in two stages. Stage one is the local
// keyword matcher, stage two hands the evidence to the adjudicator for the
// final decision. Stage two failures never abort a run: they are recorded on
// the result as an Error decision.
type Pipeline struct {
	matcher     *matching.Matcher
	adjudicator ai.Adjudicator
	timeout     time.Duration
	logger      *zap.Logger
}

// state carries one resume through the pipeline stages.
type state struct {
	resumeID       string
	keywords       []string
	resumeText     string
	jobDescription string

	matched []string
	verdict matching.Verdict

	decision ai.Decision
	summary  string
	met      []string
	missing  []string
	score    *int

	errorMessage string
}

// NewPipeline wires the two stages together. A timeout of zero disables the
// per-evaluation deadline. A nil logger is replaced with a no-op one.
func NewPipeline(matcher *matching.Matcher, adjudicator ai.Adjudicator, timeout time.Duration, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		matcher:     matcher,
		adjudicator: adjudicator,
		timeout:     timeout,
		logger:      logger,
	}
}

// Screen runs one resume through both stages and always returns a usable
// result. Input problems and adjudicator failures surface as Error decisions
// with the cause in ErrorMessage.
func (p *Pipeline) Screen(ctx context.Context, keywords []string, resumeText, jobDescription, resumeID string) *Result {
	logger := p.logger.With(zap.String("resume_id", resumeID))

	st := &state{
		resumeID:       resumeID,
		keywords:       keywords,
		resumeText:     resumeText,
		jobDescription: jobDescription,
		matched:        []string{},
	}

	if p.start(st, logger) {
		p.matchKeywords(st, logger)
		p.evaluateCandidate(ctx, st, logger)
	}

	return p.finish(st, logger)
}

// start validates the inputs. It returns false when screening cannot proceed,
// leaving the reason in the state's error message.
func (p *Pipeline) start(st *state, logger *zap.Logger) bool {
	if len(st.keywords) == 0 {
		st.errorMessage = "no keywords provided"
		return false
	}

	if strings.TrimSpace(st.resumeText) == "" {
		st.errorMessage = "resume text is empty"
		return false
	}

	logger.Debug("starting screening",
		zap.Int("keywords", len(st.keywords)),
		zap.Int("resume_length", len(st.resumeText)),
		zap.String("resume_preview", utils.TruncateForLog(st.resumeText, 120)),
	)

	return true
}

func (p *Pipeline) matchKeywords(st *state, logger *zap.Logger) {
	st.matched, st.verdict = p.matcher.Match(st.resumeText, st.keywords)

	logger.Debug("keyword matching finished",
		zap.Int("matched", len(st.matched)),
		zap.Int("total", len(st.keywords)),
		zap.String("verdict", string(st.verdict)),
	)
}

func (p *Pipeline) evaluateCandidate(ctx context.Context, st *state, logger *zap.Logger) {
	if p.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	assessment, err := p.adjudicator.Evaluate(ctx, &ai.EvaluationRequest{
		ResumeText:      st.resumeText,
		JobDescription:  st.jobDescription,
		MatchedKeywords: st.matched,
		TotalKeywords:   len(st.keywords),
		Verdict:         st.verdict,
	})
	if err != nil {
		logger.Warn("candidate evaluation failed", zap.Error(err))

		st.errorMessage = err.Error()

		return
	}

	st.decision = assessment.Decision
	st.summary = assessment.Summary
	st.met = assessment.RequirementsMet
	st.missing = assessment.RequirementsMissing
	st.score = assessment.Score
}

// finish folds the pipeline state into a Result. When an error message is
// set, the matched keywords and verdict from stage one are kept so the
// deterministic part of the run is not lost.
func (p *Pipeline) finish(st *state, logger *zap.Logger) *Result {
	result := &Result{
		ResumeID:        st.resumeID,
		MatchedKeywords: st.matched,
		TotalKeywords:   len(st.keywords),
		Verdict:         st.verdict,
	}

	if st.errorMessage != "" {
		result.Decision = ai.DecisionError
		result.Summary = "Screening failed: " + st.errorMessage
		result.RequirementsMet = []string{}
		result.RequirementsMissing = []string{}
		result.ErrorMessage = st.errorMessage

		logger.Warn("screening finished with error", zap.String("error", st.errorMessage))

		return result
	}

	result.Decision = st.decision
	result.Summary = st.summary
	result.RequirementsMet = st.met
	result.RequirementsMissing = st.missing
	result.Score = st.score

	logger.Info("screening finished",
		zap.String("decision", string(result.Decision)),
		zap.String("verdict", string(result.Verdict)),
		zap.Int("matched", len(result.MatchedKeywords)),
		zap.Int("total", result.TotalKeywords),
	)

	return result
}

// Package matching implements deterministic keyword matching over normalized
// resume text and derives a coarse preliminary verdict from the match ratio.
package matching

import (
	"regexp"
	"strings"

	"github.com/spigell/resume-screener/internal/textnorm"
)

// Verdict classifies the keyword match ratio before the model judges the
// resume.
type Verdict string

const (
	VerdictFail     Verdict = "FAIL"
	VerdictWeak     Verdict = "WEAK"
	VerdictModerate Verdict = "MODERATE"
	VerdictStrong   Verdict = "STRONG"
)

// Describe returns the verdict with a short qualifier suitable for prompts
// and reports.
func (v Verdict) Describe() string {
	switch v {
	case VerdictFail:
		return "FAIL - No keywords matched"
	case VerdictWeak:
		return "WEAK - Low keyword match rate"
	case VerdictModerate:
		return "MODERATE - Moderate keyword match rate"
	case VerdictStrong:
		return "STRONG - High keyword match rate"
	default:
		return string(v)
	}
}

// Matcher checks keywords against resume text in normalized form. Multi-word
// phrases are lemmatized before comparison; single atomic terms keep their
// exact lowercase form so names like "OAuth2" survive verbatim.
type Matcher struct {
	normalizer *textnorm.Normalizer
}

// New returns a Matcher backed by the given normalizer.
func New(normalizer *textnorm.Normalizer) *Matcher {
	return &Matcher{normalizer: normalizer}
}

// Match reports which keywords occur in the resume as whole words, preserving
// the order and original spelling of the input list, together with the verdict
// derived from the match ratio. Keywords whose processed form is empty are
// skipped but still count toward the ratio denominator.
func (m *Matcher) Match(resumeText string, keywords []string) ([]string, Verdict) {
	processedResume := m.normalizer.Normalize(resumeText)

	matched := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		processed := m.processKeyword(keyword)
		if processed == "" || processed == textnorm.EmptyMarker {
			continue
		}

		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(processed) + `\b`)
		if pattern.MatchString(processedResume) {
			matched = append(matched, keyword)
		}
	}

	return matched, Classify(len(matched), len(keywords))
}

func (m *Matcher) processKeyword(keyword string) string {
	if len(strings.Fields(keyword)) > 1 {
		return m.normalizer.Normalize(keyword)
	}

	return strings.ToLower(strings.TrimSpace(keyword))
}

// Classify derives the verdict from match counts. An empty keyword list is a
// non-match, never a division by zero.
func Classify(matched, total int) Verdict {
	if total == 0 || matched == 0 {
		return VerdictFail
	}

	ratio := float64(matched) / float64(total)

	switch {
	case ratio >= 0.6:
		return VerdictStrong
	case ratio >= 0.3:
		return VerdictModerate
	default:
		return VerdictWeak
	}
}

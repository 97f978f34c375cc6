package screening

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/spigell/resume-screener/internal/ai"
)

// Results is a batch of screening outcomes.
type Results []*Result

// Stats summarizes a batch. AverageScore covers only results that carry a
// score.
type Stats struct {
	Total          int
	Shortlisted    int
	NotShortlisted int
	Errors         int
	Scored         int
	AverageScore   float64
}

// Sort orders results for review: shortlisted first, then not shortlisted,
// then errors. Within a group, higher scores come first and unscored results
// sink to the end. Equal entries keep their batch order.
func (r Results) Sort() {
	sort.SliceStable(r, func(i, j int) bool {
		if decisionRank(r[i].Decision) != decisionRank(r[j].Decision) {
			return decisionRank(r[i].Decision) < decisionRank(r[j].Decision)
		}

		switch {
		case r[i].Score == nil:
			return false
		case r[j].Score == nil:
			return true
		default:
			return *r[i].Score > *r[j].Score
		}
	})
}

func decisionRank(d ai.Decision) int {
	switch d {
	case ai.DecisionShortlisted:
		return 0
	case ai.DecisionNotShortlisted:
		return 1
	default:
		return 2
	}
}

// Stats walks the batch once and tallies it.
func (r Results) Stats() Stats {
	stats := Stats{Total: len(r)}

	var sum int

	for _, result := range r {
		switch result.Decision {
		case ai.DecisionShortlisted:
			stats.Shortlisted++
		case ai.DecisionNotShortlisted:
			stats.NotShortlisted++
		case ai.DecisionError:
			stats.Errors++
		}

		if result.Score != nil {
			stats.Scored++
			sum += *result.Score
		}
	}

	if stats.Scored > 0 {
		stats.AverageScore = float64(sum) / float64(stats.Scored)
	}

	return stats
}

// IDs lists the resume identifiers in batch order.
func (r Results) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, result := range r {
		ids = append(ids, result.ResumeID)
	}

	return ids
}

// FindByID returns the result for a resume identifier, or nil when the batch
// has none.
func (r Results) FindByID(id string) *Result {
	for _, result := range r {
		if result.ResumeID == id {
			return result
		}
	}

	return nil
}

// DumpToTmpFile writes the batch as indented JSON to a fresh temp file and
// returns its path.
func (r Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "screening_results_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

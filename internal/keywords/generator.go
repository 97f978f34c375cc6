package keywords

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed extract_prompt.md
var extractPromptTemplate string

const extractorSystem = "You are an expert technical recruiter and talent analyst with deep industry knowledge."

const defaultMaxLogLength = 200

// Generator extracts screening keywords from job descriptions through the
// model, serving repeated requests for the same content from the store.
type Generator struct {
	generator contentGenerator
	store     Store
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(generator contentGenerator, store Store, logger *zap.Logger, maxLogLength int) *Generator {
	if store == nil {
		store = NewMemoryStore()
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		generator: generator,
		store:     store,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// FromJobDescription returns the keyword list for the job description. The
// returned list is deduplicated case-insensitively with first occurrences
// preserved.
func (g *Generator) FromJobDescription(ctx context.Context, jobDescription string) ([]string, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, errors.New("job description is empty")
	}

	key := CacheKey(jobDescription)
	if cached, ok := g.store.Get(ctx, key); ok {
		g.logger.Debug("serving keywords from cache",
			zap.String("key", key),
			zap.Int("count", len(cached)),
		)
		return cached, nil
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{JOB_DESCRIPTION}}", jobDescription)

	g.logger.Debug("gemini keyword extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContent(ctx, extractorSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate keywords: %w", err)
	}

	g.logger.Debug("gemini keyword extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	parsed, err := parseKeywords(raw)
	if err != nil {
		return nil, err
	}

	g.store.Set(ctx, key, parsed)

	return parsed, nil
}

// CacheKey derives the store key for a job description from its content.
func CacheKey(jobDescription string) string {
	hash := sha256.Sum256([]byte(jobDescription))
	return fmt.Sprintf("%x", hash[:])
}

func parseKeywords(raw string) ([]string, error) {
	cleaned := ai.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse keywords response: %w", err)
	}

	var payload struct {
		Keywords []string `mapstructure:"keywords"`
	}
	if err := mapstructure.Decode(data, &payload); err != nil {
		return nil, fmt.Errorf("decode keywords payload: %w", err)
	}

	parsed := Dedupe(payload.Keywords)
	if len(parsed) == 0 {
		return nil, errors.New("model returned no keywords")
	}

	return parsed, nil
}

// Dedupe trims entries and drops case-insensitive duplicates and blanks,
// keeping the first occurrence of each keyword in order.
func Dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))

	for _, keyword := range list {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		lower := strings.ToLower(keyword)
		if seen[lower] {
			continue
		}

		seen[lower] = true
		out = append(out, keyword)
	}

	return out
}

// Merge combines keyword lists into one deduplicated list, preserving
// first-seen order and spelling.
func Merge(lists ...[]string) []string {
	var combined []string
	for _, list := range lists {
		combined = append(combined, list...)
	}

	return Dedupe(combined)
}

// Package textnorm reduces free text to a canonical form for whole-word
// keyword matching: lowercase, stopwords and punctuation removed, every
// surviving token replaced by its dictionary base form.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/clipperhouse/uax29/v2/words"
)

// EmptyMarker is returned by Normalize when no tokens survive processing.
// Normalized output is always lowercase, so the uppercase marker can never
// equal a legitimate normalized keyword.
const EmptyMarker = "EMPTY_PROCESSED_STRING"

// Normalizer holds the lemmatization dictionary. It is safe for concurrent
// use; lookups are read-only.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
}

// New builds a Normalizer backed by the embedded English dictionary.
func New() (*Normalizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading english lemmatizer: %w", err)
	}

	return &Normalizer{lemmatizer: lemmatizer}, nil
}

// Normalize lowercases the text, segments it into Unicode words, drops
// stopwords and punctuation, lemmatizes what remains and joins the lemmas
// with single spaces. When nothing survives it returns EmptyMarker.
func (n *Normalizer) Normalize(text string) string {
	var tokens []string

	segments := words.FromString(strings.ToLower(text))
	for segments.Next() {
		token := segments.Value()
		if !wordlike(token) {
			continue
		}

		if englishStopwords[token] {
			continue
		}

		tokens = append(tokens, n.lemmatizer.Lemma(token))
	}

	if len(tokens) == 0 {
		return EmptyMarker
	}

	return strings.Join(tokens, " ")
}

// wordlike reports whether the segment carries at least one letter or digit.
// The segmenter emits whitespace and punctuation runs as their own segments.
func wordlike(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

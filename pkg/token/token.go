// Package token estimates token counts for instruction document bodies.
package token

import (
	"strings"
	"unicode/utf8"
)

// Counter reports the token size of a text. Implementations must be pure so
// that a document's size is stable for the lifetime of a registry snapshot.
type Counter interface {
	Count(text string) int
}

// Estimator approximates token counts without a model-specific vocabulary.
// It averages a character-based and a word-based estimate, which tracks BPE
// tokenizers closely enough for budget accounting on prose and source code.
type Estimator struct {
	// CharsPerToken is the assumed average characters per token.
	CharsPerToken int
	// TokensPerWord is the assumed average tokens per whitespace-delimited word,
	// expressed as a ratio numerator over 100 (e.g. 130 means 1.3 tokens/word).
	TokensPerWord int
}

// DefaultEstimator uses ratios commonly quoted for English text and code.
var DefaultEstimator = &Estimator{
	CharsPerToken: 4,
	TokensPerWord: 130,
}

// Count returns the estimated token count. Non-empty input always yields a
// count of at least one.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}

	chars := utf8.RuneCountInString(text)
	charEstimate := (chars + e.CharsPerToken - 1) / e.CharsPerToken

	words := len(strings.Fields(text))
	wordEstimate := (words*e.TokensPerWord + 99) / 100

	estimate := (charEstimate + wordEstimate) / 2
	if estimate < 1 {
		estimate = 1
	}

	return estimate
}

// Package normalize cleans free-text skill strings before vectorization.
package normalize

import (
	"regexp"
	"strings"
)

var (
	nonWord = regexp.MustCompile(`[^\w\s]`)
	spaces  = regexp.MustCompile(`\s+`)
)

// Correction is a single literal substring replacement applied during
// normalization. Corrections run in order, before punctuation removal.
type Correction struct {
	From string
	To   string
}

// DefaultCorrections fixes misspellings known to appear in karkidi postings.
func DefaultCorrections() []Correction {
	return []Correction{
		{From: "aartificial", To: "artificial"},
		{From: "machine learning techniques", To: "machine learning"},
		{From: "data science techniques", To: "data science"},
		{From: "programminng", To: "programming"},
		{From: "teechniques", To: "techniques"},
		{From: "kubernettes", To: "kubernetes"},
	}
}

// Normalizer lowercases, fixes typos and collapses whitespace. The zero value
// performs no corrections; use New for the default correction table.
type Normalizer struct {
	corrections []Correction
}

// New creates a normalizer with the provided correction table.
func New(corrections []Correction) *Normalizer {
	return &Normalizer{corrections: corrections}
}

// Normalize returns the cleaned form of text. Empty input yields an empty
// string, never an error.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	for _, c := range n.corrections {
		text = strings.ReplaceAll(text, c.From, c.To)
	}

	text = nonWord.ReplaceAllString(text, " ")
	text = spaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

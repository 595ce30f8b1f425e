// Package vectorize turns skill texts into TF-IDF weighted vectors over a
// vocabulary frozen at fit time.
package vectorize

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/karkidi-tools/jobradar/internal/normalize"
)

// ErrEmptyVocabulary is returned when no term survives frequency filtering.
var ErrEmptyVocabulary = errors.New("no terms left after filtering, corpus is too small or degenerate")

// Config controls vocabulary selection during Fit.
type Config struct {
	// MaxFeatures caps the vocabulary size. Zero means unbounded.
	MaxFeatures int
	// MinDocFreq drops terms present in fewer documents. Values below 2
	// disable the filter.
	MinDocFreq int
	// Normalizer used for every document and for later transforms. Defaults
	// to the normalizer with the standard correction table.
	Normalizer *normalize.Normalizer
}

// Term is a vocabulary entry with its frozen inverse document frequency.
type Term struct {
	Text string  `json:"text"`
	IDF  float64 `json:"idf"`
}

// Vectorizer maps text onto a fixed vocabulary. Immutable after Fit, safe for
// concurrent Transform calls.
type Vectorizer struct {
	terms []Term
	index map[string]int
	norm  *normalize.Normalizer
}

// Fit builds a vocabulary of unigrams and bigrams from the corpus and freezes
// per-term IDF weights. The vocabulary is ordered lexically; candidate terms
// beyond MaxFeatures are cut by total occurrence count, ties broken lexically,
// so repeated fits over the same corpus are identical.
func Fit(corpus []string, cfg Config) (*Vectorizer, error) {
	norm := cfg.Normalizer
	if norm == nil {
		norm = normalize.New(normalize.DefaultCorrections())
	}

	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for _, doc := range corpus {
		tokens := tokenize(norm.Normalize(doc))
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			totalFreq[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if cfg.MinDocFreq > 1 && df < cfg.MinDocFreq {
			continue
		}
		candidates = append(candidates, term)
	}

	if len(candidates) == 0 {
		return nil, ErrEmptyVocabulary
	}

	if cfg.MaxFeatures > 0 && len(candidates) > cfg.MaxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			if totalFreq[candidates[i]] != totalFreq[candidates[j]] {
				return totalFreq[candidates[i]] > totalFreq[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:cfg.MaxFeatures]
	}

	sort.Strings(candidates)

	n := float64(len(corpus))
	terms := make([]Term, len(candidates))
	for i, text := range candidates {
		terms[i] = Term{
			Text: text,
			IDF:  math.Log((1+n)/(1+float64(docFreq[text]))) + 1,
		}
	}

	return newVectorizer(terms, norm), nil
}

// Restore rebuilds a vectorizer from previously frozen terms, as loaded from a
// persisted model artifact.
func Restore(terms []Term, norm *normalize.Normalizer) (*Vectorizer, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if norm == nil {
		norm = normalize.New(normalize.DefaultCorrections())
	}
	return newVectorizer(terms, norm), nil
}

func newVectorizer(terms []Term, norm *normalize.Normalizer) *Vectorizer {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t.Text] = i
	}
	return &Vectorizer{terms: terms, index: index, norm: norm}
}

// Transform maps text onto the frozen vocabulary. Each present term weighs its
// frequency in the text times the frozen IDF; out-of-vocabulary terms
// contribute nothing.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, tok := range tokenize(v.norm.Normalize(text)) {
		if i, ok := v.index[tok]; ok {
			vec[i] += v.terms[i].IDF
		}
	}
	return vec
}

// Terms returns the frozen vocabulary with weights, in vocabulary order.
func (v *Vectorizer) Terms() []Term {
	out := make([]Term, len(v.terms))
	copy(out, v.terms)
	return out
}

// Size returns the vocabulary length.
func (v *Vectorizer) Size() int {
	return len(v.terms)
}

// Cosine returns the cosine similarity of two equal-length vectors, defined
// as 0 when either norm is 0.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// tokenize splits normalized text into unigrams and bigrams, dropping stop
// words first.
func tokenize(normalized string) []string {
	words := make([]string, 0)
	for _, w := range strings.Fields(normalized) {
		if !isStopWord(w) {
			words = append(words, w)
		}
	}

	tokens := make([]string, 0, 2*len(words))
	tokens = append(tokens, words...)
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+" "+words[i+1])
	}
	return tokens
}

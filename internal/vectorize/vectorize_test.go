package vectorize

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFitBuildsLexicallyOrderedVocabulary(t *testing.T) {
	t.Parallel()

	corpus := []string{"python sql", "python spark"}

	v, err := Fit(corpus, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var texts []string
	for _, term := range v.Terms() {
		texts = append(texts, term.Text)
	}

	expect := []string{"python", "python spark", "python sql", "spark", "sql"}
	if !reflect.DeepEqual(texts, expect) {
		t.Fatalf("expected vocabulary %v, got %v", expect, texts)
	}
}

func TestFitMinDocFreqDropsRareTerms(t *testing.T) {
	t.Parallel()

	corpus := []string{"python sql", "python spark", "python airflow"}

	v, err := Fit(corpus, Config{MinDocFreq: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terms := v.Terms()
	if len(terms) != 1 || terms[0].Text != "python" {
		t.Fatalf("expected only 'python' to survive, got %v", terms)
	}
}

func TestFitMaxFeaturesKeepsMostFrequent(t *testing.T) {
	t.Parallel()

	corpus := []string{"go", "go", "go rust", "rust", "zig"}

	v, err := Fit(corpus, Config{MaxFeatures: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var texts []string
	for _, term := range v.Terms() {
		texts = append(texts, term.Text)
	}

	// go occurs 3 times, rust twice; zig and the bigram are cut.
	expect := []string{"go", "rust"}
	if !reflect.DeepEqual(texts, expect) {
		t.Fatalf("expected %v, got %v", expect, texts)
	}
}

func TestFitDeterministicTieBreaking(t *testing.T) {
	t.Parallel()

	corpus := []string{"banana apple", "cherry durian"}

	first, err := Fit(corpus, Config{MaxFeatures: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Fit(corpus, Config{MaxFeatures: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Terms(), second.Terms()) {
		t.Fatalf("vocabulary is not reproducible: %v vs %v", first.Terms(), second.Terms())
	}
}

func TestFitEmptyVocabulary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		corpus []string
		cfg    Config
	}{
		{
			name:   "empty corpus",
			corpus: nil,
			cfg:    Config{},
		},
		{
			name:   "all stop words",
			corpus: []string{"the and of", "with for"},
			cfg:    Config{},
		},
		{
			name:   "min doc freq filters everything",
			corpus: []string{"python", "java"},
			cfg:    Config{MinDocFreq: 2},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Fit(tt.corpus, tt.cfg); !errors.Is(err, ErrEmptyVocabulary) {
				t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
			}
		})
	}
}

func TestTransformIgnoresUnknownTerms(t *testing.T) {
	t.Parallel()

	v, err := Fit([]string{"python sql", "python spark"}, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec := v.Transform("haskell prolog")
	for i, w := range vec {
		if w != 0 {
			t.Fatalf("expected zero vector for out-of-vocabulary text, got %v at %d", w, i)
		}
	}

	if got := len(vec); got != v.Size() {
		t.Fatalf("expected vector length %d, got %d", v.Size(), got)
	}
}

func TestTransformWeightsScaleWithFrequency(t *testing.T) {
	t.Parallel()

	v, err := Fit([]string{"python sql", "java spring"}, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	single := v.Transform("python")
	double := v.Transform("python python")

	for i := range single {
		if single[i] == 0 {
			continue
		}
		if math.Abs(double[i]-2*single[i]) > 1e-12 {
			t.Fatalf("expected doubled weight at %d: %v vs %v", i, double[i], single[i])
		}
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := Fit([]string{"python sql", "python spark", "java spring"}, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := Restore(v.Terms(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := "python spark sql"
	if !reflect.DeepEqual(v.Transform(text), restored.Transform(text)) {
		t.Fatalf("restored vectorizer disagrees with the original")
	}
}

func TestRestoreEmptyTerms(t *testing.T) {
	t.Parallel()

	if _, err := Restore(nil, nil); !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   []float64
		expect float64
	}{
		{
			name:   "identical vectors",
			a:      []float64{1, 2, 3},
			b:      []float64{1, 2, 3},
			expect: 1,
		},
		{
			name:   "orthogonal vectors",
			a:      []float64{1, 0},
			b:      []float64{0, 1},
			expect: 0,
		},
		{
			name:   "zero norm defined as zero",
			a:      []float64{0, 0},
			b:      []float64{1, 1},
			expect: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.expect) > 1e-12 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

package normalize

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := New(DefaultCorrections())

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "empty input",
			input:  "",
			expect: "",
		},
		{
			name:   "lowercases and strips punctuation",
			input:  "Python, SQL, Machine-Learning!",
			expect: "python sql machine learning",
		},
		{
			name:   "collapses whitespace",
			input:  "  java   spring\t boot ",
			expect: "java spring boot",
		},
		{
			name:   "applies typo corrections",
			input:  "Aartificial Intelligence, Kubernettes, Programminng",
			expect: "artificial intelligence kubernetes programming",
		},
		{
			name:   "corrections run before punctuation removal",
			input:  "machine learning techniques, data science techniques",
			expect: "machine learning data science",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := n.Normalize(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNormalizeZeroValueHasNoCorrections(t *testing.T) {
	t.Parallel()

	var n Normalizer
	if got := n.Normalize("Kubernettes"); got != "kubernettes" {
		t.Fatalf("expected raw lowercased output, got %q", got)
	}
}

func TestNormalizeCorrectionOrder(t *testing.T) {
	t.Parallel()

	n := New([]Correction{
		{From: "nodejs", To: "node js"},
		{From: "node js", To: "node"},
	})

	if got := n.Normalize("NodeJS"); got != "node" {
		t.Fatalf("expected ordered application, got %q", got)
	}
}

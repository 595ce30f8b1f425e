package cluster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"

	"github.com/karkidi-tools/jobradar/internal/vectorize"
)

// ErrCorruptModel is returned when a loaded artifact is missing components or
// its components are mutually inconsistent.
var ErrCorruptModel = errors.New("model artifact is corrupt or inconsistent")

// artifact is the persisted form of a trained model. Vocabulary, centroids,
// cluster count and the trained flag round-trip together.
type artifact struct {
	Clusters  int              `json:"clusters"`
	Trained   bool             `json:"trained"`
	Terms     []vectorize.Term `json:"terms"`
	Centroids [][]float64      `json:"centroids"`
}

// Save writes the trained model to path as a single JSON artifact. The write
// goes through a temp file and a rename, so a reader never observes a
// partially written model.
func (m *Model) Save(path string) error {
	if m.state == nil {
		return ErrNotTrained
	}

	art := artifact{
		Clusters:  m.k,
		Trained:   true,
		Terms:     m.state.vectorizer.Terms(),
		Centroids: m.state.centroids,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model_*.json")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(art); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Load reads a model artifact from path and returns a trained model whose
// predictions are identical to the one that was saved.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	// Decode into a generic map first so missing keys surface as zero values
	// for the consistency checks below instead of a parse failure.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	var art artifact
	cfg := &mapstructure.DecoderConfig{
		Result:  &art,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	if err := art.validate(); err != nil {
		return nil, err
	}

	v, err := vectorize.Restore(art.Terms, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	return &Model{
		k:     art.Clusters,
		state: &trained{vectorizer: v, centroids: art.Centroids},
	}, nil
}

// validate checks the artifact components against each other. A centroid set
// with a mismatched vocabulary must fail here rather than silently mis-score.
func (a *artifact) validate() error {
	switch {
	case !a.Trained:
		return fmt.Errorf("%w: trained flag is not set", ErrCorruptModel)
	case a.Clusters <= 0:
		return fmt.Errorf("%w: invalid cluster count %d", ErrCorruptModel, a.Clusters)
	case len(a.Terms) == 0:
		return fmt.Errorf("%w: empty vocabulary", ErrCorruptModel)
	case len(a.Centroids) != a.Clusters:
		return fmt.Errorf("%w: %d centroids for %d clusters", ErrCorruptModel, len(a.Centroids), a.Clusters)
	}

	for i, c := range a.Centroids {
		if len(c) != len(a.Terms) {
			return fmt.Errorf("%w: centroid %d has %d dimensions, vocabulary has %d terms",
				ErrCorruptModel, i, len(c), len(a.Terms))
		}
	}

	return nil
}

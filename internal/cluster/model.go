// Package cluster discovers latent job categories from skill texts with a
// TF-IDF vocabulary and k-means partitioning.
package cluster

import (
	"errors"
	"fmt"

	"github.com/karkidi-tools/jobradar/internal/jobs"
	"github.com/karkidi-tools/jobradar/internal/vectorize"
)

const (
	// DefaultClusters is the cluster count used when none is configured.
	DefaultClusters = 4

	clusteringMaxFeatures = 50
	clusteringMinDocFreq  = 2
)

var (
	// ErrEmptyCorpus is returned when training is invoked without documents.
	ErrEmptyCorpus = errors.New("no jobs to train on")
	// ErrNotTrained is returned by Predict before a successful Train or Load.
	ErrNotTrained = errors.New("model is not trained")
)

// trained holds the state produced by one training pass. Vocabulary and
// centroids always travel together; Predict is read-only over it, so a loaded
// or trained model is safe for concurrent predictions.
type trained struct {
	vectorizer *vectorize.Vectorizer
	centroids  [][]float64
}

// Model is the clustering engine. The zero value is untrained; Train or Load
// populates it in one step.
type Model struct {
	k     int
	state *trained
}

// New creates an untrained model with k clusters. Non-positive k falls back
// to DefaultClusters.
func New(k int) *Model {
	if k <= 0 {
		k = DefaultClusters
	}
	return &Model{k: k}
}

// Clusters returns the configured cluster count.
func (m *Model) Clusters() int {
	return m.k
}

// IsTrained reports whether Predict may be called.
func (m *Model) IsTrained() bool {
	return m.state != nil
}

// Train fits a dedicated clustering vocabulary over the corpus, partitions
// the postings into k clusters, assigns every posting its cluster id and
// returns the per-cluster insights. Each call builds fresh state; a model is
// never updated incrementally.
func (m *Model) Train(js *jobs.Jobs) (map[int]Insight, error) {
	if js.Len() == 0 {
		return nil, ErrEmptyCorpus
	}
	if js.Len() < m.k {
		return nil, fmt.Errorf("%d jobs cannot fill %d clusters", js.Len(), m.k)
	}

	v, err := vectorize.Fit(js.SkillTexts(), vectorize.Config{
		MaxFeatures: clusteringMaxFeatures,
		MinDocFreq:  clusteringMinDocFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("fitting clustering vocabulary: %w", err)
	}

	vectors := make([][]float64, js.Len())
	for i, text := range js.SkillTexts() {
		vectors[i] = v.Transform(text)
	}

	centroids, labels := kmeans(vectors, m.k)

	for i, job := range js.Items {
		job.ClusterID = labels[i]
	}

	m.state = &trained{vectorizer: v, centroids: centroids}

	return Analyze(js, m.k), nil
}

// Predict returns the nearest cluster id for a skills text, using exactly the
// vocabulary and centroids frozen at training time.
func (m *Model) Predict(skillsText string) (int, error) {
	if m.state == nil {
		return 0, ErrNotTrained
	}

	vec := m.state.vectorizer.Transform(skillsText)
	return nearestCentroid(vec, m.state.centroids), nil
}

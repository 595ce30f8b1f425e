// Package matching ranks job postings against a user's skills with TF-IDF
// cosine similarity.
package matching

import (
	"sort"

	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/jobs"
	"github.com/karkidi-tools/jobradar/internal/vectorize"
)

const (
	// MaxResults caps a ranked result list.
	MaxResults = 10
	// scoreThreshold excludes negligible overlap while tolerating floating
	// point noise.
	scoreThreshold = 0.01
	// maxFeatures for the per-query vocabulary. Deliberately wider than the
	// clustering vocabulary: the matcher adapts to the current corpus.
	maxFeatures = 1000
)

// Match pairs a posting with its similarity score in [0,1].
type Match struct {
	Job   *jobs.Job
	Score float64
}

// Rank scores every posting against userSkills and returns at most MaxResults
// matches ordered by descending score, corpus order breaking ties. A fresh
// vocabulary is fitted over the corpus plus the query on every call. When the
// combined texts yield no vocabulary at all the matcher degrades to an
// unranked zero-scored head of the corpus instead of failing, so a UI can
// still render something.
func Rank(userSkills string, js *jobs.Jobs, logger *zap.Logger) []Match {
	if js.Len() == 0 {
		return nil
	}

	corpus := append(js.SkillTexts(), userSkills)

	v, err := vectorize.Fit(corpus, vectorize.Config{MaxFeatures: maxFeatures})
	if err != nil {
		logger.Warn("vectorization failed, returning unranked fallback",
			zap.Error(err),
			zap.Int("jobs", js.Len()),
		)
		return fallback(js)
	}

	userVec := v.Transform(userSkills)

	matches := make([]Match, 0, js.Len())
	for _, job := range js.Items {
		score := vectorize.Cosine(userVec, v.Transform(job.Skills))
		job.MatchScore = score
		if score > scoreThreshold {
			matches = append(matches, Match{Job: job, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

func fallback(js *jobs.Jobs) []Match {
	n := js.Len()
	if n > MaxResults {
		n = MaxResults
	}

	matches := make([]Match, 0, n)
	for _, job := range js.Items[:n] {
		job.MatchScore = 0
		matches = append(matches, Match{Job: job})
	}
	return matches
}

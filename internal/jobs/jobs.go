// Package jobs holds the job posting record and its collection helpers.
package jobs

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
)

// ClusterUnassigned marks a posting that has not been labeled yet.
const ClusterUnassigned = -1

// Job is a single scraped posting. The core never mutates scraped fields;
// MatchScore and ClusterID are derived and attached by the matcher and the
// clustering engine.
type Job struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location"`
	Experience string  `json:"experience"`
	Skills     string  `json:"skills"`
	Summary    string  `json:"summary"`
	Link       string  `json:"link"`
	ScrapedAt  string  `json:"scraped_at,omitempty"`
	Keyword    string  `json:"keyword,omitempty"`
	MatchScore float64 `json:"match_score,omitempty"`
	ClusterID  int     `json:"cluster_id"`
}

// NewJob returns a posting with an unassigned cluster.
func NewJob() *Job {
	return &Job{ClusterID: ClusterUnassigned}
}

// Key is the posting identity used for deduplication.
func (j *Job) Key() string {
	return strings.ToLower(strings.TrimSpace(j.Title)) + "|" + strings.ToLower(strings.TrimSpace(j.Company))
}

// Jobs is an in-memory posting collection.
type Jobs struct {
	Items []*Job
}

func (js *Jobs) Len() int {
	return len(js.Items)
}

// SkillTexts returns every posting's raw skills string, missing skills as "".
func (js *Jobs) SkillTexts() []string {
	texts := make([]string, len(js.Items))
	for i, job := range js.Items {
		texts[i] = job.Skills
	}
	return texts
}

// Dedupe removes postings sharing a title+company key, keeping the last
// occurrence. Order of the survivors is preserved.
func (js *Jobs) Dedupe() {
	last := make(map[string]int, len(js.Items))
	for i, job := range js.Items {
		last[job.Key()] = i
	}

	kept := make([]*Job, 0, len(last))
	for i, job := range js.Items {
		if last[job.Key()] == i {
			kept = append(kept, job)
		}
	}
	js.Items = kept
}

// Companies returns the distinct company names in first-seen order.
func (js *Jobs) Companies() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, job := range js.Items {
		if _, ok := seen[job.Company]; ok {
			continue
		}
		seen[job.Company] = struct{}{}
		names = append(names, job.Company)
	}
	return names
}

// FilterByClusters returns postings labeled with any of the given cluster ids.
func (js *Jobs) FilterByClusters(ids []int) *Jobs {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := &Jobs{}
	for _, job := range js.Items {
		if _, ok := want[job.ClusterID]; ok {
			out.Items = append(out.Items, job)
		}
	}
	return out
}

// TopSkills counts raw comma-split skill tokens across the collection,
// ignoring tokens of length <= 2, and returns up to n of them ordered by
// count descending with lexical tie-breaking.
func (js *Jobs) TopSkills(n int) []string {
	counts := CountSkills(js.SkillTexts())

	skills := make([]string, 0, len(counts))
	for s := range counts {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool {
		if counts[skills[i]] != counts[skills[j]] {
			return counts[skills[i]] > counts[skills[j]]
		}
		return skills[i] < skills[j]
	})

	if n > 0 && len(skills) > n {
		skills = skills[:n]
	}
	return skills
}

// CountSkills tallies comma-split tokens from raw skills texts. Tokens of
// length <= 2 are noise and skipped.
func CountSkills(texts []string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, tok := range strings.Split(text, ",") {
			tok = strings.TrimSpace(tok)
			if len(tok) > 2 {
				counts[tok]++
			}
		}
	}
	return counts
}

// DumpToTmpFile writes the collection to a temporary JSON file and returns
// its name.
func (js *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(js); err != nil {
		return "", err
	}
	return file.Name(), nil
}

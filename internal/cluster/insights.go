package cluster

import (
	"sort"
	"strings"

	"github.com/karkidi-tools/jobradar/internal/jobs"
)

const (
	topSkillsPerCluster  = 8
	sampleJobsPerCluster = 3
	companiesPerCluster  = 3
	namingSampleSize     = 5
)

// Insight is the human-facing summary of one cluster. Recomputed from a
// labeled corpus, never mutated independently of it.
type Insight struct {
	Name       string   `json:"name"`
	JobCount   int      `json:"job_count"`
	TopSkills  []string `json:"top_skills"`
	SampleJobs []string `json:"sample_jobs"`
	Companies  []string `json:"companies"`
}

// nameRule maps keyword presence to a category name. Rules are evaluated in
// order, first match wins.
type nameRule struct {
	keywords  []string
	name      string
	useTitles bool
}

var nameRules = []nameRule{
	{keywords: []string{"python", "machine learning", "data science", "analytics"}, name: "Data Science & ML Engineering"},
	{keywords: []string{"backend", "api", "java", "spring"}, name: "Backend Development"},
	{keywords: []string{"frontend", "react", "javascript", "html"}, name: "Frontend Development"},
	{keywords: []string{"aws", "docker", "kubernetes", "devops"}, name: "DevOps & Cloud Engineering"},
	{keywords: []string{"design", "ui", "ux"}, name: "Design & Product"},
	{keywords: []string{"manager", "product", "lead"}, name: "Management & Leadership", useTitles: true},
}

// Analyze summarizes every cluster of a labeled corpus.
func Analyze(js *jobs.Jobs, k int) map[int]Insight {
	insights := make(map[int]Insight, k)

	for id := 0; id < k; id++ {
		members := js.FilterByClusters([]int{id})

		topSkills := members.TopSkills(topSkillsPerCluster)

		titles := make([]string, 0, sampleJobsPerCluster)
		for _, job := range members.Items {
			if len(titles) == sampleJobsPerCluster {
				break
			}
			titles = append(titles, job.Title)
		}

		companies := members.Companies()
		if len(companies) > companiesPerCluster {
			companies = companies[:companiesPerCluster]
		}

		allTitles := make([]string, 0, members.Len())
		for _, job := range members.Items {
			allTitles = append(allTitles, job.Title)
		}

		insights[id] = Insight{
			Name:       deriveName(topSkills, allTitles),
			JobCount:   members.Len(),
			TopSkills:  topSkills,
			SampleJobs: titles,
			Companies:  companies,
		}
	}

	return insights
}

// deriveName picks a category name from the ordered keyword rules, testing
// the top skills first and job titles for the management rule. Falls back to
// a "<top skill> Specialist" label, then to "General Jobs" when the cluster
// carries no skills at all.
func deriveName(topSkills, titles []string) string {
	if len(topSkills) == 0 {
		return "General Jobs"
	}

	skillText := strings.ToLower(strings.Join(head(topSkills, namingSampleSize), " "))
	titleText := strings.ToLower(strings.Join(head(titles, namingSampleSize), " "))

	for _, rule := range nameRules {
		haystack := skillText
		if rule.useTitles {
			haystack = titleText
		}
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.name
			}
		}
	}

	return topSkills[0] + " Specialist"
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// SortedIDs returns the insight keys in ascending order, for stable
// rendering.
func SortedIDs(insights map[int]Insight) []int {
	ids := make([]int, 0, len(insights))
	for id := range insights {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

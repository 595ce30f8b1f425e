// Package ui renders matcher and clustering results for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/karkidi-tools/jobradar/internal/cluster"
	"github.com/karkidi-tools/jobradar/internal/matching"
	"github.com/karkidi-tools/jobradar/internal/monitor"
	"github.com/karkidi-tools/jobradar/internal/store"
	"github.com/karkidi-tools/jobradar/internal/util"
)

const skillColumnWidth = 45

// PrintMatches renders a ranked match table.
func PrintMatches(matches []matching.Match) {
	if len(matches) == 0 {
		pterm.Warning.Println("No matching jobs found. Try different skills or scrape more jobs.")
		return
	}

	rows := pterm.TableData{{"#", "Score", "Title", "Company", "Location", "Skills"}}
	for i, m := range matches {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", m.Score),
			m.Job.Title,
			m.Job.Company,
			m.Job.Location,
			util.TruncateForLog(m.Job.Skills, skillColumnWidth),
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// PrintInsights renders one section per cluster.
func PrintInsights(insights map[int]cluster.Insight) {
	for _, id := range cluster.SortedIDs(insights) {
		in := insights[id]

		pterm.DefaultSection.Printf("Cluster %d: %s (%d jobs)", id, in.Name, in.JobCount)
		pterm.Info.Println("Top skills: " + strings.Join(in.TopSkills, ", "))
		if len(in.SampleJobs) > 0 {
			pterm.Info.Println("Sample jobs: " + strings.Join(in.SampleJobs, "; "))
		}
		if len(in.Companies) > 0 {
			pterm.Info.Println("Companies: " + strings.Join(in.Companies, ", "))
		}
	}
}

// PrintStats renders the job database summary.
func PrintStats(stats *store.Stats) {
	if !stats.Exists {
		pterm.Warning.Println("No job database found. Run 'jobradar scrape' first.")
		return
	}

	pterm.Info.Printf("Jobs: %d | Companies: %d | Updated: %s\n",
		stats.TotalJobs,
		stats.Companies,
		humanize.Time(stats.LastUpdated),
	)
	if len(stats.TopSkills) > 0 {
		pterm.Info.Println("Top skills: " + strings.Join(stats.TopSkills, ", "))
	}
}

// PrintAlerts renders monitoring alerts, one block per user.
func PrintAlerts(alerts []monitor.Alert) {
	for _, alert := range alerts {
		pterm.DefaultSection.Printf("%d new matching jobs for %s", len(alert.Jobs), alert.UserID)
		for _, job := range alert.Jobs {
			pterm.Info.Printf("%s at %s (%s)\n", job.Title, job.Company, job.Link)
		}
	}
}

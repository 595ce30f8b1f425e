package cmd

import (
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/jobs"
	"github.com/karkidi-tools/jobradar/internal/matching"
	"github.com/karkidi-tools/jobradar/internal/ui"
)

const promptDone = "Done"

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored postings against your skills",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("skills", "s", "", "comma-separated skills; interactive selection when omitted")
}

func match(cmd *cobra.Command) {
	zl, _, st := setup()

	js, err := st.Load()
	if err != nil {
		zl.Fatal("loading job database", zap.Error(err))
	}

	if js.Len() == 0 {
		zl.Info("exiting", zap.String("reason", "job database is empty, scrape first"))
		return
	}

	skills, _ := cmd.Flags().GetString("skills")
	if strings.TrimSpace(skills) == "" {
		skills, err = selectSkills(js)
		if err != nil {
			zl.Fatal("selecting skills", zap.Error(err))
		}
	}

	if strings.TrimSpace(skills) == "" {
		zl.Info("exiting", zap.String("reason", "no skills provided"))
		return
	}

	zl.Info("matching jobs", zap.String("skills", skills), zap.Int("corpus", js.Len()))

	ui.PrintMatches(matching.Rank(skills, js, zl))
}

// selectSkills lets the user pick skills one by one from the corpus's most
// frequent ones.
func selectSkills(js *jobs.Jobs) (string, error) {
	available := js.TopSkills(25)
	selected := make([]string, 0)

	for {
		items := make([]string, 0, len(available)+1)
		for _, s := range available {
			if !contains(selected, s) {
				items = append(items, s)
			}
		}
		items = append(items, promptDone)

		prompt := promptui.Select{
			Label: "Pick a skill and press ENTER",
			Items: items,
		}

		_, choice, err := prompt.Run()
		if err != nil {
			return "", err
		}
		if choice == promptDone {
			return strings.Join(selected, ", "), nil
		}

		selected = append(selected, choice)
	}
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/cluster"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict which job category a skills list belongs to",
	Run: func(cmd *cobra.Command, _ []string) {
		predict(cmd)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringP("skills", "s", "", "comma-separated skills to classify")
	predictCmd.MarkFlagRequired("skills")
}

func predict(cmd *cobra.Command) {
	zl, config, st := setup()

	model, err := cluster.Load(config.ModelFile)
	if err != nil {
		zl.Fatal("loading model",
			zap.Error(err),
			zap.String("hint", "run 'jobradar train' first"),
		)
	}

	skills, _ := cmd.Flags().GetString("skills")

	id, err := model.Predict(skills)
	if err != nil {
		zl.Fatal("predicting cluster", zap.Error(err))
	}

	// The cluster name lives in the labeled corpus, not the artifact.
	name := ""
	if js, err := st.Load(); err == nil && js.Len() > 0 {
		if insight, ok := cluster.Analyze(js, model.Clusters())[id]; ok && insight.JobCount > 0 {
			name = insight.Name
		}
	}

	if name != "" {
		pterm.Success.Printf("Cluster %d: %s\n", id, name)
		return
	}
	pterm.Success.Printf("Cluster %d\n", id)
}

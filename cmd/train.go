package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/cluster"
	"github.com/karkidi-tools/jobradar/internal/ui"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the clustering model on the job database and save it",
	Run: func(cmd *cobra.Command, _ []string) {
		train(cmd)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().IntP("clusters", "c", 0, "number of clusters (default from config, then 4)")
}

func train(cmd *cobra.Command) {
	zl, config, st := setup()

	k, _ := cmd.Flags().GetInt("clusters")
	if k <= 0 && config.Clustering != nil {
		k = config.Clustering.Clusters
	}

	js, err := st.Load()
	if err != nil {
		zl.Fatal("loading job database", zap.Error(err))
	}

	model := cluster.New(k)
	zl.Info("training clustering model",
		zap.Int("jobs", js.Len()),
		zap.Int("clusters", model.Clusters()),
	)

	insights, err := model.Train(js)
	if err != nil {
		zl.Fatal("training failed", zap.Error(err))
	}

	if err := model.Save(config.ModelFile); err != nil {
		zl.Fatal("saving model", zap.Error(err))
	}
	zl.Info("model saved", zap.String("file", config.ModelFile))

	// Labels travel with the postings from now on.
	if err := st.Save(js, false); err != nil {
		zl.Fatal("saving labeled jobs", zap.Error(err))
	}

	ui.PrintInsights(insights)
}

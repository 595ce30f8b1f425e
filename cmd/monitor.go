package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/cluster"
	"github.com/karkidi-tools/jobradar/internal/monitor"
	"github.com/karkidi-tools/jobradar/internal/scraper"
	"github.com/karkidi-tools/jobradar/internal/store"
	"github.com/karkidi-tools/jobradar/internal/ui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Scrape, classify and alert on new postings every day",
	Run: func(cmd *cobra.Command, _ []string) {
		runMonitor(cmd)
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Bool("once", false, "run a single monitoring pass and exit")
}

func runMonitor(cmd *cobra.Command) {
	zl, config, st := setup()

	if config.Monitor == nil {
		zl.Fatal("monitor section is required in the config")
	}

	model := loadOrTrainModel(zl, config, st)

	userAgent := ""
	pages := 0
	keywords := []string{}
	if config.Scrape != nil {
		userAgent = config.Scrape.UserAgent
		pages = config.Scrape.Pages
		keywords = config.Scrape.Keywords
	}

	s := scraper.New(scraper.Config{UserAgent: userAgent}, zl)

	m, err := monitor.New(monitor.Config{
		Time:     config.Monitor.Time,
		Timezone: config.Monitor.Timezone,
		Keywords: keywords,
		Pages:    pages,
		Users:    config.Monitor.Users,
	}, s, st, model, zl)
	if err != nil {
		zl.Fatal("configuring monitor", zap.Error(err))
	}

	m.Notify = ui.PrintAlerts

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once, _ := cmd.Flags().GetBool("once"); once {
		alerts, err := m.RunOnce(ctx)
		if err != nil {
			zl.Fatal("monitoring run failed", zap.Error(err))
		}
		if len(alerts) == 0 {
			zl.Info("no alerts raised")
		}
		return
	}

	if err := m.Start(ctx); err != nil {
		zl.Fatal("starting monitor", zap.Error(err))
	}

	<-ctx.Done()
	zl.Info("shutting down monitor")
	m.Stop()
}

// loadOrTrainModel reuses the persisted model when possible and falls back
// to training a fresh one from the job database.
func loadOrTrainModel(zl *zap.Logger, config *Config, st *store.Store) *cluster.Model {
	model, err := cluster.Load(config.ModelFile)
	if err == nil {
		zl.Info("clustering model loaded", zap.String("file", config.ModelFile))
		return model
	}
	if !errors.Is(err, os.ErrNotExist) {
		zl.Fatal("loading model", zap.Error(err))
	}

	zl.Info("no trained model found, training a new one")

	js, err := st.Load()
	if err != nil {
		zl.Fatal("loading job database", zap.Error(err))
	}

	k := 0
	if config.Clustering != nil {
		k = config.Clustering.Clusters
	}

	model = cluster.New(k)
	if _, err := model.Train(js); err != nil {
		zl.Fatal("training initial model",
			zap.Error(err),
			zap.String("hint", "scrape jobs first, then run 'jobradar train'"),
		)
	}

	if err := model.Save(config.ModelFile); err != nil {
		zl.Fatal("saving model", zap.Error(err))
	}

	return model
}

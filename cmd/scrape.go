package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/scraper"
	"github.com/karkidi-tools/jobradar/internal/ui"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape karkidi.com postings and merge them into the job database",
	Run: func(cmd *cobra.Command, _ []string) {
		scrape(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("keyword", "k", "software developer", "search keyword")
	scrapeCmd.Flags().IntP("pages", "p", 2, "number of result pages to fetch")
	scrapeCmd.Flags().Bool("no-progress", false, "disable the progress bar")
}

func scrape(cmd *cobra.Command) {
	zl, config, st := setup()

	keyword, _ := cmd.Flags().GetString("keyword")
	pages, _ := cmd.Flags().GetInt("pages")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	userAgent := ""
	if config.Scrape != nil {
		userAgent = config.Scrape.UserAgent
	}

	s := scraper.New(scraper.Config{
		UserAgent: userAgent,
		Progress:  !noProgress,
	}, zl)

	zl.Info("starting the scrape", zap.String("keyword", keyword), zap.Int("pages", pages))

	found, err := s.Scrape(context.Background(), keyword, pages)
	if err != nil {
		zl.Fatal("scraping failed", zap.Error(err))
	}

	found.Dedupe()

	if viper.GetBool("debug") {
		filename, err := found.DumpToTmpFile()
		if err != nil {
			zl.Warn("dumping scraped jobs", zap.Error(err))
		} else {
			zl.Debug("scraped jobs dumped", zap.String("filename", filename))
		}
	}

	if found.Len() == 0 {
		zl.Warn("no jobs scraped", zap.String("keyword", keyword))
		return
	}

	if err := st.Save(found, true); err != nil {
		zl.Fatal("saving jobs", zap.Error(err))
	}

	zl.Info("jobs saved", zap.Int("count", found.Len()), zap.String("file", st.Path()))

	stats, err := st.Stats()
	if err != nil {
		zl.Fatal("reading database stats", zap.Error(err))
	}
	ui.PrintStats(stats)
}

package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/logger"
	"github.com/karkidi-tools/jobradar/internal/monitor"
	"github.com/karkidi-tools/jobradar/internal/store"
)

const (
	app = "jobradar"

	defaultDataFile  = "data/jobs.csv"
	defaultModelFile = "models/clusters.json"
)

type Config struct {
	DataFile   string `mapstructure:"data-file"`
	ModelFile  string `mapstructure:"model-file"`
	Scrape     *ScrapeConfig
	Clustering *ClusteringConfig
	Monitor    *MonitorConfig
}

type ScrapeConfig struct {
	Keywords  []string `mapstructure:"keywords"`
	Pages     int      `mapstructure:"pages"`
	UserAgent string   `mapstructure:"user-agent"`
}

type ClusteringConfig struct {
	Clusters int `mapstructure:"clusters"`
}

type MonitorConfig struct {
	Time     string                   `mapstructure:"time"`
	Timezone string                   `mapstructure:"timezone"`
	Users    []monitor.UserPreference `mapstructure:"users"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar scrapes karkidi.com postings, matches them against your skills and groups them into categories",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("data-file", defaultDataFile)
	viper.SetDefault("model-file", defaultModelFile)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// Every command runs with built-in defaults, so a missing config file is
	// fine. A config file parsed with error is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	if config.DataFile == "" {
		config.DataFile = defaultDataFile
	}
	if config.ModelFile == "" {
		config.ModelFile = defaultModelFile
	}

	return config, nil
}

// setup builds the logger, config and job store every command needs.
func setup() (*zap.Logger, *Config, *store.Store) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	return zl, config, store.New(config.DataFile)
}

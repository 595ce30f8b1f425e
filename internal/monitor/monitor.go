// Package monitor runs the daily scrape-classify-alert loop.
package monitor

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/cluster"
	"github.com/karkidi-tools/jobradar/internal/jobs"
	"github.com/karkidi-tools/jobradar/internal/store"
	"github.com/karkidi-tools/jobradar/internal/util"
)

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// UserPreference names a user and the cluster ids they want alerts for.
type UserPreference struct {
	ID       string `mapstructure:"id"`
	Clusters []int  `mapstructure:"clusters"`
}

// Config controls the monitoring schedule and what gets scraped.
type Config struct {
	// Time is the daily run time in HH:MM.
	Time string
	// Timezone for the schedule; empty means the system zone.
	Timezone string
	// Keywords scraped on every run.
	Keywords []string
	// Pages fetched per keyword.
	Pages int
	// Users with cluster preferences to alert.
	Users []UserPreference
}

// Fetcher supplies fresh postings for a keyword. The karkidi scraper is the
// production implementation.
type Fetcher interface {
	Scrape(ctx context.Context, keyword string, pages int) (*jobs.Jobs, error)
}

// Alert is a batch of new postings matching one user's preferred clusters.
type Alert struct {
	UserID string
	Jobs   []*jobs.Job
}

// Monitor schedules and executes monitoring runs. The model must be trained
// before the first run; predictions are read-only, so a single model serves
// every run.
type Monitor struct {
	cfg     Config
	fetcher Fetcher
	store   *store.Store
	model   *cluster.Model
	logger  *zap.Logger
	cron    *cron.Cron
	// Notify receives alerts after every run; optional.
	Notify func([]Alert)
}

// New validates the configuration and builds a monitor.
func New(cfg Config, fetcher Fetcher, st *store.Store, model *cluster.Model, logger *zap.Logger) (*Monitor, error) {
	if !timeRe.MatchString(cfg.Time) {
		return nil, fmt.Errorf("invalid monitor time %q, want HH:MM", cfg.Time)
	}
	if len(cfg.Keywords) == 0 {
		return nil, fmt.Errorf("at least one monitor keyword is required")
	}
	if !model.IsTrained() {
		return nil, cluster.ErrNotTrained
	}
	if cfg.Pages < 1 {
		cfg.Pages = 1
	}

	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
	}

	return &Monitor{
		cfg:     cfg,
		fetcher: fetcher,
		store:   st,
		model:   model,
		logger:  logger,
		cron:    cron.New(cron.WithLocation(loc)),
	}, nil
}

// Start schedules the daily run and starts the cron loop.
func (m *Monitor) Start(ctx context.Context) error {
	spec := fmt.Sprintf("%s %s * * *", m.cfg.Time[3:], m.cfg.Time[:2])

	_, err := m.cron.AddFunc(spec, func() {
		if _, err := m.RunOnce(ctx); err != nil {
			m.logger.Error("monitoring run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling monitor: %w", err)
	}

	m.cron.Start()
	m.logger.Info("daily monitoring started",
		zap.String("time", m.cfg.Time),
		zap.Strings("keywords", m.cfg.Keywords),
	)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

// RunOnce scrapes every configured keyword, persists the postings, labels
// them with the trained model and returns the alerts raised for user
// preferences.
func (m *Monitor) RunOnce(ctx context.Context) ([]Alert, error) {
	m.logger.Info("monitoring run started", zap.Time("at", time.Now()))

	fresh := &jobs.Jobs{}
	for _, keyword := range m.cfg.Keywords {
		found, err := m.fetcher.Scrape(ctx, keyword, m.cfg.Pages)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.logger.Warn("scraping keyword failed",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			continue
		}
		fresh.Items = append(fresh.Items, found.Items...)
	}

	fresh.Dedupe()
	if fresh.Len() == 0 {
		m.logger.Info("no new jobs found")
		return nil, nil
	}

	for _, job := range fresh.Items {
		id, err := m.model.Predict(job.Skills)
		if err != nil {
			return nil, fmt.Errorf("classifying %q: %w", job.Title, err)
		}
		job.ClusterID = id
	}

	if err := m.store.Save(fresh, true); err != nil {
		return nil, fmt.Errorf("persisting new jobs: %w", err)
	}

	alerts := m.checkAlerts(fresh)

	m.logger.Info("monitoring run finished",
		zap.Int("new_jobs", fresh.Len()),
		zap.Int("alerts", len(alerts)),
	)

	if m.Notify != nil && len(alerts) > 0 {
		m.Notify(alerts)
	}

	return alerts, nil
}

// checkAlerts matches labeled postings against every user's preferred
// clusters.
func (m *Monitor) checkAlerts(js *jobs.Jobs) []Alert {
	alerts := make([]Alert, 0)
	for _, user := range m.cfg.Users {
		matched := js.FilterByClusters(user.Clusters)
		if matched.Len() == 0 {
			continue
		}

		for _, job := range matched.Items {
			m.logger.Info("alert",
				zap.String("user", user.ID),
				zap.String("title", job.Title),
				zap.String("company", job.Company),
				zap.String("skills", util.TruncateForLog(job.Skills, 50)),
				zap.String("link", job.Link),
			)
		}

		alerts = append(alerts, Alert{UserID: user.ID, Jobs: matched.Items})
	}
	return alerts
}

package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/cluster"
	"github.com/karkidi-tools/jobradar/internal/jobs"
	"github.com/karkidi-tools/jobradar/internal/store"
)

type stubFetcher struct {
	byKeyword map[string][]*jobs.Job
	err       error
}

func (s *stubFetcher) Scrape(_ context.Context, keyword string, _ int) (*jobs.Jobs, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &jobs.Jobs{Items: s.byKeyword[keyword]}, nil
}

func trainedModel(t *testing.T) *cluster.Model {
	t.Helper()

	js := &jobs.Jobs{Items: []*jobs.Job{
		{Title: "ML Engineer", Skills: "Python, Machine Learning"},
		{Title: "Data Scientist", Skills: "Python, Machine Learning"},
		{Title: "Java Developer", Skills: "Java, Spring, Backend"},
		{Title: "Backend Engineer", Skills: "Java, Spring, Backend"},
	}}

	model := cluster.New(2)
	if _, err := model.Train(js); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	return model
}

func newMonitor(t *testing.T, fetcher Fetcher, users []UserPreference) (*Monitor, *store.Store, *cluster.Model) {
	t.Helper()

	st := store.New(filepath.Join(t.TempDir(), "jobs.csv"))
	model := trainedModel(t)

	m, err := New(Config{
		Time:     "09:00",
		Keywords: []string{"python"},
		Users:    users,
	}, fetcher, st, model, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m, st, model
}

func TestRunOnceClassifiesAndAlerts(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{byKeyword: map[string][]*jobs.Job{
		"python": {
			{Title: "NLP Engineer", Company: "Acme", Skills: "Python, Machine Learning", ClusterID: jobs.ClusterUnassigned},
			{Title: "Java Architect", Company: "Globex", Skills: "Java, Spring, Backend", ClusterID: jobs.ClusterUnassigned},
		},
	}}

	m, st, model := newMonitor(t, fetcher, nil)

	mlCluster, err := model.Predict("Python, Machine Learning")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.cfg.Users = []UserPreference{{ID: "user1", Clusters: []int{mlCluster}}}

	var notified []Alert
	m.Notify = func(alerts []Alert) { notified = alerts }

	alerts, err := m.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(alerts) != 1 || alerts[0].UserID != "user1" {
		t.Fatalf("expected one alert for user1, got %+v", alerts)
	}
	if len(alerts[0].Jobs) != 1 || alerts[0].Jobs[0].Title != "NLP Engineer" {
		t.Fatalf("expected the python posting in the alert, got %+v", alerts[0].Jobs)
	}
	if len(notified) != 1 {
		t.Fatalf("expected notify callback, got %+v", notified)
	}

	persisted, err := st.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if persisted.Len() != 2 {
		t.Fatalf("expected both postings persisted, got %d", persisted.Len())
	}
	for _, job := range persisted.Items {
		if job.ClusterID == jobs.ClusterUnassigned {
			t.Fatalf("expected every persisted posting labeled, got %+v", job)
		}
	}
}

func TestRunOnceNoJobs(t *testing.T) {
	t.Parallel()

	m, _, _ := newMonitor(t, &stubFetcher{}, nil)

	alerts, err := m.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if alerts != nil {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestRunOnceScrapeErrorSkipped(t *testing.T) {
	t.Parallel()

	m, _, _ := newMonitor(t, &stubFetcher{err: errors.New("boom")}, nil)

	if _, err := m.RunOnce(context.Background()); err != nil {
		t.Fatalf("expected scrape failures to be skipped, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	st := store.New(filepath.Join(t.TempDir(), "jobs.csv"))
	model := trainedModel(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "bad time",
			cfg:  Config{Time: "25:99", Keywords: []string{"go"}},
		},
		{
			name: "no keywords",
			cfg:  Config{Time: "09:00"},
		},
		{
			name: "bad timezone",
			cfg:  Config{Time: "09:00", Timezone: "Mars/Olympus", Keywords: []string{"go"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg, &stubFetcher{}, st, model, zap.NewNop()); err == nil {
				t.Fatalf("expected config validation error")
			}
		})
	}
}

func TestNewRequiresTrainedModel(t *testing.T) {
	t.Parallel()

	st := store.New(filepath.Join(t.TempDir(), "jobs.csv"))
	cfg := Config{Time: "09:00", Keywords: []string{"go"}}

	if _, err := New(cfg, &stubFetcher{}, st, cluster.New(2), zap.NewNop()); !errors.Is(err, cluster.ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained, got %v", err)
	}
}

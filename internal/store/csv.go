// Package store persists the job corpus as a CSV file on disk.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/karkidi-tools/jobradar/internal/jobs"
)

var header = []string{
	"title", "company", "location", "experience", "skills",
	"summary", "link", "scraped_at", "keyword", "cluster_id",
}

// Store reads and writes the CSV job database. The store is the only
// component touching disk for job data; everything downstream works on the
// in-memory collection.
type Store struct {
	path string
}

// New creates a store over the given CSV path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads all postings. A missing or empty file yields an empty
// collection, not an error.
func (s *Store) Load() (*jobs.Jobs, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &jobs.Jobs{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening job database: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(header)

	js := &jobs.Jobs{}
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading job database: %w", err)
		}
		if first {
			first = false
			continue
		}

		clusterID := jobs.ClusterUnassigned
		if id, err := strconv.Atoi(record[9]); err == nil {
			clusterID = id
		}

		js.Items = append(js.Items, &jobs.Job{
			Title:      record[0],
			Company:    record[1],
			Location:   record[2],
			Experience: record[3],
			Skills:     record[4],
			Summary:    record[5],
			Link:       record[6],
			ScrapedAt:  record[7],
			Keyword:    record[8],
			ClusterID:  clusterID,
		})
	}

	return js, nil
}

// Save writes the postings to disk. With merge set, existing postings are
// read first and duplicates by title+company are resolved in favor of the
// incoming data.
func (s *Store) Save(js *jobs.Jobs, merge bool) error {
	out := js
	if merge {
		existing, err := s.Load()
		if err != nil {
			return err
		}
		combined := &jobs.Jobs{Items: append(existing.Items, js.Items...)}
		combined.Dedupe()
		out = combined
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating job database: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, job := range out.Items {
		record := []string{
			job.Title, job.Company, job.Location, job.Experience, job.Skills,
			job.Summary, job.Link, job.ScrapedAt, job.Keyword,
			strconv.Itoa(job.ClusterID),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Stats summarizes the on-disk database for dashboards.
type Stats struct {
	Exists      bool
	TotalJobs   int
	Companies   int
	LastUpdated time.Time
	TopSkills   []string
}

// Stats inspects the CSV without retaining its contents.
func (s *Store) Stats() (*Stats, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Stats{}, nil
	}
	if err != nil {
		return nil, err
	}

	js, err := s.Load()
	if err != nil {
		return nil, err
	}

	return &Stats{
		Exists:      true,
		TotalJobs:   js.Len(),
		Companies:   len(js.Companies()),
		LastUpdated: info.ModTime(),
		TopSkills:   js.TopSkills(10),
	}, nil
}

// Package scraper collects job postings from karkidi.com search pages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"
	"go.uber.org/zap"

	"github.com/karkidi-tools/jobradar/internal/jobs"
	"github.com/karkidi-tools/jobradar/internal/util"
)

const (
	defaultBaseURL   = "https://www.karkidi.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	minPageDelay = 1 * time.Second
	maxPageDelay = 3 * time.Second

	requestTimeout = 15 * time.Second
)

// skillKeywords is the fallback extraction list used when a posting block
// carries no explicit Key Skills section.
var skillKeywords = []string{
	"Python", "Java", "JavaScript", "React", "Node.js", "SQL", "HTML", "CSS",
	"Django", "Flask", "Spring", "Angular", "Vue", "MongoDB", "PostgreSQL",
	"MySQL", "AWS", "Azure", "Docker", "Kubernetes", "Git", "Linux",
	"Machine Learning", "Data Science", "AI", "REST", "API", "JSON",
	"C++", "C#", ".NET", "PHP", "Laravel", "Ruby", "Go", "Rust", "GCP",
}

// junkPhrases disqualify navigation noise that karkidi renders inside the
// result markup.
var junkPhrases = []string{
	"filter by", "toggle navigation", "employer login", "sign up",
	"forgot password", "new clients", "register now", "job types",
}

// Config controls a scraping run.
type Config struct {
	// BaseURL defaults to the karkidi site; tests point it at a local server.
	BaseURL string
	// UserAgent sent with every request.
	UserAgent string
	// Delay between page fetches. Zero disables the politeness pause.
	MinDelay time.Duration
	MaxDelay time.Duration
	// Progress renders a terminal progress bar across pages.
	Progress bool
}

// Scraper fetches and parses karkidi search result pages.
type Scraper struct {
	client *http.Client
	cfg    Config
	logger *zap.Logger
}

// New creates a scraper, filling config defaults.
func New(cfg Config, logger *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Scraper{
		client: &http.Client{Timeout: requestTimeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Scrape fetches the given number of result pages for a keyword and returns
// the valid postings found. Page failures are logged and skipped; the run
// only fails when the context is canceled.
func (s *Scraper) Scrape(ctx context.Context, keyword string, pages int) (*jobs.Jobs, error) {
	if pages < 1 {
		pages = 1
	}

	var bar *pb.ProgressBar
	if s.cfg.Progress {
		bar = pb.StartNew(pages)
		defer bar.Finish()
	}

	all := &jobs.Jobs{}
	for page := 1; page <= pages; page++ {
		found, err := s.scrapePage(ctx, keyword, page)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			s.logger.Warn("skipping page",
				zap.Int("page", page),
				zap.Error(err),
			)
		} else {
			s.logger.Debug("scraped page",
				zap.Int("page", page),
				zap.Int("jobs", found.Len()),
			)
			all.Items = append(all.Items, found.Items...)
		}

		if bar != nil {
			bar.Increment()
		}

		if page < pages {
			if err := util.WaitFor(ctx, s.pageDelay()); err != nil {
				return all, err
			}
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, job := range all.Items {
		job.ScrapedAt = now
		job.Keyword = keyword
	}

	s.logger.Info("scraping finished",
		zap.String("keyword", keyword),
		zap.Int("pages", pages),
		zap.Int("jobs", all.Len()),
	)

	return all, nil
}

func (s *Scraper) scrapePage(ctx context.Context, keyword string, page int) (*jobs.Jobs, error) {
	pageURL := fmt.Sprintf("%s/Find-Jobs/%d/all/India?search=%s",
		s.cfg.BaseURL, page, url.QueryEscape(keyword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return Parse(resp.Body, pageURL)
}

func (s *Scraper) pageDelay() time.Duration {
	min, max := s.cfg.MinDelay, s.cfg.MaxDelay
	if min <= 0 && max <= 0 {
		min, max = minPageDelay, maxPageDelay
	}
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Parse extracts valid postings from a search results page.
func Parse(r io.Reader, pageURL string) (*jobs.Jobs, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	js := &jobs.Jobs{}
	doc.Find("div.ads-details").Each(func(_ int, block *goquery.Selection) {
		if job := extractJob(block, pageURL); job != nil && isValidJob(job) {
			js.Items = append(js.Items, job)
		}
	})

	return js, nil
}

func extractJob(block *goquery.Selection, pageURL string) *jobs.Job {
	title := cleanText(block.Find("h4").First().Text())
	company := cleanText(block.Find(`a[href*="Employer-Profile"]`).First().Text())
	if title == "" || company == "" {
		return nil
	}

	location := cleanText(block.Find("p").First().Text())
	if location == "" {
		location = "Location Not Specified"
	}

	experience := cleanText(block.Find("p.emp-exp").First().Text())
	if experience == "" {
		experience = "Experience Not Specified"
	}

	skills := labeledText(block, "Key Skills")
	if skills == "" {
		skills = extractSkillsFromText(block.Text())
	}
	if skills == "" {
		skills = "Skills not specified"
	}

	summary := labeledText(block, "Summary")
	if summary == "" {
		summary = "No summary available"
	}

	link := pageURL
	if href, ok := block.Find("a[href]").First().Attr("href"); ok {
		if strings.HasPrefix(href, "http") {
			link = href
		} else {
			link = defaultBaseURL + href
		}
	}

	job := jobs.NewJob()
	job.Title = title
	job.Company = company
	job.Location = location
	job.Experience = experience
	job.Skills = skills
	job.Summary = cleanText(summary)
	job.Link = link
	return job
}

// labeledText finds the span carrying the given label and returns the text of
// the paragraph that follows it.
func labeledText(block *goquery.Selection, label string) string {
	var out string
	block.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != label {
			return true
		}
		p := s.NextAllFiltered("p").First()
		if p.Length() == 0 {
			p = s.Parent().NextAll().Find("p").First()
		}
		out = strings.TrimSpace(p.Text())
		return false
	})
	return out
}

func isValidJob(job *jobs.Job) bool {
	title := strings.ToLower(job.Title)
	company := strings.ToLower(job.Company)

	for _, phrase := range junkPhrases {
		if strings.Contains(title, phrase) || strings.Contains(company, phrase) {
			return false
		}
	}

	return len(job.Title) >= 3 && len(job.Company) >= 2
}

func cleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	for _, phrase := range []string{"click here", "read more", "apply now", "view details", "learn more"} {
		text = strings.ReplaceAll(text, phrase, "")
	}
	return strings.TrimSpace(text)
}

// extractSkillsFromText scans free text for known technology names, keeping
// at most eight in discovery order.
func extractSkillsFromText(text string) string {
	lower := strings.ToLower(text)

	found := make([]string, 0, 8)
	for _, skill := range skillKeywords {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
			if len(found) == 8 {
				break
			}
		}
	}

	return strings.Join(found, ", ")
}

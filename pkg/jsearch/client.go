// Package jsearch is a client for the JSearch job API served through RapidAPI.
package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/job-aggregator/pkg/httpx"
	"github.com/honeycarbs/job-aggregator/pkg/jsonx"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

const (
	serviceName    = "jsearch"
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultHost    = "jsearch.p.rapidapi.com"
	defaultQuery   = "jobs"
)

// Config defines JSearch client settings
type Config struct {
	APIKey     string
	Host       string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *logging.Logger
}

// Client queries the JSearch search endpoint
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// SearchParams describe one search page
type SearchParams struct {
	Query   string
	Country string
	Page    int
}

// Job is a decoded JSearch result
type Job struct {
	ID             string
	Title          string
	EmployerName   string
	EmployerLogo   string
	Publisher      string
	EmploymentType string
	ApplyLink      string
	GoogleLink     string
	Description    string
	IsRemote       *bool
	City           string
	State          string
	Country        string
	MinSalary      *float64
	MaxSalary      *float64
	SalaryCurrency string
	SalaryPeriod   string
	Skills         []string
	Qualifications []string
	PostedAt       *time.Time
}

// Location joins city, state and country into display text
func (j Job) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{j.City, j.State, j.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type searchResponse struct {
	Status string            `json:"status"`
	Data   []json.RawMessage `json:"data"`
}

type jobPosting struct {
	JobID          jsonx.String `json:"job_id"`
	Title          string       `json:"job_title"`
	EmployerName   string       `json:"employer_name"`
	EmployerLogo   string       `json:"employer_logo"`
	Publisher      string       `json:"job_publisher"`
	EmploymentType string       `json:"job_employment_type"`
	ApplyLink      string       `json:"job_apply_link"`
	GoogleLink     string       `json:"job_google_link"`
	Description    string       `json:"job_description"`
	IsRemote       jsonx.Bool   `json:"job_is_remote"`
	PostedAtUTC    string       `json:"job_posted_at_datetime_utc"`
	City           string       `json:"job_city"`
	State          string       `json:"job_state"`
	Country        string       `json:"job_country"`
	MinSalary      jsonx.Float  `json:"job_min_salary"`
	MaxSalary      jsonx.Float  `json:"job_max_salary"`
	SalaryCurrency string       `json:"job_salary_currency"`
	SalaryPeriod   string       `json:"job_salary_period"`
	RequiredSkills []string     `json:"job_required_skills"`
	Highlights     struct {
		Qualifications []string `json:"Qualifications"`
	} `json:"job_highlights"`
}

// NewClient builds a JSearch client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("jsearch: api key is required")
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewClient(httpx.DefaultTimeout)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		apiKey:     cfg.APIKey,
		host:       host,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		logger:     logger,
	}, nil
}

// Search fetches one page of results
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("jsearch: client is nil")
	}

	query := strings.TrimSpace(params.Query)
	if query == "" {
		query = defaultQuery
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(page))
	values.Set("num_pages", "1")
	if params.Country != "" {
		values.Set("country", strings.ToLower(params.Country))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch: build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	var payload searchResponse
	if err := httpx.GetJSON(c.httpClient, c.limiter, req, serviceName, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "" && !strings.EqualFold(payload.Status, "OK") {
		return nil, &httpx.DecodeError{Service: serviceName, Cause: fmt.Errorf("unexpected status %q", payload.Status)}
	}

	postings, skipped := httpx.DecodeItems[jobPosting](payload.Data)
	if skipped > 0 {
		c.logger.Warn("skipped malformed results", "service", serviceName, "skipped", skipped, "decoded", len(postings))
	}
	jobs := make([]Job, 0, len(postings))
	for _, p := range postings {
		jobs = append(jobs, mapPosting(p))
	}
	return jobs, nil
}

func mapPosting(p jobPosting) Job {
	job := Job{
		ID:             string(p.JobID),
		Title:          strings.TrimSpace(p.Title),
		EmployerName:   strings.TrimSpace(p.EmployerName),
		EmployerLogo:   p.EmployerLogo,
		Publisher:      p.Publisher,
		EmploymentType: p.EmploymentType,
		ApplyLink:      p.ApplyLink,
		GoogleLink:     p.GoogleLink,
		Description:    p.Description,
		IsRemote:       p.IsRemote.Ptr(),
		City:           p.City,
		State:          p.State,
		Country:        p.Country,
		MinSalary:      p.MinSalary.Ptr(),
		MaxSalary:      p.MaxSalary.Ptr(),
		SalaryCurrency: p.SalaryCurrency,
		SalaryPeriod:   p.SalaryPeriod,
		Skills:         p.RequiredSkills,
		Qualifications: p.Highlights.Qualifications,
	}
	if p.PostedAtUTC != "" {
		if ts, err := time.Parse(time.RFC3339, p.PostedAtUTC); err == nil {
			ts = ts.UTC()
			job.PostedAt = &ts
		}
	}
	return job
}

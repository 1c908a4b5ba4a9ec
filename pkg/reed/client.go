// Package reed is a client for the Reed.co.uk jobseeker API.
package reed

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
	serviceName     = "reed"
	defaultBaseURL  = "https://www.reed.co.uk"
	defaultPageSize = 25
	maxPageSize     = 100
	dateLayout      = "02/01/2006"
)

// Config defines Reed client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
	Limiter    *rate.Limiter
	Logger     *logging.Logger
}

// Client queries the Reed search endpoint
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pageSize   int
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// SearchParams describe one results page
type SearchParams struct {
	Keywords string
	Location string
	Page     int
	PerPage  int
}

// Job is a decoded Reed result
type Job struct {
	ID           string
	EmployerName string
	Title        string
	Location     string
	MinSalary    *float64
	MaxSalary    *float64
	Currency     string
	Description  string
	URL          string
	PostedAt     *time.Time
}

type searchResponse struct {
	TotalResults int               `json:"totalResults"`
	Results      []json.RawMessage `json:"results"`
}

type jobResult struct {
	JobID          jsonx.String `json:"jobId"`
	EmployerName   string       `json:"employerName"`
	JobTitle       string       `json:"jobTitle"`
	LocationName   string       `json:"locationName"`
	MinimumSalary  jsonx.Float  `json:"minimumSalary"`
	MaximumSalary  jsonx.Float  `json:"maximumSalary"`
	Currency       string       `json:"currency"`
	Date           string       `json:"date"`
	JobDescription string       `json:"jobDescription"`
	JobURL         string       `json:"jobUrl"`
}

// NewClient builds a Reed client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("reed: api key is required")
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewClient(httpx.DefaultTimeout)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
		limiter:    cfg.Limiter,
		logger:     logger,
	}, nil
}

// Search fetches one page of results
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("reed: client is nil")
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = c.pageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}

	values := url.Values{}
	if kw := strings.TrimSpace(params.Keywords); kw != "" {
		values.Set("keywords", kw)
	}
	if params.Location != "" {
		values.Set("locationName", params.Location)
	}
	values.Set("resultsToTake", strconv.Itoa(perPage))
	values.Set("resultsToSkip", strconv.Itoa((page-1)*perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/1.0/search?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("reed: build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")

	var payload searchResponse
	if err := httpx.GetJSON(c.httpClient, c.limiter, req, serviceName, &payload); err != nil {
		return nil, err
	}

	results, skipped := httpx.DecodeItems[jobResult](payload.Results)
	if skipped > 0 {
		c.logger.Warn("skipped malformed results", "service", serviceName, "skipped", skipped, "decoded", len(results))
	}
	jobs := make([]Job, 0, len(results))
	for _, r := range results {
		jobs = append(jobs, mapResult(r))
	}
	return jobs, nil
}

func mapResult(r jobResult) Job {
	job := Job{
		ID:           string(r.JobID),
		EmployerName: strings.TrimSpace(r.EmployerName),
		Title:        strings.TrimSpace(r.JobTitle),
		Location:     strings.TrimSpace(r.LocationName),
		MinSalary:    r.MinimumSalary.Ptr(),
		MaxSalary:    r.MaximumSalary.Ptr(),
		Currency:     r.Currency,
		Description:  r.JobDescription,
		URL:          r.JobURL,
	}
	if r.Date != "" {
		if ts, err := time.Parse(dateLayout, r.Date); err == nil {
			job.PostedAt = &ts
		}
	}
	return job
}

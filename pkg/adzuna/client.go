package adzuna

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/job-aggregator/pkg/httpx"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

const (
	serviceName     = "adzuna"
	defaultBaseURL  = "https://api.adzuna.com"
	defaultPageSize = 20
	maxPageSize     = 50
)

// NewClient instantiates an Adzuna API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: app_id and app_key are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

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
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
		limiter:    cfg.Limiter,
		logger:     logger,
	}, nil
}

// SearchJobs fetches one results page for a country
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("adzuna: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna: build request: %w", err)
	}

	var payload jobSearchResponse
	if err := httpx.GetJSON(c.httpClient, c.limiter, req, serviceName, &payload); err != nil {
		return nil, err
	}

	postings, skipped := httpx.DecodeItems[jobPosting](payload.Results)
	if skipped > 0 {
		c.logger.Warn("skipped malformed results", "service", serviceName, "skipped", skipped, "decoded", len(postings))
	}
	jobs := make([]Job, 0, len(postings))
	for _, posting := range postings {
		jobs = append(jobs, mapPosting(posting))
	}
	return jobs, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	country := strings.ToLower(strings.TrimSpace(params.Country))
	if country == "" {
		return "", fmt.Errorf("adzuna: country is required")
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

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	u.Path = path.Join(u.Path, "v1", "api", "jobs", country, "search", strconv.Itoa(page))

	values := url.Values{}
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)
	values.Set("results_per_page", strconv.Itoa(perPage))
	values.Set("content-type", "application/json")
	if q := strings.TrimSpace(params.Query); q != "" {
		values.Set("what", q)
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}

func mapPosting(posting jobPosting) Job {
	job := Job{
		ID:           string(posting.ID),
		Title:        strings.TrimSpace(posting.Title),
		CompanyName:  strings.TrimSpace(posting.Company.DisplayName),
		Location:     strings.TrimSpace(posting.Location.DisplayName),
		Area:         posting.Location.Area,
		URL:          posting.RedirectURL,
		Description:  posting.Description,
		ContractTime: posting.Contract,
		ContractType: posting.ContractType,
		Category:     posting.Category.Label,
		SalaryMin:    posting.SalaryMin.Ptr(),
		SalaryMax:    posting.SalaryMax.Ptr(),
	}

	if posting.Created != "" {
		if ts, err := time.Parse(time.RFC3339, posting.Created); err == nil {
			ts = ts.UTC()
			job.PostedAt = &ts
		}
	}

	return job
}

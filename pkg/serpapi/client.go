// Package serpapi queries the Google Jobs engine of SerpApi.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/job-aggregator/pkg/httpx"
	"github.com/honeycarbs/job-aggregator/pkg/jsonx"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

const (
	serviceName    = "serpapi"
	defaultBaseURL = "https://serpapi.com"
	defaultQuery   = "jobs"
	resultsPerPage = 10
)

// Config defines SerpApi client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *logging.Logger
}

// Client queries SerpApi's google_jobs engine
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// SearchParams describe one results page
type SearchParams struct {
	Query    string
	Country  string // google "gl" code
	Location string
	Page     int
}

// ApplyOption is one place a listing can be applied to
type ApplyOption struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Job is a decoded Google Jobs result
type Job struct {
	ID             string
	Title          string
	CompanyName    string
	Location       string
	Via            string
	Description    string
	Thumbnail      string
	ShareLink      string
	ScheduleType   string
	WorkFromHome   *bool
	PostedAt       string // relative text such as "3 days ago"
	Salary         string
	ApplyOptions   []ApplyOption
	Qualifications []string
}

// ApplyLink returns the first apply option link, if any
func (j Job) ApplyLink() string {
	for _, o := range j.ApplyOptions {
		if o.Link != "" {
			return o.Link
		}
	}
	return ""
}

type searchResponse struct {
	Error       string            `json:"error"`
	JobsResults []json.RawMessage `json:"jobs_results"`
}

type jobResult struct {
	JobID              jsonx.String  `json:"job_id"`
	Title              string        `json:"title"`
	CompanyName        string        `json:"company_name"`
	Location           string        `json:"location"`
	Via                string        `json:"via"`
	Description        string        `json:"description"`
	Thumbnail          string        `json:"thumbnail"`
	ShareLink          string        `json:"share_link"`
	ApplyOptions       []ApplyOption `json:"apply_options"`
	DetectedExtensions struct {
		PostedAt     string     `json:"posted_at"`
		ScheduleType string     `json:"schedule_type"`
		WorkFromHome jsonx.Bool `json:"work_from_home"`
		Salary       string     `json:"salary"`
	} `json:"detected_extensions"`
	JobHighlights []struct {
		Title string   `json:"title"`
		Items []string `json:"items"`
	} `json:"job_highlights"`
}

// NewClient builds a SerpApi client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serpapi: api key is required")
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
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		logger:     logger,
	}, nil
}

// SearchJobs fetches one page of Google Jobs results
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("serpapi: client is nil")
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
	values.Set("engine", "google_jobs")
	values.Set("q", query)
	values.Set("hl", "en")
	values.Set("api_key", c.apiKey)
	if params.Country != "" {
		values.Set("gl", strings.ToLower(params.Country))
	}
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	if page > 1 {
		values.Set("start", strconv.Itoa((page-1)*resultsPerPage))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}

	var payload searchResponse
	if err := httpx.GetJSON(c.httpClient, c.limiter, req, serviceName, &payload); err != nil {
		return nil, err
	}
	// SerpApi reports an empty result set through the error field
	if payload.Error != "" && len(payload.JobsResults) == 0 {
		if strings.Contains(strings.ToLower(payload.Error), "hasn't returned any results") {
			return []Job{}, nil
		}
		return nil, fmt.Errorf("serpapi: %s", payload.Error)
	}

	results, skipped := httpx.DecodeItems[jobResult](payload.JobsResults)
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
		Title:        strings.TrimSpace(r.Title),
		CompanyName:  strings.TrimSpace(r.CompanyName),
		Location:     strings.TrimSpace(r.Location),
		Via:          strings.TrimPrefix(r.Via, "via "),
		Description:  r.Description,
		Thumbnail:    r.Thumbnail,
		ShareLink:    r.ShareLink,
		ScheduleType: r.DetectedExtensions.ScheduleType,
		WorkFromHome: r.DetectedExtensions.WorkFromHome.Ptr(),
		PostedAt:     r.DetectedExtensions.PostedAt,
		Salary:       r.DetectedExtensions.Salary,
		ApplyOptions: r.ApplyOptions,
	}
	for _, h := range r.JobHighlights {
		if strings.EqualFold(h.Title, "Qualifications") {
			job.Qualifications = append(job.Qualifications, h.Items...)
		}
	}
	return job
}

package adzuna

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/job-aggregator/pkg/jsonx"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
	Limiter    *rate.Limiter
	Logger     *logging.Logger
}

// Client queries Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
	pageSize   int
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// SearchParams describe a job search request
type SearchParams struct {
	Country string // adzuna country path segment, e.g. "gb"
	Query   string
	Page    int
	PerPage int
}

type jobSearchResponse struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

type jobPosting struct {
	ID           jsonx.String    `json:"id"`
	Title        string          `json:"title"`
	Company      companySummary  `json:"company"`
	Location     locationSummary `json:"location"`
	Description  string          `json:"description"`
	Created      string          `json:"created"`
	RedirectURL  string          `json:"redirect_url"`
	Contract     string          `json:"contract_time"`
	ContractType string          `json:"contract_type"`
	Category     struct {
		Label string `json:"label"`
	} `json:"category"`
	SalaryMin jsonx.Float `json:"salary_min"`
	SalaryMax jsonx.Float `json:"salary_max"`
}

type companySummary struct {
	DisplayName string `json:"display_name"`
}

type locationSummary struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

// Job represents a decoded Adzuna job posting
type Job struct {
	ID           string
	Title        string
	CompanyName  string
	Location     string
	Area         []string
	URL          string
	Description  string
	ContractTime string
	ContractType string
	Category     string
	SalaryMin    *float64
	SalaryMax    *float64
	PostedAt     *time.Time
}

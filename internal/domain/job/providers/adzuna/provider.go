package adzuna

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
	jobdomain "github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers"
	"github.com/honeycarbs/job-aggregator/pkg/adzuna"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, params adzuna.SearchParams) ([]adzuna.Job, error)
}

// categorySectors maps Adzuna category labels onto sector ids
var categorySectors = map[string]domain.SectorID{
	"it jobs":                          "technology",
	"healthcare & nursing jobs":        "healthcare",
	"accounting & finance jobs":        "finance",
	"teaching jobs":                    "education",
	"engineering jobs":                 "engineering",
	"pr, advertising & marketing jobs": "marketing",
	"sales jobs":                       "sales",
	"creative & design jobs":           "design",
	"hr & recruitment jobs":            "hr",
	"legal jobs":                       "legal",
	"hospitality & catering jobs":      "hospitality",
	"retail jobs":                      "retail",
	"logistics & warehouse jobs":       "logistics",
	"trade & construction jobs":        "construction",
	"manufacturing jobs":               "manufacturing",
	"customer services jobs":           "customer_service",
	"admin jobs":                       "admin",
	"consultancy jobs":                 "consulting",
	"scientific & qa jobs":             "science",
	"energy, oil & gas jobs":           "energy",
	"property jobs":                    "real_estate",
	"charity & voluntary jobs":         "nonprofit",
}

// Provider implements job.Provider using Adzuna API
type Provider struct {
	client searchClient
}

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() domain.Source {
	return domain.SourceAdzuna
}

// Fetch queries one Adzuna results page and maps it to raw jobs
func (p *Provider) Fetch(ctx context.Context, params jobdomain.FetchParams) ([]domain.RawJob, error) {
	respJobs, err := p.client.SearchJobs(ctx, adzuna.SearchParams{
		Country: params.Locale,
		Query:   params.Query,
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		return nil, providers.Classify(domain.SourceAdzuna, err)
	}

	out := make([]domain.RawJob, 0, len(respJobs))
	for _, j := range respJobs {
		out = append(out, domain.RawJob{
			Source:         domain.SourceAdzuna,
			SourceID:       j.ID,
			Title:          j.Title,
			Company:        j.CompanyName,
			Location:       j.Location,
			Country:        areaCountry(j.Area),
			Description:    j.Description,
			EmploymentType: employmentType(j.ContractTime, j.ContractType),
			SalaryMin:      providers.OptionalFloat(j.SalaryMin),
			SalaryMax:      providers.OptionalFloat(j.SalaryMax),
			Sector:         string(categorySectors[strings.ToLower(strings.TrimSpace(j.Category))]),
			SourceURL:      j.URL,
			ApplyURL:       j.URL,
			PostedAt:       j.PostedAt,
		})
	}
	return out, nil
}

// areaCountry resolves the first element of an Adzuna area path, which
// names the country ("UK", "India", ...)
func areaCountry(area []string) string {
	if len(area) == 0 {
		return ""
	}
	if strings.EqualFold(area[0], "uk") {
		return "GB"
	}
	if code := classify.NormalizeCountry(area[0]); code != "" {
		return code
	}
	code, _ := classify.DetectCountry(area[0])
	return code
}

func employmentType(contractTime, contractType string) string {
	if contractType == "contract" || contractType == "temporary" {
		return contractType
	}
	return contractTime
}

var _ jobdomain.Provider = (*Provider)(nil)

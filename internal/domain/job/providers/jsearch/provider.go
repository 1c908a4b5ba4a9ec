// Package jsearch adapts the JSearch (RapidAPI) client to job.Provider.
package jsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	jobdomain "github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers"
	"github.com/honeycarbs/job-aggregator/pkg/jsearch"
)

type searchClient interface {
	Search(ctx context.Context, params jsearch.SearchParams) ([]jsearch.Job, error)
}

// Provider implements job.Provider on top of JSearch
type Provider struct {
	client searchClient
}

// NewProvider builds a JSearch provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("jsearch provider: client is required")
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Name() domain.Source {
	return domain.SourceJSearch
}

// Fetch queries one JSearch page for the locale's country
func (p *Provider) Fetch(ctx context.Context, params jobdomain.FetchParams) ([]domain.RawJob, error) {
	results, err := p.client.Search(ctx, jsearch.SearchParams{
		Query:   params.Query,
		Country: params.Locale,
		Page:    params.Page,
	})
	if err != nil {
		return nil, providers.Classify(domain.SourceJSearch, err)
	}

	out := make([]domain.RawJob, 0, len(results))
	for _, j := range results {
		var remote *bool
		if j.IsRemote != nil {
			v := *j.IsRemote
			remote = &v
		}
		out = append(out, domain.RawJob{
			Source:         domain.SourceJSearch,
			SourceID:       j.ID,
			Title:          j.Title,
			Company:        j.EmployerName,
			CompanyLogo:    j.EmployerLogo,
			Location:       j.Location(),
			Country:        strings.ToUpper(strings.TrimSpace(j.Country)),
			Description:    j.Description,
			Requirements:   strings.Join(j.Qualifications, "\n"),
			Skills:         append([]string(nil), j.Skills...),
			EmploymentType: j.EmploymentType,
			SalaryMin:      providers.OptionalFloat(j.MinSalary),
			SalaryMax:      providers.OptionalFloat(j.MaxSalary),
			SalaryCurrency: j.SalaryCurrency,
			Salary:         salaryPeriod(j),
			Remote:         remote,
			ApplyURL:       j.ApplyLink,
			SourceURL:      j.GoogleLink,
			PostedAt:       j.PostedAt,
		})
	}
	return out, nil
}

// salaryPeriod leaves the display text empty unless the range is quoted per
// hour, month or week, where the yearly formatting would mislead
func salaryPeriod(j jsearch.Job) string {
	period := strings.ToLower(strings.TrimSpace(j.SalaryPeriod))
	if period == "" || period == "year" || j.MinSalary == nil {
		return ""
	}
	cur := strings.ToUpper(j.SalaryCurrency)
	if j.MaxSalary != nil && *j.MaxSalary != *j.MinSalary {
		return fmt.Sprintf("%s %.0f - %.0f per %s", cur, *j.MinSalary, *j.MaxSalary, period)
	}
	return fmt.Sprintf("%s %.0f per %s", cur, *j.MinSalary, period)
}

var _ jobdomain.Provider = (*Provider)(nil)

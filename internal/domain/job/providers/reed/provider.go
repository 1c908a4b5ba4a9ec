// Package reed adapts the Reed.co.uk client to job.Provider.
package reed

import (
	"context"
	"fmt"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	jobdomain "github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers"
	"github.com/honeycarbs/job-aggregator/pkg/reed"
)

type searchClient interface {
	Search(ctx context.Context, params reed.SearchParams) ([]reed.Job, error)
}

// Provider implements job.Provider on top of Reed. Reed only lists UK jobs,
// so every result is tagged GB.
type Provider struct {
	client searchClient
}

// NewProvider builds a Reed provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("reed provider: client is required")
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Name() domain.Source {
	return domain.SourceReed
}

// Fetch queries one Reed results page
func (p *Provider) Fetch(ctx context.Context, params jobdomain.FetchParams) ([]domain.RawJob, error) {
	results, err := p.client.Search(ctx, reed.SearchParams{
		Keywords: params.Query,
		Page:     params.Page,
		PerPage:  params.PerPage,
	})
	if err != nil {
		return nil, providers.Classify(domain.SourceReed, err)
	}

	out := make([]domain.RawJob, 0, len(results))
	for _, j := range results {
		out = append(out, domain.RawJob{
			Source:         domain.SourceReed,
			SourceID:       j.ID,
			Title:          j.Title,
			Company:        j.EmployerName,
			Location:       j.Location,
			Country:        "GB",
			Description:    j.Description,
			SalaryMin:      providers.OptionalFloat(j.MinSalary),
			SalaryMax:      providers.OptionalFloat(j.MaxSalary),
			SalaryCurrency: j.Currency,
			ApplyURL:       j.URL,
			SourceURL:      j.URL,
			PostedAt:       j.PostedAt,
		})
	}
	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

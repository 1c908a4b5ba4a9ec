// Package google adapts SerpApi's Google Jobs engine to job.Provider.
package google

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	jobdomain "github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers"
	"github.com/honeycarbs/job-aggregator/pkg/serpapi"
)

type searchClient interface {
	SearchJobs(ctx context.Context, params serpapi.SearchParams) ([]serpapi.Job, error)
}

var relativeAge = regexp.MustCompile(`(\d+)\+?\s*(minute|hour|day|week|month)s?\s+ago`)

// Provider implements job.Provider on top of Google Jobs results
type Provider struct {
	client searchClient
	now    func() time.Time
}

// NewProvider builds a Google Jobs provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("google provider: client is required")
	}
	return &Provider{client: client, now: time.Now}, nil
}

func (p *Provider) Name() domain.Source {
	return domain.SourceGoogle
}

// Fetch queries one Google Jobs page for the locale
func (p *Provider) Fetch(ctx context.Context, params jobdomain.FetchParams) ([]domain.RawJob, error) {
	results, err := p.client.SearchJobs(ctx, serpapi.SearchParams{
		Query:   params.Query,
		Country: params.Locale,
		Page:    params.Page,
	})
	if err != nil {
		return nil, providers.Classify(domain.SourceGoogle, err)
	}

	now := p.now().UTC()
	out := make([]domain.RawJob, 0, len(results))
	for _, j := range results {
		var remote *bool
		if j.WorkFromHome != nil && *j.WorkFromHome {
			v := true
			remote = &v
		}
		out = append(out, domain.RawJob{
			Source:         domain.SourceGoogle,
			SourceID:       j.ID,
			Title:          j.Title,
			Company:        j.CompanyName,
			CompanyLogo:    j.Thumbnail,
			Location:       j.Location,
			Description:    j.Description,
			Requirements:   strings.Join(j.Qualifications, "\n"),
			EmploymentType: j.ScheduleType,
			Salary:         j.Salary,
			Remote:         remote,
			ApplyURL:       j.ApplyLink(),
			SourceURL:      j.ShareLink,
			PostedAt:       postedAt(j.PostedAt, now),
		})
	}
	return out, nil
}

// postedAt turns "3 days ago" style text into an absolute time
func postedAt(text string, now time.Time) *time.Time {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	if text == "today" || text == "just posted" {
		return &now
	}

	m := relativeAge.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	var ts time.Time
	switch m[2] {
	case "minute":
		ts = now.Add(-time.Duration(n) * time.Minute)
	case "hour":
		ts = now.Add(-time.Duration(n) * time.Hour)
	case "day":
		ts = now.AddDate(0, 0, -n)
	case "week":
		ts = now.AddDate(0, 0, -7*n)
	case "month":
		ts = now.AddDate(0, -n, 0)
	}
	return &ts
}

var _ jobdomain.Provider = (*Provider)(nil)

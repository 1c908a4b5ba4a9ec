package reed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	jobdomain "github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/httpx"
	"github.com/honeycarbs/job-aggregator/pkg/reed"
)

type fakeClient struct {
	got  reed.SearchParams
	jobs []reed.Job
	err  error
}

func (f *fakeClient) Search(_ context.Context, params reed.SearchParams) ([]reed.Job, error) {
	f.got = params
	return f.jobs, f.err
}

func TestProviderFetch(t *testing.T) {
	posted := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	minSalary, maxSalary := 28000.0, 32000.0
	client := &fakeClient{jobs: []reed.Job{{
		ID:           "5521",
		EmployerName: "NHS Trust",
		Title:        "Staff Nurse",
		Location:     "Leeds",
		MinSalary:    &minSalary,
		MaxSalary:    &maxSalary,
		Currency:     "GBP",
		Description:  "Ward duties",
		URL:          "https://reed.example/jobs/5521",
		PostedAt:     &posted,
	}}}
	p, err := NewProvider(client)
	require.NoError(t, err)

	jobs, err := p.Fetch(context.Background(), jobdomain.FetchParams{Query: "nurse", Locale: "gb", Page: 2, PerPage: 50})
	require.NoError(t, err)
	assert.Equal(t, reed.SearchParams{Keywords: "nurse", Page: 2, PerPage: 50}, client.got)

	require.Len(t, jobs, 1)
	j := jobs[0]
	assert.Equal(t, domain.SourceReed, j.Source)
	assert.Equal(t, "5521", j.SourceID)
	assert.Equal(t, "GB", j.Country)
	assert.Equal(t, "GBP", j.SalaryCurrency)
	assert.Equal(t, 28000.0, *j.SalaryMin)
	assert.Equal(t, 32000.0, *j.SalaryMax)
	assert.Equal(t, "https://reed.example/jobs/5521", j.ApplyURL)
}

func TestProviderFetchUnauthorized(t *testing.T) {
	p, err := NewProvider(&fakeClient{err: &httpx.StatusError{Service: "reed", StatusCode: 401}})
	require.NoError(t, err)

	_, err = p.Fetch(context.Background(), jobdomain.FetchParams{Locale: "gb"})
	var pe *jobdomain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.False(t, pe.Retryable)
}

package adzuna

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/pkg/httpx"
)

const searchFixture = `{
  "count": 3,
  "results": [
    {
      "id": "4101",
      "title": "Backend Developer",
      "company": {"display_name": "Acme Ltd"},
      "location": {"display_name": "Bengaluru, Karnataka", "area": ["India", "Karnataka", "Bengaluru"]},
      "description": "Build <b>Go</b> services",
      "created": "2025-03-01T10:00:00Z",
      "redirect_url": "https://adzuna.example/redirect/4101",
      "contract_time": "full_time",
      "category": {"label": "IT Jobs"},
      "salary_min": 1200000,
      "salary_max": "1800000"
    },
    {"id": 4102, "title": 99},
    {
      "id": 4103,
      "title": "QA Engineer",
      "company": {"display_name": "Beta"},
      "location": {"display_name": "Pune"},
      "redirect_url": "https://adzuna.example/redirect/4103",
      "created": "yesterday",
      "salary_min": null
    }
  ]
}`

func TestSearchJobs(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer srv.Close()

	client, err := NewClient(Config{AppID: "id", AppKey: "key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	jobs, err := client.SearchJobs(context.Background(), SearchParams{Country: "IN", Query: "developer", Page: 2, PerPage: 100})
	require.NoError(t, err)

	assert.Equal(t, "/v1/api/jobs/in/search/2", gotPath)
	assert.Equal(t, "id", gotQuery["app_id"][0])
	assert.Equal(t, "key", gotQuery["app_key"][0])
	assert.Equal(t, "developer", gotQuery["what"][0])
	assert.Equal(t, "50", gotQuery["results_per_page"][0])

	require.Len(t, jobs, 2, "malformed item is skipped")

	first := jobs[0]
	assert.Equal(t, "4101", first.ID)
	assert.Equal(t, "Acme Ltd", first.CompanyName)
	assert.Equal(t, []string{"India", "Karnataka", "Bengaluru"}, first.Area)
	assert.Equal(t, "full_time", first.ContractTime)
	assert.Equal(t, "IT Jobs", first.Category)
	require.NotNil(t, first.SalaryMin)
	require.NotNil(t, first.SalaryMax)
	assert.InDelta(t, 1200000, *first.SalaryMin, 0.1)
	assert.InDelta(t, 1800000, *first.SalaryMax, 0.1)
	require.NotNil(t, first.PostedAt)
	assert.Equal(t, 2025, first.PostedAt.Year())

	second := jobs[1]
	assert.Equal(t, "4103", second.ID)
	assert.Nil(t, second.SalaryMin)
	assert.Nil(t, second.PostedAt)
}

func TestSearchJobsOmitsEmptyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["what"]
		assert.False(t, ok)
		assert.Equal(t, "20", r.URL.Query().Get("results_per_page"))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{AppID: "id", AppKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	jobs, err := client.SearchJobs(context.Background(), SearchParams{Country: "gb"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSearchJobsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"exception":"AUTH_FAIL"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{AppID: "id", AppKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.SearchJobs(context.Background(), SearchParams{Country: "us", Query: "x"})
	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)

	_, err = client.SearchJobs(context.Background(), SearchParams{Query: "x"})
	assert.ErrorContains(t, err, "country is required")
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{AppID: "id"})
	assert.Error(t, err)
}

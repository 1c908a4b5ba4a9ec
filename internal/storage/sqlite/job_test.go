package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

func openTemp(t *testing.T) *JobRepository {
	t.Helper()
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleJob(source domain.Source, id string, imported time.Time) domain.Job {
	return domain.Job{
		ID:              uuid.New(),
		Source:          source,
		SourceID:        id,
		Title:           "Backend Developer " + id,
		Company:         "Acme",
		Country:         "IN",
		Description:     "Python services",
		Skills:          []string{"Python"},
		Sector:          "technology",
		ApplyURL:        "https://acme.example/" + id,
		ImportedAt:      imported,
		FirstImportedAt: imported,
	}
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	repo := openTemp(t)
	ctx := context.Background()
	t1 := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)
	minSalary := 1200000.0
	posted := t1.Add(-48 * time.Hour)

	j := sampleJob(domain.SourceAdzuna, "1", t1)
	j.SalaryMin = &minSalary
	j.PostedAt = &posted
	outcome, err := repo.UpsertJob(ctx, j)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	again := j
	again.ID = uuid.New()
	again.Title = "Lead Backend Developer"
	again.ImportedAt = t1.Add(time.Hour)
	again.FirstImportedAt = again.ImportedAt
	outcome, err = repo.UpsertJob(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)

	jobs, err := repo.FindJobs(ctx, domain.JobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	got := jobs[0]
	assert.Equal(t, j.ID, got.ID)
	assert.Equal(t, "Lead Backend Developer", got.Title)
	assert.Equal(t, t1, got.FirstImportedAt)
	assert.Equal(t, t1.Add(time.Hour), got.ImportedAt)
	assert.Equal(t, []string{"Python"}, got.Skills)
	require.NotNil(t, got.SalaryMin)
	assert.Equal(t, minSalary, *got.SalaryMin)
	assert.Nil(t, got.SalaryMax)
	require.NotNil(t, got.PostedAt)
	assert.Equal(t, posted, *got.PostedAt)
}

func TestFindJobsFiltersAndOrders(t *testing.T) {
	repo := openTemp(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		j := sampleJob(domain.SourceAdzuna, id, base.Add(time.Duration(i)*time.Minute))
		if id == "b" {
			j.Country = "GB"
			j.IsRemote = true
		}
		_, err := repo.UpsertJob(ctx, j)
		require.NoError(t, err)
	}

	jobs, err := repo.FindJobs(ctx, domain.JobFilter{Country: "IN"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "c", jobs[0].SourceID, "newest first")
	assert.Equal(t, "a", jobs[1].SourceID)

	remote := true
	jobs, err = repo.FindJobs(ctx, domain.JobFilter{Remote: &remote})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "b", jobs[0].SourceID)

	jobs, err = repo.FindJobs(ctx, domain.JobFilter{Query: "DEVELOPER A"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = repo.FindJobs(ctx, domain.JobFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "b", jobs[0].SourceID)
}

func TestJobStats(t *testing.T) {
	repo := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.UpsertJob(ctx, sampleJob(domain.SourceAdzuna, "1", now))
	require.NoError(t, err)
	j := sampleJob(domain.SourceReed, "2", now)
	j.Country = "GB"
	j.Sector = "healthcare"
	_, err = repo.UpsertJob(ctx, j)
	require.NoError(t, err)

	stats, err := repo.JobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.BySource["reed"])
	assert.Equal(t, 1, stats.ByCountry["IN"])
	assert.Equal(t, 1, stats.BySector["healthcare"])
	assert.NoError(t, repo.Ping(ctx))
}

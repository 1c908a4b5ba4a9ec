package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	pkgpostgres "github.com/honeycarbs/job-aggregator/pkg/postgres"
)

func TestJobArgsMatchColumns(t *testing.T) {
	cols := strings.Split(jobColumns, ",")
	args := jobArgs(domain.Job{})
	assert.Len(t, args, len(cols))
	assert.Equal(t, []string{}, args[10], "nil skills are stored as an empty array")
	assert.Contains(t, upsertQuery, "$27)")
}

// TestJobRepositoryIntegration runs against a live database when
// TEST_DATABASE_URL is set.
func TestJobRepositoryIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pkgpostgres.Connect(ctx, pkgpostgres.Config{URL: url})
	require.NoError(t, err)
	defer pool.Close()

	repo := NewJobRepository(pool)
	require.NoError(t, repo.Migrate(ctx))

	sourceID := "it-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM jobs WHERE source_id = $1`, sourceID)
	})

	first := time.Now().UTC().Truncate(time.Millisecond)
	j := domain.Job{
		ID: uuid.New(), Source: domain.SourceReed, SourceID: sourceID,
		Title: "Integration Nurse", Company: "NHS", Country: "GB",
		Sector: "healthcare", Skills: []string{"Triage"},
		ApplyURL: "https://reed.example", ImportedAt: first, FirstImportedAt: first,
	}
	outcome, err := repo.UpsertJob(ctx, j)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	second := j
	second.ID = uuid.New()
	second.Title = "Senior Integration Nurse"
	second.ImportedAt = first.Add(time.Hour)
	second.FirstImportedAt = second.ImportedAt
	outcome, err = repo.UpsertJob(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)

	jobs, err := repo.FindJobs(ctx, domain.JobFilter{Query: "senior integration nurse", Source: domain.SourceReed})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, j.ID, jobs[0].ID)
	assert.True(t, first.Equal(jobs[0].FirstImportedAt))
	assert.Equal(t, "Senior Integration Nurse", jobs[0].Title)
}

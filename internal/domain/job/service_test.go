package job_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/storage/memory"
)

type stubProvider struct {
	name  domain.Source
	calls atomic.Int32
	fetch func(ctx context.Context, p job.FetchParams) ([]domain.RawJob, error)
}

func (s *stubProvider) Name() domain.Source { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, p job.FetchParams) ([]domain.RawJob, error) {
	s.calls.Add(1)
	return s.fetch(ctx, p)
}

func listings(source domain.Source, n int, title string) *stubProvider {
	return &stubProvider{name: source, fetch: func(_ context.Context, p job.FetchParams) ([]domain.RawJob, error) {
		out := make([]domain.RawJob, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, domain.RawJob{
				SourceID:    fmt.Sprintf("%s-%d", p.Locale, i),
				Title:       fmt.Sprintf("%s %d", title, i),
				Company:     "Infosys " + p.Locale,
				Location:    "Bengaluru, Karnataka",
				Description: "Build backend services with Python and Docker.",
				ApplyURL:    fmt.Sprintf("https://jobs.example/%s/%d", source, i),
			})
		}
		return out, nil
	}}
}

func blocking(source domain.Source) *stubProvider {
	return &stubProvider{name: source, fetch: func(ctx context.Context, _ job.FetchParams) ([]domain.RawJob, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func newService(t *testing.T, repo job.Repository, clock func() time.Time, providers ...job.Provider) job.Service {
	t.Helper()
	svc, err := job.NewService(
		job.WithProviders(providers...),
		job.WithRepository(repo),
		job.WithClock(clock),
		job.WithOrchestrator(job.WithCallTimeout(50*time.Millisecond)),
	)
	require.NoError(t, err)
	return svc
}

func TestImportEndToEnd(t *testing.T) {
	repo := memory.NewJobRepository()
	clock := &stepClock{now: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)}
	svc := newService(t, repo, clock.Now,
		listings(domain.SourceAdzuna, 30, "Software Developer"),
		blocking(domain.SourceJSearch),
	)

	summary, err := svc.Import(context.Background(), domain.ImportRequest{
		Countries:         []string{"IN"},
		Queries:           []string{"software developer"},
		Page:              1,
		MaxJobsPerCountry: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, summary.TotalJobs)
	assert.Equal(t, 1, summary.CountriesProcessed)
	in := summary.Countries["IN"]
	assert.Equal(t, 30, in.Providers["adzuna"])
	assert.Equal(t, 0, in.Providers["jsearch"])
	assert.Contains(t, in.Errors, "jsearch")
	assert.LessOrEqual(t, summary.TotalPersisted, 30)
	assert.Equal(t, 30, summary.TotalPersisted)
	assert.Equal(t, 30, summary.Created)
	assert.Empty(t, summary.Failures)
	assert.Equal(t, 30, repo.Len())

	stored, ok := repo.Get(domain.NaturalKey{Source: domain.SourceAdzuna, SourceID: "in-0"})
	require.True(t, ok)
	assert.Equal(t, "IN", stored.Country)
	assert.Equal(t, domain.SectorID("technology"), stored.Sector)
	assert.Contains(t, stored.Skills, "Python")
}

func TestImportIsIdempotent(t *testing.T) {
	repo := memory.NewJobRepository()
	clock := &stepClock{now: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)}
	svc := newService(t, repo, clock.Now, listings(domain.SourceAdzuna, 5, "Data Analyst"))
	req := domain.ImportRequest{Countries: []string{"GB"}, Queries: []string{"analyst"}}

	first, err := svc.Import(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Created)

	key := domain.NaturalKey{Source: domain.SourceAdzuna, SourceID: "gb-0"}
	before, ok := repo.Get(key)
	require.True(t, ok)

	clock.now = clock.now.Add(24 * time.Hour)
	second, err := svc.Import(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 5, second.Updated)
	assert.Equal(t, 5, repo.Len())

	after, _ := repo.Get(key)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.FirstImportedAt, after.FirstImportedAt)
	assert.True(t, after.ImportedAt.After(before.ImportedAt))
}

func TestImportCancelledPersistsNothing(t *testing.T) {
	repo := memory.NewJobRepository()
	fast := listings(domain.SourceAdzuna, 3, "Nurse")
	slow := blocking(domain.SourceReed)
	svc, err := job.NewService(
		job.WithProviders(fast, slow),
		job.WithRepository(repo),
		job.WithOrchestrator(job.WithCallTimeout(time.Minute)),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	summary, err := svc.Import(ctx, domain.ImportRequest{Countries: []string{"GB"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, summary.Cancelled)
	assert.Zero(t, summary.TotalPersisted)
	assert.Zero(t, repo.Len())
}

// cancellingRepo cancels the import after its first committed write
type cancellingRepo struct {
	*memory.JobRepository
	cancel context.CancelFunc
	writes atomic.Int32
}

func (r *cancellingRepo) UpsertJob(ctx context.Context, j domain.Job) (domain.UpsertOutcome, error) {
	outcome, err := r.JobRepository.UpsertJob(ctx, j)
	if err == nil && r.writes.Add(1) == 1 {
		r.cancel()
	}
	return outcome, err
}

func TestImportCancelledDuringPersistence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := &cancellingRepo{JobRepository: memory.NewJobRepository(), cancel: cancel}

	svc, err := job.NewService(
		job.WithProviders(listings(domain.SourceAdzuna, 5, "Electrician")),
		job.WithRepository(repo),
		job.WithWriteConcurrency(1),
		job.WithOrchestrator(job.WithCallTimeout(time.Second)),
	)
	require.NoError(t, err)

	summary, err := svc.Import(ctx, domain.ImportRequest{Countries: []string{"GB"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, job.ErrStoreUnreachable)
	assert.True(t, summary.Cancelled)
	assert.Equal(t, 5, summary.TotalJobs)
	assert.Equal(t, 1, summary.TotalPersisted)
	assert.Equal(t, repo.Len(), summary.TotalPersisted, "committed rows are kept and reported")
	assert.Len(t, summary.Failures, 4)
}

func TestImportReportsUnknownCountries(t *testing.T) {
	repo := memory.NewJobRepository()
	svc := newService(t, repo, time.Now, listings(domain.SourceAdzuna, 2, "Pharmacist"))

	summary, err := svc.Import(context.Background(), domain.ImportRequest{Countries: []string{"XX", "us"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"XX"}, summary.UnknownCountries)
	assert.Equal(t, 1, summary.CountriesProcessed)
	assert.Contains(t, summary.Countries, "US")
}

func TestSearchAndStats(t *testing.T) {
	repo := memory.NewJobRepository()
	svc := newService(t, repo, time.Now, listings(domain.SourceAdzuna, 4, "Software Developer"))

	_, err := svc.Import(context.Background(), domain.ImportRequest{Countries: []string{"IN", "GB"}})
	require.NoError(t, err)

	jobs, err := svc.Search(context.Background(), domain.JobFilter{Country: "in", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, jobs, 4)
	for _, j := range jobs {
		assert.Equal(t, "IN", j.Country)
	}

	jobs, err = svc.Search(context.Background(), domain.JobFilter{Country: "Atlantis"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	jobs, err = svc.Search(context.Background(), domain.JobFilter{Sector: "underwater basket weaving"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = svc.Search(context.Background(), domain.JobFilter{Source: "monster"})
	assert.Error(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 8, stats.BySource["adzuna"])
	assert.Equal(t, 4, stats.ByCountry["GB"])
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := job.NewService(job.WithRepository(memory.NewJobRepository()))
	assert.Error(t, err)

	_, err = job.NewService(job.WithProviders(listings(domain.SourceAdzuna, 1, "x")))
	assert.Error(t, err)
}

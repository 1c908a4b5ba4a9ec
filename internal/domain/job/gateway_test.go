package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

type fakeRepo struct {
	mu       sync.Mutex
	jobs     map[domain.NaturalKey]domain.Job
	writes   []domain.Job
	failOn   map[string]error // keyed by SourceID
	pingErr  error
	inFlight map[domain.NaturalKey]int
	overlap  bool
	delay    time.Duration
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:     make(map[domain.NaturalKey]domain.Job),
		failOn:   make(map[string]error),
		inFlight: make(map[domain.NaturalKey]int),
	}
}

func (r *fakeRepo) UpsertJob(_ context.Context, j domain.Job) (domain.UpsertOutcome, error) {
	k := j.Key()
	r.mu.Lock()
	r.inFlight[k]++
	if r.inFlight[k] > 1 {
		r.overlap = true
	}
	r.mu.Unlock()

	time.Sleep(r.delay)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight[k]--

	if err := r.failOn[j.SourceID]; err != nil {
		return 0, err
	}
	r.writes = append(r.writes, j)
	if existing, ok := r.jobs[k]; ok {
		j.ID = existing.ID
		j.FirstImportedAt = existing.FirstImportedAt
		r.jobs[k] = j
		return domain.OutcomeUpdated, nil
	}
	r.jobs[k] = j
	return domain.OutcomeCreated, nil
}

func (r *fakeRepo) FindJobs(context.Context, domain.JobFilter) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeRepo) Ping(context.Context) error { return r.pingErr }

func validJob(source domain.Source, id, title string) domain.Job {
	return domain.Job{
		Source:   source,
		SourceID: id,
		Title:    title,
		Company:  "Acme",
		ApplyURL: "https://acme.example/" + id,
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestUpsertIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	gw, err := NewGateway(repo, nil, fixedClock(t1), 2)
	require.NoError(t, err)

	j := validJob(domain.SourceAdzuna, "1", "Engineer")
	outcome, err := gw.Upsert(context.Background(), j)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)
	first := repo.jobs[j.Key()]

	t2 := t1.Add(time.Hour)
	gw.clock = fixedClock(t2)
	j.Title = "Senior Engineer"
	outcome, err = gw.Upsert(context.Background(), j)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)

	second := repo.jobs[j.Key()]
	require.Len(t, repo.jobs, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, uuid.Nil, second.ID)
	assert.Equal(t, t1, second.FirstImportedAt)
	assert.Equal(t, t2, second.ImportedAt)
	assert.Equal(t, "Senior Engineer", second.Title)
	assert.Equal(t, domain.SectorGeneral, second.Sector)
	assert.NotNil(t, second.Skills)
}

func TestUpsertAllCollectsFailures(t *testing.T) {
	repo := newFakeRepo()
	repo.failOn["bad"] = errors.New("constraint violation")
	gw, err := NewGateway(repo, nil, nil, 3)
	require.NoError(t, err)

	res, err := gw.UpsertAll(context.Background(), []domain.Job{
		validJob(domain.SourceAdzuna, "1", "A"),
		validJob(domain.SourceAdzuna, "bad", "B"),
		validJob(domain.SourceReed, "2", "C"),
		validJob(domain.SourceJSearch, "3", "D"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Succeeded)
	assert.Equal(t, 3, res.Created)
	assert.Zero(t, res.Updated)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "bad", res.Failed[0].Job.SourceID)
	assert.EqualError(t, res.Failed[0].Err, "constraint violation")
	assert.Len(t, repo.jobs, 3)
}

func TestUpsertAllStoreUnreachable(t *testing.T) {
	repo := newFakeRepo()
	repo.pingErr = errors.New("dial tcp: connection refused")
	gw, err := NewGateway(repo, nil, nil, 0)
	require.NoError(t, err)

	_, err = gw.UpsertAll(context.Background(), []domain.Job{validJob(domain.SourceAdzuna, "1", "A")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnreachable)
	assert.Empty(t, repo.writes)
}

func TestUpsertAllCancelledIsNotStoreUnreachable(t *testing.T) {
	repo := newFakeRepo()
	repo.pingErr = errors.New("context canceled")
	gw, err := NewGateway(repo, nil, nil, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gw.UpsertAll(ctx, []domain.Job{validJob(domain.SourceAdzuna, "1", "A")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrStoreUnreachable)
	assert.Empty(t, repo.writes)
}

func TestUpsertAllEmptyBatchSkipsPing(t *testing.T) {
	repo := newFakeRepo()
	repo.pingErr = errors.New("down")
	gw, err := NewGateway(repo, nil, nil, 0)
	require.NoError(t, err)

	res, err := gw.UpsertAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Succeeded)
}

func TestUpsertAllSerializesSameKey(t *testing.T) {
	repo := newFakeRepo()
	repo.delay = 5 * time.Millisecond
	gw, err := NewGateway(repo, nil, nil, 8)
	require.NoError(t, err)

	jobs := []domain.Job{
		validJob(domain.SourceAdzuna, "same", "v1"),
		validJob(domain.SourceAdzuna, "other", "x"),
		validJob(domain.SourceAdzuna, "same", "v2"),
		validJob(domain.SourceAdzuna, "same", "v3"),
	}
	res, err := gw.UpsertAll(context.Background(), jobs)
	require.NoError(t, err)

	assert.False(t, repo.overlap, "writes to one key never overlap")
	assert.Equal(t, 4, res.Succeeded)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Updated)

	stored := repo.jobs[domain.NaturalKey{Source: domain.SourceAdzuna, SourceID: "same"}]
	assert.Equal(t, "v3", stored.Title, "same-key writes apply in batch order")
}

func TestNewGatewayRequiresRepository(t *testing.T) {
	_, err := NewGateway(nil, nil, nil, 1)
	assert.Error(t, err)
}

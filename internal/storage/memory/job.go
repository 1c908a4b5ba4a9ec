// Package memory is an in-process job store used for dry runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/repository"
)

var (
	_ job.Repository             = (*JobRepository)(nil)
	_ repository.StatsRepository = (*JobRepository)(nil)
)

// JobRepository keeps jobs in a map keyed by natural key
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[domain.NaturalKey]domain.Job
}

// NewJobRepository creates an empty store
func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[domain.NaturalKey]domain.Job)}
}

// UpsertJob inserts or overwrites mutable fields of a job
func (r *JobRepository) UpsertJob(ctx context.Context, j domain.Job) (domain.UpsertOutcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := j.Key()
	existing, ok := r.jobs[k]
	if ok {
		j.ID = existing.ID
		j.FirstImportedAt = existing.FirstImportedAt
		r.jobs[k] = cloneJob(j)
		return domain.OutcomeUpdated, nil
	}
	r.jobs[k] = cloneJob(j)
	return domain.OutcomeCreated, nil
}

// FindJobs filters, orders by import time and paginates
func (r *JobRepository) FindJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]domain.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if Matches(j, filter) {
			matched = append(matched, cloneJob(j))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(a, b int) bool {
		if !matched[a].ImportedAt.Equal(matched[b].ImportedAt) {
			return matched[a].ImportedAt.After(matched[b].ImportedAt)
		}
		return matched[a].Key().String() < matched[b].Key().String()
	})

	if filter.Offset >= len(matched) {
		return []domain.Job{}, nil
	}
	matched = matched[filter.Offset:]
	if limit := filter.EffectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Get returns a job by natural key
func (r *JobRepository) Get(key domain.NaturalKey) (domain.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[key]
	return cloneJob(j), ok
}

// Len returns the number of stored jobs
func (r *JobRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Ping always succeeds
func (r *JobRepository) Ping(context.Context) error {
	return nil
}

// JobStats counts stored jobs by source, country and sector
func (r *JobRepository) JobStats(ctx context.Context) (domain.JobStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.JobStats{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.NewJobStats()
	for _, j := range r.jobs {
		stats.Add(string(j.Source), j.Country, string(j.Sector), 1)
	}
	return stats, nil
}

// Matches reports whether j satisfies filter
func Matches(j domain.Job, f domain.JobFilter) bool {
	if f.Country != "" && !strings.EqualFold(j.Country, f.Country) {
		return false
	}
	if f.Sector != "" && j.Sector != f.Sector {
		return false
	}
	if f.Source != "" && j.Source != f.Source {
		return false
	}
	if f.Remote != nil && j.IsRemote != *f.Remote {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(j.Title + " " + j.Company + " " + j.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func cloneJob(j domain.Job) domain.Job {
	if j.Skills != nil {
		j.Skills = append([]string(nil), j.Skills...)
	}
	return j
}

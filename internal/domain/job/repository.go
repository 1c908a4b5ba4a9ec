package job

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// Repository persists and loads jobs from storage
type Repository interface {
	// UpsertJob creates or updates a job keyed by Source + SourceID.
	// ID and FirstImportedAt of an existing row are kept.
	UpsertJob(ctx context.Context, job domain.Job) (domain.UpsertOutcome, error)

	// FindJobs lists stored jobs matching the filter, newest import first
	FindJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}

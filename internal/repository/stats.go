package repository

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// StatsRepository aggregates counts over stored jobs
type StatsRepository interface {
	JobStats(ctx context.Context) (domain.JobStats, error)
}

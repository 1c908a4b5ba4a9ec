package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

const defaultWriteConcurrency = 4

// BatchResult reports the outcome of UpsertAll
type BatchResult struct {
	Succeeded int
	Created   int
	Updated   int
	Failed    []UpsertFailure
}

// Gateway applies normalized jobs to a Repository idempotently
type Gateway struct {
	repo        Repository
	logger      *logging.Logger
	clock       func() time.Time
	concurrency int
}

// NewGateway builds a Gateway over repo
func NewGateway(repo Repository, logger *logging.Logger, clock func() time.Time, concurrency int) (*Gateway, error) {
	if repo == nil {
		return nil, fmt.Errorf("job.Gateway: repository is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	if concurrency <= 0 {
		concurrency = defaultWriteConcurrency
	}
	return &Gateway{repo: repo, logger: logger, clock: clock, concurrency: concurrency}, nil
}

// Upsert writes one job, stamping ImportedAt
func (g *Gateway) Upsert(ctx context.Context, job domain.Job) (domain.UpsertOutcome, error) {
	now := g.clock().UTC()
	job.ImportedAt = now
	if job.FirstImportedAt.IsZero() {
		job.FirstImportedAt = now
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if job.Sector == "" {
		job.Sector = domain.SectorGeneral
	}
	return g.repo.UpsertJob(ctx, job)
}

// UpsertAll writes a batch. Only an unreachable store fails the call;
// per-record errors are collected while other records still commit.
func (g *Gateway) UpsertAll(ctx context.Context, jobs []domain.Job) (BatchResult, error) {
	var res BatchResult
	if len(jobs) == 0 {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := g.repo.Ping(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}

	// jobs sharing a natural key are written in batch order by one goroutine
	groups := make(map[domain.NaturalKey][]domain.Job)
	order := make([]domain.NaturalKey, 0, len(jobs))
	for _, j := range jobs {
		k := j.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], j)
	}

	var (
		mu     sync.Mutex
		failed = make(map[domain.NaturalKey][]UpsertFailure)
	)

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for _, k := range order {
		batch := groups[k]
		eg.Go(func() error {
			for _, j := range batch {
				outcome, err := g.Upsert(ctx, j)

				mu.Lock()
				switch {
				case err != nil:
					failed[k] = append(failed[k], UpsertFailure{Job: j, Err: err})
				case outcome == domain.OutcomeCreated:
					res.Succeeded++
					res.Created++
				default:
					res.Succeeded++
					res.Updated++
				}
				mu.Unlock()

				if err != nil {
					g.logger.Warn("upsert failed", "source", j.Source, "sourceId", j.SourceID, "err", err)
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	for _, k := range order {
		res.Failed = append(res.Failed, failed[k]...)
	}
	return res, nil
}

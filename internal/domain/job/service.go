package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
	"github.com/honeycarbs/job-aggregator/internal/repository"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// DefaultMaxJobsPerCountry applies when a request leaves the bound unset
const DefaultMaxJobsPerCountry = 100

// ErrStatsUnsupported is returned when the store cannot aggregate counts
var ErrStatsUnsupported = errors.New("job store does not support stats")

type Service interface {
	// Import runs one aggregation cycle and always returns a summary.
	// The error is non-nil only when the store is unreachable or ctx ends.
	Import(ctx context.Context, req domain.ImportRequest) (domain.ImportSummary, error)
	Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	Stats(ctx context.Context) (domain.JobStats, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	providers         []Provider
	repo              Repository
	clock             func() time.Time
	logger            *logging.Logger
	orchestratorOpts  []OrchestratorOption
	maxJobsPerCountry int
	perPage           int
	writeConcurrency  int
}

// WithProviders sets job providers
func WithProviders(providers ...Provider) Option {
	return func(c *config) {
		c.providers = providers
	}
}

// WithRepository sets the repository
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithOrchestrator passes options through to the orchestrator
func WithOrchestrator(opts ...OrchestratorOption) Option {
	return func(c *config) {
		c.orchestratorOpts = append(c.orchestratorOpts, opts...)
	}
}

// WithMaxJobsPerCountry sets the bound used when a request has none
func WithMaxJobsPerCountry(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxJobsPerCountry = n
		}
	}
}

// WithPerPage sets the page size requested from providers
func WithPerPage(n int) Option {
	return func(c *config) {
		c.perPage = n
	}
}

// WithWriteConcurrency caps concurrent store writes
func WithWriteConcurrency(n int) Option {
	return func(c *config) {
		c.writeConcurrency = n
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:             time.Now,
		maxJobsPerCountry: DefaultMaxJobsPerCountry,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}
	if len(cfg.providers) == 0 {
		return nil, fmt.Errorf("job.Service: at least one provider is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	orch, err := NewOrchestrator(cfg.providers, cfg.logger.Named("orchestrator"), cfg.orchestratorOpts...)
	if err != nil {
		return nil, err
	}
	gw, err := NewGateway(cfg.repo, cfg.logger.Named("gateway"), cfg.clock, cfg.writeConcurrency)
	if err != nil {
		return nil, err
	}

	return &service{
		orchestrator:      orch,
		normalizer:        NewNormalizer(cfg.logger.Named("normalizer")),
		gateway:           gw,
		repo:              cfg.repo,
		clock:             cfg.clock,
		logger:            cfg.logger,
		maxJobsPerCountry: cfg.maxJobsPerCountry,
		perPage:           cfg.perPage,
	}, nil
}

type service struct {
	orchestrator      *Orchestrator
	normalizer        *Normalizer
	gateway           *Gateway
	repo              Repository
	clock             func() time.Time
	logger            *logging.Logger
	maxJobsPerCountry int
	perPage           int
}

// Import fetches, normalizes and persists jobs for the requested countries
func (s *service) Import(ctx context.Context, req domain.ImportRequest) (domain.ImportSummary, error) {
	summary := domain.ImportSummary{
		StartedAt: s.clock().UTC(),
		Countries: map[string]domain.CountrySummary{},
	}

	maxPerCountry := req.MaxJobsPerCountry
	if maxPerCountry <= 0 {
		maxPerCountry = s.maxJobsPerCountry
	}

	agg := s.orchestrator.Aggregate(ctx, AggregateRequest{
		Countries:     req.Countries,
		Queries:       req.Queries,
		Page:          req.Page,
		PerPage:       s.perPage,
		MaxPerCountry: maxPerCountry,
	})
	summary.Countries = agg.Countries
	summary.CountriesProcessed = len(agg.Processed)
	summary.TotalJobs = len(agg.Jobs)
	summary.UnknownCountries = agg.Unknown

	// partial fetches from a cancelled run are dropped, nothing is written
	if agg.Cancelled {
		s.logger.Warn("import cancelled before persistence", "fetched", summary.TotalJobs)
		return s.cancelled(ctx, summary)
	}

	norm := s.normalizer.Normalize(agg.Jobs)
	summary.Duplicates = norm.Duplicates
	summary.Invalid = norm.Invalid

	if ctx.Err() != nil {
		s.logger.Warn("import cancelled before persistence", "fetched", summary.TotalJobs)
		return s.cancelled(ctx, summary)
	}

	batch, err := s.gateway.UpsertAll(ctx, norm.Jobs)
	summary.FinishedAt = s.clock().UTC()
	if err != nil && ctx.Err() == nil {
		s.logger.Error("import failed", "err", err)
		return summary, err
	}

	summary.TotalPersisted = batch.Succeeded
	summary.Created = batch.Created
	summary.Updated = batch.Updated
	for _, f := range batch.Failed {
		summary.Failures = append(summary.Failures, domain.PersistFailure{
			Source:   f.Job.Source,
			SourceID: f.Job.SourceID,
			Title:    f.Job.Title,
			Error:    f.Err.Error(),
		})
	}

	// rows committed before a mid-persist cancel stay committed
	if ctx.Err() != nil {
		s.logger.Warn("import cancelled during persistence",
			"persisted", summary.TotalPersisted,
			"failed", len(summary.Failures),
		)
		return s.cancelled(ctx, summary)
	}

	s.logger.Info("import finished",
		"countries", summary.CountriesProcessed,
		"fetched", summary.TotalJobs,
		"persisted", summary.TotalPersisted,
		"created", summary.Created,
		"updated", summary.Updated,
		"duplicates", summary.Duplicates,
		"invalid", summary.Invalid,
		"failed", len(summary.Failures),
		"elapsed", summary.FinishedAt.Sub(summary.StartedAt),
	)
	return summary, nil
}

func (s *service) cancelled(ctx context.Context, summary domain.ImportSummary) (domain.ImportSummary, error) {
	summary.Cancelled = true
	summary.FinishedAt = s.clock().UTC()
	return summary, fmt.Errorf("import cancelled: %w", context.Cause(ctx))
}

// Search queries stored jobs. Unknown country or sector filters match nothing
// rather than everything.
func (s *service) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if filter.Country != "" {
		code := classify.NormalizeCountry(filter.Country)
		if code == "" {
			return []domain.Job{}, nil
		}
		filter.Country = code
	}
	if filter.Sector != "" {
		id, ok := classify.ParseSector(string(filter.Sector))
		if !ok && filter.Sector != domain.SectorGeneral {
			return []domain.Job{}, nil
		}
		filter.Sector = id
	}
	if filter.Source != "" {
		src, err := domain.ParseSource(string(filter.Source))
		if err != nil {
			return nil, err
		}
		filter.Source = src
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Limit = filter.EffectiveLimit()

	jobs, err := s.repo.FindJobs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	return jobs, nil
}

// Stats returns stored job counts when the repository supports it
func (s *service) Stats(ctx context.Context) (domain.JobStats, error) {
	sr, ok := s.repo.(repository.StatsRepository)
	if !ok {
		return domain.JobStats{}, ErrStatsUnsupported
	}
	return sr.JobStats(ctx)
}

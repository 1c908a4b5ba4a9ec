// Package scheduler triggers periodic import runs from a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type importer interface {
	Import(ctx context.Context, req domain.ImportRequest) (domain.ImportSummary, error)
}

// Scheduler wraps robfig/cron around the import service
type Scheduler struct {
	cron     *cron.Cron
	importer importer
	spec     string
	req      domain.ImportRequest
	logger   *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a Scheduler running req on every tick of spec.
// Overlapping ticks are skipped while a run is still in progress.
func New(imp importer, spec string, req domain.ImportRequest, logger *logging.Logger) (*Scheduler, error) {
	if imp == nil {
		return nil, fmt.Errorf("scheduler: importer is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("scheduler: parse spec %q: %w", spec, err)
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		importer: imp,
		spec:     spec,
		req:      req,
		logger:   logger,
	}, nil
}

// Start registers the import job and starts the cron loop.
// Runs stop being scheduled once ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, func() { s.run(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop cancels an in-flight run and waits for it to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	s.logger.Info("scheduled import started", "countries", s.req.Countries, "queries", s.req.Queries)

	summary, err := s.importer.Import(ctx, s.req)
	if err != nil {
		s.logger.Error("scheduled import failed", "error", err, "cancelled", summary.Cancelled)
		return
	}
	s.logger.Info("scheduled import complete",
		"totalJobs", summary.TotalJobs,
		"persisted", summary.TotalPersisted,
		"created", summary.Created,
		"updated", summary.Updated,
		"failures", len(summary.Failures),
	)
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

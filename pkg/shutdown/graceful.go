package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Func adapts a plain function to Stoppable
type Func func(ctx context.Context) error

func (f Func) Shutdown(ctx context.Context) error {
	return f(ctx)
}

// Graceful waits for one of signals, or for ctx to end, then shuts targets
// down in order. All targets share one timeout.
func Graceful(ctx context.Context, signals []os.Signal, timeout time.Duration, log *logging.Logger, targets ...Stoppable) {
	sigCtx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	failed := false
	for _, s := range targets {
		if err := s.Shutdown(shutdownCtx); err != nil {
			failed = true
			log.Warn("graceful shutdown step failed", "err", err)
		}
	}

	if failed {
		log.Warn("graceful shutdown completed with error")
	} else {
		log.Info("graceful shutdown completed successfully")
	}
}

package mcp

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers/cached"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// provideStore opens and migrates the job store
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Store, func(), error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, store.Close, nil
}

// provideCache returns a nil Store when caching is disabled
func provideCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (cached.Store, func()) {
	rdb, cleanup := connectCache(ctx, cfg, logger)
	if rdb == nil {
		return nil, cleanup
	}
	return rdb, cleanup
}

func provideProviders(cfg config.Config, cache cached.Store, logger *logging.Logger) []job.Provider {
	return buildProviders(cfg, cache, logger.Named("providers"))
}

func provideJobService(cfg config.Config, providers []job.Provider, store *Store, logger *logging.Logger) (job.Service, error) {
	return buildJobService(cfg, providers, store.Jobs, logger)
}

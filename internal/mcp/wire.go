//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// InitializeResources opens the store, builds providers and returns the
// shared Resources. The cleanup closes every connection it opened.
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure
		provideStore,
		provideCache,
		newSheetsClient,

		// Providers and services
		provideProviders,
		provideJobService,

		newResources,
	)

	return nil, nil, nil
}

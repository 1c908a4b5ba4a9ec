package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/repository"
	"github.com/honeycarbs/job-aggregator/internal/storage/memory"
	neo4jstore "github.com/honeycarbs/job-aggregator/internal/storage/neo4j"
	pgstore "github.com/honeycarbs/job-aggregator/internal/storage/postgres"
	"github.com/honeycarbs/job-aggregator/internal/storage/sqlite"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
	n4j "github.com/honeycarbs/job-aggregator/pkg/neo4j"
	"github.com/honeycarbs/job-aggregator/pkg/postgres"
)

// Store is the job store selected by STORE_DRIVER
type Store struct {
	Driver string
	Jobs   job.Repository
	Graph  repository.GraphRepository // set only for the neo4j driver

	migrate func(ctx context.Context) error
	close   func()
}

// Migrate creates tables, indexes or constraints for the store
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s store: %w", s.Driver, err)
	}
	return nil
}

// Close releases the store connection
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured job store
func OpenStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Store, error) {
	s := &Store{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Store.DatabaseURL})
		if err != nil {
			return nil, err
		}
		repo := pgstore.NewJobRepository(pool)
		s.Jobs, s.migrate, s.close = repo, repo.Migrate, pool.Close

	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.Jobs, s.close = repo, func() { _ = repo.Close() }

	case config.DriverNeo4j:
		client, err := n4j.NewClient(ctx, n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
			Database: cfg.Neo4j.Database,
		})
		if err != nil {
			return nil, err
		}
		repo := neo4jstore.NewJobRepository(client)
		s.Jobs, s.Graph, s.migrate = repo, neo4jstore.NewGraphRepository(client), repo.EnsureSchema
		s.close = func() { _ = client.Close(context.Background()) }

	case config.DriverMemory:
		s.Jobs = memory.NewJobRepository()

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	logger.Info("job store opened", "driver", s.Driver)
	return s, nil
}

package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers/cached"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

func TestBuildProvidersDegradesWithoutCredentials(t *testing.T) {
	cfg := config.Config{}
	cfg.Reed.APIKey = "reed-key"

	providers := buildProviders(cfg, nil, logging.NewNop())
	require.Len(t, providers, 4)

	names := make([]domain.Source, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	assert.Equal(t, []domain.Source{domain.SourceAdzuna, domain.SourceJSearch, domain.SourceGoogle, domain.SourceReed}, names)

	_, err := providers[0].Fetch(context.Background(), job.FetchParams{})
	assert.True(t, errors.Is(err, job.ErrProviderUnavailable))
	assert.Contains(t, err.Error(), "ADZUNA_APP_ID")

	_, isUnavailable := providers[3].(*job.Unavailable)
	assert.False(t, isUnavailable)
}

type missCache struct{}

func (missCache) Get(ctx context.Context, _ string) *goredis.StringCmd {
	return goredis.NewStringResult("", goredis.Nil)
}

func (missCache) Set(ctx context.Context, _ string, _ any, _ time.Duration) *goredis.StatusCmd {
	return goredis.NewStatusResult("OK", nil)
}

func TestBuildProvidersWrapsWithCache(t *testing.T) {
	cfg := config.Config{}
	cfg.JSearch.APIKey = "rapid-key"

	providers := buildProviders(cfg, missCache{}, logging.NewNop())
	_, isCached := providers[1].(*cached.Provider)
	assert.True(t, isCached)

	// unavailable sources are never wrapped
	_, isCached = providers[0].(*cached.Provider)
	assert.False(t, isCached)
}

func TestOpenStoreMemoryAndSQLite(t *testing.T) {
	ctx := context.Background()

	cfg := config.Config{}
	cfg.Store.Driver = config.DriverMemory
	store, err := OpenStore(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, store.Graph)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Jobs.Ping(ctx))
	store.Close()

	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.SQLitePath = t.TempDir() + "/jobs.db"
	store, err = OpenStore(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Jobs.Ping(ctx))

	cfg.Store.Driver = "mongo"
	_, err = OpenStore(ctx, cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestInitializeResourcesWithMemoryStore(t *testing.T) {
	cfg := config.Config{}
	cfg.Store.Driver = config.DriverMemory

	res, cleanup, err := InitializeResources(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, res.JobService)
	assert.Nil(t, res.Graph)
	assert.Nil(t, res.Sheets)
}

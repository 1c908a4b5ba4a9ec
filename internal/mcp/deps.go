package mcp

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	adzunaProvider "github.com/honeycarbs/job-aggregator/internal/domain/job/providers/adzuna"
	"github.com/honeycarbs/job-aggregator/internal/domain/job/providers/cached"
	googleProvider "github.com/honeycarbs/job-aggregator/internal/domain/job/providers/google"
	jsearchProvider "github.com/honeycarbs/job-aggregator/internal/domain/job/providers/jsearch"
	reedProvider "github.com/honeycarbs/job-aggregator/internal/domain/job/providers/reed"
	"github.com/honeycarbs/job-aggregator/pkg/adzuna"
	"github.com/honeycarbs/job-aggregator/pkg/httpx"
	"github.com/honeycarbs/job-aggregator/pkg/jsearch"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
	pkgredis "github.com/honeycarbs/job-aggregator/pkg/redis"
	"github.com/honeycarbs/job-aggregator/pkg/reed"
	"github.com/honeycarbs/job-aggregator/pkg/serpapi"
)

const retryInterval = 500 * time.Millisecond

// buildProviders returns one provider per source in declaration order.
// A source without credentials becomes job.Unavailable so the run degrades
// instead of failing.
func buildProviders(cfg config.Config, cache cached.Store, logger *logging.Logger) []job.Provider {
	httpClient := httpx.NewClient(cfg.Import.CallTimeout)
	clientLog := logger.Named("client")

	build := []struct {
		source  domain.Source
		missing string
		create  func() (job.Provider, error)
	}{
		{domain.SourceAdzuna, missingOf(cfg.Adzuna.AppID == "" || cfg.Adzuna.AppKey == "", "ADZUNA_APP_ID/ADZUNA_APP_KEY"), func() (job.Provider, error) {
			client, err := adzuna.NewClient(adzuna.Config{
				Logger:     clientLog.Named("adzuna"),
				AppID:      cfg.Adzuna.AppID,
				AppKey:     cfg.Adzuna.AppKey,
				HTTPClient: httpClient,
				PageSize:   cfg.Import.PerPage,
				Limiter:    httpx.NewLimiter(cfg.Import.RateLimit),
			})
			if err != nil {
				return nil, err
			}
			return adzunaProvider.NewProvider(client)
		}},
		{domain.SourceJSearch, missingOf(cfg.JSearch.APIKey == "", "JSEARCH_API_KEY"), func() (job.Provider, error) {
			client, err := jsearch.NewClient(jsearch.Config{
				Logger:     clientLog.Named("jsearch"),
				APIKey:     cfg.JSearch.APIKey,
				Host:       cfg.JSearch.Host,
				HTTPClient: httpClient,
				Limiter:    httpx.NewLimiter(cfg.Import.RateLimit),
			})
			if err != nil {
				return nil, err
			}
			return jsearchProvider.NewProvider(client)
		}},
		{domain.SourceGoogle, missingOf(cfg.SerpAPI.APIKey == "", "SERPAPI_API_KEY"), func() (job.Provider, error) {
			client, err := serpapi.NewClient(serpapi.Config{
				Logger:     clientLog.Named("serpapi"),
				APIKey:     cfg.SerpAPI.APIKey,
				HTTPClient: httpClient,
				Limiter:    httpx.NewLimiter(cfg.Import.RateLimit),
			})
			if err != nil {
				return nil, err
			}
			return googleProvider.NewProvider(client)
		}},
		{domain.SourceReed, missingOf(cfg.Reed.APIKey == "", "REED_API_KEY"), func() (job.Provider, error) {
			client, err := reed.NewClient(reed.Config{
				Logger:     clientLog.Named("reed"),
				APIKey:     cfg.Reed.APIKey,
				HTTPClient: httpClient,
				PageSize:   cfg.Import.PerPage,
				Limiter:    httpx.NewLimiter(cfg.Import.RateLimit),
			})
			if err != nil {
				return nil, err
			}
			return reedProvider.NewProvider(client)
		}},
	}

	providers := make([]job.Provider, 0, len(build))
	for _, b := range build {
		if b.missing != "" {
			logger.Warn("provider disabled", "provider", b.source, "missing", b.missing)
			providers = append(providers, job.NewUnavailable(b.source, b.missing+" not set"))
			continue
		}
		p, err := b.create()
		if err != nil {
			logger.Warn("failed to initialize provider", "provider", b.source, "err", err)
			providers = append(providers, job.NewUnavailable(b.source, err.Error()))
			continue
		}
		if cache != nil {
			p = cached.New(p, cache, cfg.Redis.CacheTTL, logger.Named("cache"))
		}
		logger.Info("provider initialized", "provider", b.source, "cached", cache != nil)
		providers = append(providers, p)
	}
	return providers
}

func missingOf(missing bool, vars string) string {
	if missing {
		return vars
	}
	return ""
}

// connectCache returns a Redis client when REDIS_URL is set. An unreachable
// Redis disables caching rather than failing startup.
func connectCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (*goredis.Client, func()) {
	if cfg.Redis.URL == "" {
		return nil, func() {}
	}
	rdb, err := pkgredis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Warn("redis unavailable, provider cache disabled", "err", err)
		return nil, func() {}
	}
	logger.Info("provider cache enabled", "ttl", cfg.Redis.CacheTTL)
	return rdb, func() { _ = rdb.Close() }
}

// buildJobService assembles the import pipeline over providers and store
func buildJobService(cfg config.Config, providers []job.Provider, repo job.Repository, logger *logging.Logger) (job.Service, error) {
	return job.NewService(
		job.WithProviders(providers...),
		job.WithRepository(repo),
		job.WithLogger(logger.Named("jobs")),
		job.WithMaxJobsPerCountry(cfg.Import.MaxJobsPerCountry),
		job.WithPerPage(cfg.Import.PerPage),
		job.WithWriteConcurrency(cfg.Import.WriteConcurrency),
		job.WithOrchestrator(
			job.WithCallTimeout(cfg.Import.CallTimeout),
			job.WithConcurrency(cfg.Import.Concurrency),
			job.WithRetries(cfg.Import.Retries, retryInterval),
			job.WithDefaultCountries(cfg.Import.DefaultCountries),
		),
	)
}

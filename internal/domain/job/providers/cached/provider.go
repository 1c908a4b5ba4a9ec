// Package cached wraps a job provider with a Redis-backed response cache so
// scheduled imports do not re-spend provider quota on identical pages.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// DefaultTTL applies when New is given a non-positive ttl
const DefaultTTL = 30 * time.Minute

// Store is the subset of the go-redis client the cache needs
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Provider serves repeated fetches from Redis. Errors are never cached and a
// failing cache falls through to the wrapped provider.
type Provider struct {
	next   job.Provider
	store  Store
	ttl    time.Duration
	logger *logging.Logger
}

// New wraps next with a cache
func New(next job.Provider, store Store, ttl time.Duration, logger *logging.Logger) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Provider{next: next, store: store, ttl: ttl, logger: logger}
}

func (p *Provider) Name() domain.Source {
	return p.next.Name()
}

func (p *Provider) Fetch(ctx context.Context, params job.FetchParams) ([]domain.RawJob, error) {
	key := Key(p.next.Name(), params)

	data, err := p.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var jobs []domain.RawJob
		if jsonErr := json.Unmarshal(data, &jobs); jsonErr == nil {
			p.logger.Debug("cache hit", "provider", p.next.Name(), "locale", params.Locale, "jobs", len(jobs))
			return jobs, nil
		}
	case !errors.Is(err, redis.Nil):
		p.logger.Warn("cache read failed", "provider", p.next.Name(), "err", err)
	}

	jobs, err := p.next.Fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(jobs); err == nil {
		if err := p.store.Set(ctx, key, data, p.ttl).Err(); err != nil {
			p.logger.Warn("cache write failed", "provider", p.next.Name(), "err", err)
		}
	}
	return jobs, nil
}

// Key builds a deterministic cache key for one provider page
func Key(source domain.Source, params job.FetchParams) string {
	raw := string(source) + "|" + params.Locale + "|" + params.Query + "|" +
		strconv.Itoa(params.Page) + "|" + strconv.Itoa(params.PerPage)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("jobs:%s:%x", source, sum[:12])
}

var _ job.Provider = (*Provider)(nil)

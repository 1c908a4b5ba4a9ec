package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

const (
	defaultCallTimeout      = 15 * time.Second
	defaultConcurrency      = 8
	defaultCountryFallback  = 5
	defaultRetryInterval    = 500 * time.Millisecond
	defaultRetryMaxInterval = 5 * time.Second
)

// AggregateRequest is the orchestrator input
type AggregateRequest struct {
	Countries     []string
	Queries       []string
	Page          int
	PerPage       int
	MaxPerCountry int // 0 means unbounded
}

// AggregateResult is the merged fan-out output
type AggregateResult struct {
	Jobs      []domain.TaggedJob
	Countries map[string]domain.CountrySummary
	// Processed lists resolved country codes in merge order
	Processed []string
	Unknown   []string
	Cancelled bool
}

// OrchestratorOption configures Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithCallTimeout bounds each provider call
func WithCallTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithConcurrency caps in-flight provider calls
func WithConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRetries enables exponential-backoff retries of retryable transport errors
func WithRetries(n int, initial time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.retries = n
		}
		if initial > 0 {
			o.retryInterval = initial
		}
	}
}

// WithDefaultCountries sets how many top-priority countries are fetched
// when a request names none
func WithDefaultCountries(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.defaultCountries = n
		}
	}
}

// Orchestrator fans a request out over providers and countries
type Orchestrator struct {
	providers        []Provider
	logger           *logging.Logger
	callTimeout      time.Duration
	concurrency      int
	retries          int
	retryInterval    time.Duration
	defaultCountries int
}

// NewOrchestrator builds an Orchestrator over providers in declaration order
func NewOrchestrator(providers []Provider, logger *logging.Logger, opts ...OrchestratorOption) (*Orchestrator, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("job.Orchestrator: at least one provider is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		providers:        providers,
		logger:           logger,
		callTimeout:      defaultCallTimeout,
		concurrency:      defaultConcurrency,
		retryInterval:    defaultRetryInterval,
		defaultCountries: defaultCountryFallback,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Providers returns the configured providers in declaration order
func (o *Orchestrator) Providers() []Provider {
	out := make([]Provider, len(o.providers))
	copy(out, o.providers)
	return out
}

type fetchTask struct {
	country  classify.CountryConfig
	query    string
	provider Provider
}

type fetchResult struct {
	jobs []domain.RawJob
	err  *ProviderError
}

// Aggregate dispatches every (country, query, provider) call concurrently
// and waits for all of them to settle before merging
func (o *Orchestrator) Aggregate(ctx context.Context, req AggregateRequest) AggregateResult {
	countries, unknown := o.resolveCountries(req.Countries)
	queries := normalizeQueries(req.Queries)
	page := req.Page
	if page < 1 {
		page = 1
	}

	tasks := make([]fetchTask, 0, len(countries)*len(queries)*len(o.providers))
	for _, c := range countries {
		for _, q := range queries {
			for _, p := range o.providers {
				tasks = append(tasks, fetchTask{country: c, query: q, provider: p})
			}
		}
	}

	// one slot per task, so no result collection is shared between goroutines
	results := make([]fetchResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = o.run(ctx, task, FetchParams{
				Query:   task.query,
				Locale:  task.country.Locale(task.provider.Name()),
				Page:    page,
				PerPage: req.PerPage,
			})
			return nil
		})
	}
	_ = g.Wait()

	out := o.merge(countries, tasks, results, req.MaxPerCountry)
	out.Unknown = unknown
	out.Cancelled = ctx.Err() != nil
	return out
}

func (o *Orchestrator) run(ctx context.Context, task fetchTask, params FetchParams) (res fetchResult) {
	name := task.provider.Name()
	log := o.logger.With("provider", name, "country", task.country.Code, "query", task.query)

	if params.Locale == "" {
		res.err = NewUnavailableError(name, "country "+task.country.Code+" not served")
		log.Debug("provider skipped")
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res = fetchResult{err: &ProviderError{Provider: name, Kind: KindMalformed, Err: fmt.Errorf("panic while mapping response: %v", r)}}
			log.Error("provider panicked", "panic", r)
		}
	}()

	start := time.Now()
	jobs, err := o.fetchWithRetry(ctx, task.provider, params)
	if err != nil {
		res.err = AsProviderError(name, err)
		if res.err.Kind == KindUnavailable {
			log.Debug("provider unavailable", "err", err)
		} else {
			log.Warn("provider fetch failed", "kind", res.err.Kind, "err", err, "elapsed", time.Since(start))
		}
		return res
	}

	for i := range jobs {
		if jobs[i].Source == "" {
			jobs[i].Source = name
		}
	}
	log.Debug("provider fetch done", "jobs", len(jobs), "elapsed", time.Since(start))
	res.jobs = jobs
	return res
}

func (o *Orchestrator) fetchWithRetry(ctx context.Context, p Provider, params FetchParams) ([]domain.RawJob, error) {
	call := func() ([]domain.RawJob, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
		return p.Fetch(callCtx, params)
	}
	if o.retries == 0 {
		return call()
	}

	operation := func() ([]domain.RawJob, error) {
		jobs, err := call()
		if err == nil {
			return jobs, nil
		}
		pe := AsProviderError(p.Name(), err)
		if pe.Kind != KindTransport || !pe.Retryable || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.retryInterval
	bo.MaxInterval = defaultRetryMaxInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(o.retries+1)),
		backoff.WithMaxElapsedTime(o.callTimeout*time.Duration(o.retries+1)),
	)
}

func (o *Orchestrator) merge(countries []classify.CountryConfig, tasks []fetchTask, results []fetchResult, limit int) AggregateResult {
	out := AggregateResult{
		Countries: make(map[string]domain.CountrySummary, len(countries)),
		Processed: make([]string, 0, len(countries)),
	}

	// tasks are laid out country-major, so each country's tasks are contiguous
	// and already in query then provider order
	i := 0
	for _, c := range countries {
		summary := domain.CountrySummary{
			Name:      c.Name,
			Providers: make(map[string]int, len(o.providers)),
		}
		for _, p := range o.providers {
			summary.Providers[string(p.Name())] = 0
		}

		var jobs []domain.TaggedJob
		for ; i < len(tasks) && tasks[i].country.Code == c.Code; i++ {
			name := string(tasks[i].provider.Name())
			res := results[i]
			if res.err != nil {
				if summary.Errors == nil {
					summary.Errors = make(map[string]string)
				}
				if _, seen := summary.Errors[name]; !seen {
					summary.Errors[name] = res.err.Error()
				}
				continue
			}
			summary.Providers[name] += len(res.jobs)
			for _, raw := range res.jobs {
				jobs = append(jobs, domain.TaggedJob{
					Raw:         raw,
					Provider:    tasks[i].provider.Name(),
					CountryCode: c.Code,
					CountryName: c.Name,
				})
			}
		}

		if limit > 0 && len(jobs) > limit {
			jobs = jobs[:limit]
		}
		summary.TotalJobs = len(jobs)

		out.Jobs = append(out.Jobs, jobs...)
		out.Countries[c.Code] = summary
		out.Processed = append(out.Processed, c.Code)
	}
	return out
}

func (o *Orchestrator) resolveCountries(codes []string) ([]classify.CountryConfig, []string) {
	if len(codes) == 0 {
		return classify.DefaultCountries(o.defaultCountries), nil
	}

	seen := make(map[string]bool, len(codes))
	var resolved []classify.CountryConfig
	var unknown []string
	for _, code := range codes {
		c, ok := classify.Country(code)
		if !ok {
			if trimmed := strings.TrimSpace(code); trimmed != "" {
				unknown = append(unknown, trimmed)
			}
			continue
		}
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		resolved = append(resolved, c)
	}

	// merge order follows country priority, not request order
	sort.SliceStable(resolved, func(i, j int) bool { return resolved[i].Priority < resolved[j].Priority })
	return resolved, unknown
}

func normalizeQueries(queries []string) []string {
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// IsUnavailable reports whether err marks a provider that was never called
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

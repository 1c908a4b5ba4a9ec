package job

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// FetchParams describe one provider call
type FetchParams struct {
	Query   string // empty means no keyword filter
	Locale  string // provider-specific country code from CountryConfig
	Page    int
	PerPage int
}

// Provider represents an external job data source (Adzuna, JSearch, Google Jobs, Reed)
type Provider interface {
	// e.g. "adzuna" or "reed"
	Name() domain.Source

	// Fetch returns one page of raw jobs or a *ProviderError
	Fetch(ctx context.Context, params FetchParams) ([]domain.RawJob, error)
}

// Unavailable stands in for a provider that is missing credentials.
// It never performs network I/O.
type Unavailable struct {
	Source domain.Source
	Reason string
}

// NewUnavailable builds a placeholder provider
func NewUnavailable(source domain.Source, reason string) *Unavailable {
	return &Unavailable{Source: source, Reason: reason}
}

func (u *Unavailable) Name() domain.Source {
	return u.Source
}

func (u *Unavailable) Fetch(context.Context, FetchParams) ([]domain.RawJob, error) {
	return nil, NewUnavailableError(u.Source, u.Reason)
}

var _ Provider = (*Unavailable)(nil)

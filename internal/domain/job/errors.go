package job

import (
	"errors"
	"fmt"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

var (
	// ErrProviderUnavailable marks a provider that cannot be called at all
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrStoreUnreachable is the only error that aborts an import run
	ErrStoreUnreachable = errors.New("job store unreachable")
)

// ProviderErrorKind classifies provider failures
type ProviderErrorKind string

const (
	KindUnavailable ProviderErrorKind = "unavailable"
	KindTransport   ProviderErrorKind = "transport"
	KindMalformed   ProviderErrorKind = "malformed"
)

// ProviderError is returned by providers instead of raising past the
// adapter boundary
type ProviderError struct {
	Provider  domain.Source
	Kind      ProviderErrorKind
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewUnavailableError reports a provider that was not called
func NewUnavailableError(provider domain.Source, reason string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     KindUnavailable,
		Err:      fmt.Errorf("%w: %s", ErrProviderUnavailable, reason),
	}
}

// AsProviderError extracts a ProviderError, wrapping foreign errors as
// transport failures
func AsProviderError(provider domain.Source, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: provider, Kind: KindTransport, Err: err}
}

// UpsertFailure is one record that could not be persisted
type UpsertFailure struct {
	Job domain.Job
	Err error
}

func (f UpsertFailure) Error() string {
	return fmt.Sprintf("upsert %s: %v", f.Job.Key(), f.Err)
}

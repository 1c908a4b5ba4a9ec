// Package providers holds helpers shared by the job source adapters.
package providers

import (
	"context"
	"errors"
	"net"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/httpx"
)

// Classify converts a client error into a *job.ProviderError so the
// orchestrator can decide whether to retry
func Classify(source domain.Source, err error) error {
	if err == nil {
		return nil
	}

	var pe *job.ProviderError
	if errors.As(err, &pe) {
		return err
	}

	out := &job.ProviderError{Provider: source, Kind: job.KindTransport, Err: err}

	var se *httpx.StatusError
	var ne net.Error
	switch {
	case httpx.IsDecode(err):
		out.Kind = job.KindMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	case errors.As(err, &se):
		out.Retryable = se.Retryable()
	case errors.As(err, &ne):
		out.Retryable = true
	}
	return out
}

// OptionalFloat copies a float pointer so raw jobs never alias client memory
func OptionalFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

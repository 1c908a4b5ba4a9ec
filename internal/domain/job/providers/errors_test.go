package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/httpx"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      job.ProviderErrorKind
		retryable bool
	}{
		{"decode", &httpx.DecodeError{Service: "x", Cause: errors.New("bad json")}, job.KindMalformed, false},
		{"rate limited", &httpx.StatusError{Service: "x", StatusCode: 429}, job.KindTransport, true},
		{"server error", fmt.Errorf("wrapped: %w", &httpx.StatusError{Service: "x", StatusCode: 503}), job.KindTransport, true},
		{"unauthorized", &httpx.StatusError{Service: "x", StatusCode: 401}, job.KindTransport, false},
		{"network", &url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}, job.KindTransport, true},
		{"deadline", fmt.Errorf("x: request failed: %w", context.DeadlineExceeded), job.KindTransport, false},
		{"other", errors.New("status ERROR"), job.KindTransport, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(domain.SourceReed, tt.err)
			var pe *job.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, domain.SourceReed, pe.Provider)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.retryable, pe.Retryable)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyKeepsProviderErrors(t *testing.T) {
	assert.NoError(t, Classify(domain.SourceReed, nil))

	orig := job.NewUnavailableError(domain.SourceReed, "no key")
	assert.Same(t, orig, Classify(domain.SourceAdzuna, orig))
}

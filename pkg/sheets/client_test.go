package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, retryable(fmt.Errorf("append: %w", &googleapi.Error{Code: http.StatusServiceUnavailable})))
	assert.False(t, retryable(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, retryable(errors.New("dial tcp: timeout")))
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 4, func() error {
		calls++
		return &googleapi.Error{Code: http.StatusNotFound, Message: "Requested entity was not found."}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesQuotaErrors(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func() error {
		calls++
		if calls < 2 {
			return &googleapi.Error{Code: http.StatusTooManyRequests}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

// Package httpx holds the HTTP plumbing shared by the job API clients.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single provider call
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 8 << 20
)

// StatusError reports a non-2xx response from an upstream API
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API error (%d): %s", e.Service, e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// DecodeError reports a response body that is not the expected JSON document
type DecodeError struct {
	Service string
	Cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Service, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// IsDecode reports whether err came from a malformed response body
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// NewClient returns an HTTP client tuned for small JSON API calls
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// NewLimiter builds a limiter allowing perSecond requests with a small burst.
// perSecond <= 0 disables limiting.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// GetJSON waits on the limiter, performs req and decodes a 2xx body into out
func GetJSON(client *http.Client, limiter *rate.Limiter, req *http.Request, service string, out any) error {
	if limiter != nil {
		if err := limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("%s: rate limit wait: %w", service, err)
		}
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", service, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", service, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Service: service, Cause: err}
	}
	return nil
}

// DecodeItems decodes each raw item independently, skipping the ones that
// do not fit T. It returns the decoded items and the number skipped.
func DecodeItems[T any](items []json.RawMessage) ([]T, int) {
	out := make([]T, 0, len(items))
	skipped := 0
	for _, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}

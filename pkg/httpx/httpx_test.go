package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`{"name":"ok"}`))
		case "/broken":
			_, _ = w.Write([]byte(`<html>not json</html>`))
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(" slow down \n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	get := func(path string, out any) error {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		return GetJSON(client, nil, req, "test", out)
	}

	t.Run("success", func(t *testing.T) {
		var out struct {
			Name string `json:"name"`
		}
		require.NoError(t, get("/ok", &out))
		assert.Equal(t, "ok", out.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		var out map[string]any
		err := get("/broken", &out)
		require.Error(t, err)
		assert.True(t, IsDecode(err))
	})

	t.Run("status error", func(t *testing.T) {
		var out map[string]any
		err := get("/limited", &out)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
		assert.Equal(t, "slow down", se.Body)
		assert.True(t, se.Retryable())
		assert.False(t, IsDecode(err))
	})

	t.Run("not found is not retryable", func(t *testing.T) {
		var out map[string]any
		err := get("/missing", &out)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.False(t, se.Retryable())
	})
}

func TestGetJSONCancelledWhileRateLimited(t *testing.T) {
	limiter := NewLimiter(0.001)
	require.NotNil(t, limiter)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	var out any
	err = GetJSON(NewClient(0), limiter, req, "test", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestNewLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-1))
}

func TestDecodeItems(t *testing.T) {
	type item struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}
	raw := []json.RawMessage{
		json.RawMessage(`{"id":"a","count":1}`),
		json.RawMessage(`{"id":"b","count":"lots"}`),
		json.RawMessage(`"just a string"`),
		json.RawMessage(`{"id":"c"}`),
	}

	items, skipped := DecodeItems[item](raw)
	assert.Equal(t, 2, skipped)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
}

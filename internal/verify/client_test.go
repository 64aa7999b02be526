package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/webtrial/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, logger.NewTestLogger()), server
}

func TestReset(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/reset_metrics", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))

	err := client.Reset(context.Background())
	assert.NoError(t, err)
}

func TestResetServerError(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("broken"))
	}))

	err := client.Reset(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "broken")
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/metrics", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total":   5,
			"passed":  4,
			"failed":  1,
			"last_ms": 1234,
			"last":    "PASS",
			"last_ts": 1724590000,
		})
	}))

	m, err := client.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, m.Total)
	assert.Equal(t, 4, m.Passed)
	assert.Equal(t, 1, m.Failed)
	assert.Equal(t, int64(1234), m.LastMS)
	assert.Equal(t, "PASS", m.Last)
	assert.Equal(t, int64(1724590000), m.LastTS)
}

func TestMetricsServerError(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Metrics(context.Background())
	assert.Error(t, err)
}

func TestMetricsBadJSON(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.Metrics(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClientUnreachable(t *testing.T) {
	t.Parallel()
	client := NewClient("http://127.0.0.1:1", logger.NewTestLogger())

	assert.Error(t, client.Reset(context.Background()))
	_, err := client.Metrics(context.Background())
	assert.Error(t, err)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	t.Parallel()
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL+"/", logger.NewTestLogger())
	require.NoError(t, client.Reset(context.Background()))
	assert.Equal(t, "/reset_metrics", gotPath)
}

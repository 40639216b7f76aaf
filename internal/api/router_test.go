package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tierkv/tierkv/internal/shared"
	"github.com/tierkv/tierkv/internal/storage"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := storage.NewStore(storage.Config{FlushThreshold: 4})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	logger := shared.New(io.Discard, shared.ERROR)

	handler := NewHandler(store, metrics, logger)
	return NewRouter(handler, RouterConfig{
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: registry,
	})
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterKeyLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	// Reading a key that was never written.
	w := doRequest(router, http.MethodGet, "/api/v1/keys/alpha", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Write, read back.
	w = doRequest(router, http.MethodPut, "/api/v1/keys/alpha", `{"value":"one"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/keys/alpha", "")
	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "one", response["value"])

	// Overwrite wins.
	doRequest(router, http.MethodPut, "/api/v1/keys/alpha", `{"value":"two"}`)
	w = doRequest(router, http.MethodGet, "/api/v1/keys/alpha", "")
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "two", response["value"])

	// Delete hides the key, and deleting again still succeeds.
	w = doRequest(router, http.MethodDelete, "/api/v1/keys/alpha", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodGet, "/api/v1/keys/alpha", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(router, http.MethodDelete, "/api/v1/keys/alpha", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterSurvivesFlushes(t *testing.T) {
	router := setupTestRouter(t)

	// Enough writes to drain the memtable several times.
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("/api/v1/keys/key-%02d", i)
		w := doRequest(router, http.MethodPut, path, fmt.Sprintf(`{"value":"val-%d"}`, i))
		require.Equal(t, http.StatusOK, w.Code)
	}
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("/api/v1/keys/key-%02d", i)
		w := doRequest(router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, "key-%02d missing", i)

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, fmt.Sprintf("val-%d", i), response["value"])
	}

	w := doRequest(router, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats storage.Stats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, uint64(5), stats.Flushes)
	assert.NotEmpty(t, stats.Levels)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ok", response["status"])
	assert.Contains(t, response["components"], "storage")
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	// Generate some traffic first so the counters exist.
	doRequest(router, http.MethodPut, "/api/v1/keys/m", `{"value":"1"}`)
	doRequest(router, http.MethodGet, "/api/v1/stats", "")

	w := doRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "lsm_memtable_entries")
}

func TestRouterRejectsUnknownRoutes(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/keys/x", `{"value":"1"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

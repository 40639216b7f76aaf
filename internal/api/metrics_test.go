package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tierkv/tierkv/internal/storage"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		metrics.MetricsMiddleware(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	}
	w := httptest.NewRecorder()
	metrics.MetricsMiddleware(failing).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/keys/x", nil))

	okCount := testutil.ToFloat64(metrics.requestTotal.WithLabelValues(http.MethodGet, "/api/v1/stats", "200"))
	assert.Equal(t, 3.0, okCount)

	errCount := testutil.ToFloat64(metrics.requestErrors.WithLabelValues(http.MethodGet, "/api/v1/keys/x", "404"))
	assert.Equal(t, 1.0, errCount)
}

func TestUpdateEngineStats(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.UpdateEngineStats(storage.Stats{
		MemtableEntries: 5,
		TotalEntries:    12,
		Flushes:         3,
		Cascades:        1,
		Levels: []storage.LevelStats{
			{Entries: 4, Capacity: 4},
			{Entries: 8, Capacity: 8},
		},
	})

	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.memtableEntries))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.levelCount))
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.entriesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.flushesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cascadesTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.levelEntries.WithLabelValues("0")))
	assert.Equal(t, 8.0, testutil.ToFloat64(metrics.levelEntries.WithLabelValues("1")))

	// A shallower snapshot clears gauges for levels that no longer exist.
	metrics.UpdateEngineStats(storage.Stats{
		Levels: []storage.LevelStats{{Entries: 2, Capacity: 4}},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.levelEntries.WithLabelValues("0")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.levelEntries.WithLabelValues("1")))
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tierkv/tierkv/internal/storage"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Request metrics
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestErrors   *prometheus.CounterVec

	// Engine metrics
	memtableEntries prometheus.Gauge
	levelCount      prometheus.Gauge
	levelEntries    *prometheus.GaugeVec
	entriesTotal    prometheus.Gauge
	flushesTotal    prometheus.Gauge
	cascadesTotal   prometheus.Gauge
}

// NewMetrics creates a metrics instance registered on reg. Passing nil
// registers on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_request_errors_total",
				Help: "Total number of HTTP requests answered with an error status",
			},
			[]string{"method", "path", "status"},
		),

		memtableEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsm_memtable_entries",
				Help: "Number of entries buffered in the memtable",
			},
		),
		levelCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsm_levels",
				Help: "Number of levels allocated so far",
			},
		),
		levelEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lsm_level_entries",
				Help: "Number of entries held per level",
			},
			[]string{"level"},
		),
		entriesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsm_entries_total",
				Help: "Total number of entries across all levels",
			},
		),
		flushesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsm_flushes_total",
				Help: "Number of memtable flushes performed",
			},
		),
		cascadesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsm_cascades_total",
				Help: "Number of level merges that spilled into a deeper level",
			},
		),
	}
}

// MetricsMiddleware records Prometheus metrics for every request
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(wrw.statusCode)
		path := routePath(r)

		m.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		m.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		if wrw.statusCode >= 400 {
			m.requestErrors.WithLabelValues(r.Method, path, status).Inc()
		}
	})
}

// routePath labels requests by route template so keys do not explode
// the label cardinality.
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

// UpdateEngineStats publishes an engine snapshot to the gauges
func (m *Metrics) UpdateEngineStats(stats storage.Stats) {
	m.memtableEntries.Set(float64(stats.MemtableEntries))
	m.levelCount.Set(float64(len(stats.Levels)))
	m.entriesTotal.Set(float64(stats.TotalEntries))
	m.flushesTotal.Set(float64(stats.Flushes))
	m.cascadesTotal.Set(float64(stats.Cascades))

	m.levelEntries.Reset()
	for i, lvl := range stats.Levels {
		m.levelEntries.WithLabelValues(strconv.Itoa(i)).Set(float64(lvl.Entries))
	}
}

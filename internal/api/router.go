package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tierkv/tierkv/internal/shared"
)

// RouterConfig carries the optional pieces wired into the router.
type RouterConfig struct {
	Logger   *shared.Logger
	Metrics  *Metrics
	Tracer   *Tracer
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures the HTTP router
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = shared.DefaultLogger
	}

	// Recovery wraps everything else so a panicking handler still
	// produces a JSON error.
	router.Use(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
	)
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.MetricsMiddleware)
	}
	if cfg.Tracer != nil {
		router.Use(cfg.Tracer.TracingMiddleware)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HealthCheckHandler).Methods(http.MethodGet)
	api.HandleFunc("/stats", handler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/keys/{key}", handler.GetValue).Methods(http.MethodGet)
	api.HandleFunc("/keys/{key}", handler.SetValue).Methods(http.MethodPut)
	api.HandleFunc("/keys/{key}", handler.DeleteValue).Methods(http.MethodDelete)

	if cfg.Gatherer != nil {
		router.Path("/metrics").Handler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return router
}

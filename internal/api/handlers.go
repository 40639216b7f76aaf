package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tierkv/tierkv/internal/kverrors"
	"github.com/tierkv/tierkv/internal/shared"
	"github.com/tierkv/tierkv/internal/storage"
)

// Storage is the slice of the storage engine the API consumes.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Stats() storage.Stats
}

// Handler handles HTTP requests for the key-value store
type Handler struct {
	store   Storage
	metrics *Metrics
	logger  *shared.Logger
	health  *HealthManager
}

// NewHandler creates a new API handler. metrics may be nil when the
// Prometheus endpoint is disabled.
func NewHandler(store Storage, metrics *Metrics, logger *shared.Logger) *Handler {
	if logger == nil {
		logger = shared.DefaultLogger
	}
	health := NewHealthManager()
	health.RegisterChecker("storage", NewStorageHealthChecker(store))
	return &Handler{
		store:   store,
		metrics: metrics,
		logger:  logger,
		health:  health,
	}
}

// GetValue handles GET requests for retrieving values
func (h *Handler) GetValue(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		handleError(w, kverrors.New(kverrors.TypeInvalidInput, "key is required", nil))
		return
	}

	value, err := h.store.Get(key)
	if err != nil {
		var notFound *storage.ErrKeyNotFound
		if errors.As(err, &notFound) {
			handleError(w, kverrors.New(kverrors.TypeNotFound, fmt.Sprintf("key %q not found", key), err))
			return
		}
		h.logger.Error("get %q failed: %v", key, err)
		handleError(w, kverrors.New(kverrors.TypeStorage, "get failed", err))
		return
	}

	writeJSON(w, map[string]interface{}{
		"key":   key,
		"value": string(value),
	}, http.StatusOK)
}

// SetValue handles PUT requests for setting values
func (h *Handler) SetValue(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		handleError(w, kverrors.New(kverrors.TypeInvalidInput, "key is required", nil))
		return
	}

	var request struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		handleError(w, kverrors.New(kverrors.TypeInvalidInput, "invalid request body", err))
		return
	}

	if err := h.store.Set(key, []byte(request.Value)); err != nil {
		h.logger.Error("set %q failed: %v", key, err)
		handleError(w, kverrors.New(kverrors.TypeStorage, "set failed", err))
		return
	}

	writeJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// DeleteValue handles DELETE requests for removing values. Deleting a
// key that does not exist succeeds; the tombstone is written either way.
func (h *Handler) DeleteValue(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		handleError(w, kverrors.New(kverrors.TypeInvalidInput, "key is required", nil))
		return
	}

	if err := h.store.Delete(key); err != nil {
		h.logger.Error("delete %q failed: %v", key, err)
		handleError(w, kverrors.New(kverrors.TypeStorage, "delete failed", err))
		return
	}

	writeJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// GetStats handles GET requests for engine statistics
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.store.Stats()
	if h.metrics != nil {
		h.metrics.UpdateEngineStats(stats)
	}
	writeJSON(w, stats, http.StatusOK)
}

// HealthCheckHandler handles health check requests
func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	h.health.HealthCheckHandler(w, r)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

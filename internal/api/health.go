package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/tierkv/tierkv/internal/storage"
)

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// HealthChecker defines the interface for health checks
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthManager manages health checks
type HealthManager struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	status   map[string]HealthStatus
}

// NewHealthManager creates a new health manager
func NewHealthManager() *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		status:   make(map[string]HealthStatus),
	}
}

// RegisterChecker registers a health checker
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.checkers[name] = checker
}

// RunHealthChecks runs all registered health checks
func (hm *HealthManager) RunHealthChecks(ctx context.Context) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	for name, checker := range hm.checkers {
		hm.status[name] = checker.Check(ctx)
	}
}

// GetStatus returns the current health status
func (hm *HealthManager) GetStatus() map[string]HealthStatus {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	status := make(map[string]HealthStatus)
	for k, v := range hm.status {
		status[k] = v
	}
	return status
}

const healthProbeKey = "__health_check__"

// StorageHealthChecker checks storage health
type StorageHealthChecker struct {
	store Storage
}

// NewStorageHealthChecker creates a new storage health checker
func NewStorageHealthChecker(store Storage) *StorageHealthChecker {
	return &StorageHealthChecker{store: store}
}

// Check implements HealthChecker. A missing probe key means the engine
// answered, so only other errors count as unhealthy.
func (c *StorageHealthChecker) Check(ctx context.Context) HealthStatus {
	start := time.Now()
	_, err := c.store.Get(healthProbeKey)
	duration := time.Since(start)

	var notFound *storage.ErrKeyNotFound
	if err != nil && !errors.As(err, &notFound) {
		return HealthStatus{
			Status:    "error",
			Message:   "storage probe failed",
			Timestamp: time.Now(),
			Details: map[string]interface{}{
				"error":    err.Error(),
				"duration": duration.String(),
			},
		}
	}

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"duration": duration.String(),
		},
	}
}

// HealthCheckHandler handles health check requests
func (hm *HealthManager) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hm.RunHealthChecks(ctx)
	status := hm.GetStatus()

	overallStatus := "ok"
	for _, s := range status {
		if s.Status != "ok" {
			overallStatus = "error"
			break
		}
	}

	response := map[string]interface{}{
		"status":     overallStatus,
		"timestamp":  time.Now(),
		"components": status,
	}

	w.Header().Set("Content-Type", "application/json")
	if overallStatus == "error" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

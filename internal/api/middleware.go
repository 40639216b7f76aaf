package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tierkv/tierkv/internal/kverrors"
	"github.com/tierkv/tierkv/internal/shared"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// handleError writes an error response with the status its kind maps to
func handleError(w http.ResponseWriter, err error) {
	var statusCode int
	var errType string

	switch {
	case kverrors.IsNotFound(err):
		statusCode = http.StatusNotFound
		errType = string(kverrors.TypeNotFound)
	case kverrors.IsInvalidInput(err):
		statusCode = http.StatusBadRequest
		errType = string(kverrors.TypeInvalidInput)
	case kverrors.IsStorage(err):
		statusCode = http.StatusInternalServerError
		errType = string(kverrors.TypeStorage)
	default:
		statusCode = http.StatusInternalServerError
		errType = string(kverrors.TypeInternal)
	}

	response := ErrorResponse{}
	response.Error.Type = errType
	response.Error.Message = err.Error()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// RecoveryMiddleware recovers panics, logs them and answers with a JSON error
func RecoveryMiddleware(logger *shared.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := kverrors.FromPanic(rec)
					logger.Error("panic serving %s %s: %v", r.Method, r.URL.Path, err)
					handleError(w, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs request details
func LoggingMiddleware(logger *shared.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			logger.Info("%s %s %d %s", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		})
	}
}

// responseWriter is a custom response writer that captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

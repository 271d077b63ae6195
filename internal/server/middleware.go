package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"samovar/internal/dto"
	apperrors "samovar/internal/errors"
	"samovar/internal/infrastructure/metrics"
)

// RequireCronSecret guards the mutating sweep endpoints. A missing or
// mismatched bearer secret is rejected before any work happens; an
// unconfigured secret is a deployment defect and reads as a 500.
func RequireCronSecret(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				err := apperrors.NewInternalError("CRON_SECRET not configured", nil)
				logger.Error("cron secret not configured", zap.Error(err))
				writeError(w, http.StatusInternalServerError, err)
				return
			}

			expected := "Bearer " + secret
			header := r.Header.Get("Authorization")
			if subtle.ConstantTimeCompare([]byte(header), []byte(expected)) != 1 {
				err := apperrors.NewUnauthorizedError("Unauthorized")
				logger.Warn("unauthorized sweep request", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps the notification stream working behind the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Instrument records request counts and latency per route pattern.
func Instrument(m *metrics.ServerMetrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			// Label with the route pattern, not the raw path: paths
			// carry entity ids and would mint unbounded label values.
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			handler := r.Method + " " + route
			elapsed := float64(time.Since(start).Milliseconds())
			m.Requests.WithLabelValues(handler, strconv.Itoa(recorder.status)).Inc()
			m.LatencyMS.WithLabelValues(handler).Observe(elapsed)

			logger.Debug("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Float64("durationMs", elapsed))
		})
	}
}

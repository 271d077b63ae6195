package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"samovar/internal/dto"
	"samovar/internal/infrastructure/metrics"
)

func protectedHandler(secret string, called *bool) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
	return RequireCronSecret(secret, zap.NewNop())(next)
}

func TestRequireCronSecret_ValidSecret(t *testing.T) {
	called := false
	handler := protectedHandler("s3cret", &called)

	req := httptest.NewRequest(http.MethodPost, "/orders/auto-transition", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireCronSecret_MissingHeader(t *testing.T) {
	called := false
	handler := protectedHandler("s3cret", &called)

	req := httptest.NewRequest(http.MethodPost, "/orders/auto-transition", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Unauthorized", resp.Error)
}

func TestRequireCronSecret_WrongSecret(t *testing.T) {
	called := false
	handler := protectedHandler("s3cret", &called)

	req := httptest.NewRequest(http.MethodPost, "/orders/cleanup", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireCronSecret_MissingBearerPrefix(t *testing.T) {
	called := false
	handler := protectedHandler("s3cret", &called)

	req := httptest.NewRequest(http.MethodPost, "/orders/cleanup", nil)
	req.Header.Set("Authorization", "s3cret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireCronSecret_UnconfiguredSecret(t *testing.T) {
	called := false
	handler := protectedHandler("", &called)

	req := httptest.NewRequest(http.MethodPost, "/orders/auto-transition", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "CRON_SECRET not configured", resp.Error)
}

func TestInstrument_LabelsByRoutePattern(t *testing.T) {
	m := metrics.NewServerMetricsWith(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Instrument(m, zap.NewNop()))
	r.Get("/orders/{orderID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Distinct order ids collapse into one metric series keyed on the
	// route pattern, keeping label cardinality bounded.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/o%d", i), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, promtestutil.CollectAndCount(m.Requests))
	series := m.Requests.WithLabelValues("GET /orders/{orderID}", "200")
	assert.Equal(t, float64(3), promtestutil.ToFloat64(series))
}

func TestInstrument_FallsBackToPathOutsideRouter(t *testing.T) {
	m := metrics.NewServerMetricsWith(prometheus.NewRegistry())

	handler := Instrument(m, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	series := m.Requests.WithLabelValues("GET /healthz", "204")
	assert.Equal(t, float64(1), promtestutil.ToFloat64(series))
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"samovar/internal/dto"
)

// SweepMetrics tracks the lifecycle sweep: orders promoted, orders
// soft-deleted, per-order failures, and the latest per-status counts.
type SweepMetrics struct {
	Transitioned prometheus.Counter
	Cleaned      prometheus.Counter
	Failures     *prometheus.CounterVec
	StatusOrders *prometheus.GaugeVec
}

func NewSweepMetrics() *SweepMetrics {
	return NewSweepMetricsWith(prometheus.DefaultRegisterer)
}

func NewSweepMetricsWith(reg prometheus.Registerer) *SweepMetrics {
	transitioned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "samovar",
		Subsystem: "sweep",
		Name:      "orders_transitioned_total",
		Help:      "Pending orders automatically promoted to completed.",
	})
	cleaned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "samovar",
		Subsystem: "sweep",
		Name:      "orders_cleaned_total",
		Help:      "Orders soft-deleted past their scheduled deletion.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "samovar",
		Subsystem: "sweep",
		Name:      "order_failures_total",
		Help:      "Per-order persistence failures during a sweep scan.",
	}, []string{"scan"})
	statusOrders := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "samovar",
		Subsystem: "orders",
		Name:      "by_status",
		Help:      "Current order counts per status.",
	}, []string{"status"})

	reg.MustRegister(transitioned, cleaned, failures, statusOrders)
	return &SweepMetrics{
		Transitioned: transitioned,
		Cleaned:      cleaned,
		Failures:     failures,
		StatusOrders: statusOrders,
	}
}

// RecordStatistics refreshes the per-status gauges from a sweep
// snapshot.
func (m *SweepMetrics) RecordStatistics(stats dto.OrderStatistics) {
	m.StatusOrders.WithLabelValues("pending").Set(float64(stats.PendingCount))
	m.StatusOrders.WithLabelValues("confirmed").Set(float64(stats.ConfirmedCount))
	m.StatusOrders.WithLabelValues("preparing").Set(float64(stats.PreparingCount))
	m.StatusOrders.WithLabelValues("ready").Set(float64(stats.ReadyCount))
	m.StatusOrders.WithLabelValues("completed").Set(float64(stats.CompletedCount))
	m.StatusOrders.WithLabelValues("cancelled").Set(float64(stats.CancelledCount))
	m.StatusOrders.WithLabelValues("deleted").Set(float64(stats.DeletedCount))
}

// ServerMetrics tracks HTTP traffic.
type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics() *ServerMetrics {
	return NewServerMetricsWith(prometheus.DefaultRegisterer)
}

func NewServerMetricsWith(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "samovar",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "samovar",
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

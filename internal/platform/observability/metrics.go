package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	// HTTPRequestsTotal counts served requests by method, route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgcaption",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled, labeled by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "imgcaption",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving HTTP requests.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"method", "path"})

	// RelayUpstreamTotal counts forwarded calls by upstream status ("error" when no response).
	RelayUpstreamTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgcaption",
		Subsystem: "relay",
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream generation calls, labeled by upstream status.",
	}, []string{"status"})

	RelayUpstreamDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "imgcaption",
		Subsystem: "relay",
		Name:      "upstream_duration_seconds",
		Help:      "Latency of upstream generation calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
	})

	RelayErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgcaption",
		Subsystem: "relay",
		Name:      "errors_total",
		Help:      "Relay failures converted to 500 responses, labeled by error kind.",
	}, []string{"kind"})
)

// RegisterMetrics registers collectors with the default Prometheus registry.
// Safe to call multiple times.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			RelayUpstreamTotal,
			RelayUpstreamDurationSeconds,
			RelayErrorsTotal,
		)
	})
}

// MetricsHandler 暴露 Prometheus 抓取端点
func MetricsHandler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

// ObserveUpstream 记录一次上游调用；status 为 0 表示没有拿到响应
func ObserveUpstream(status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RelayUpstreamTotal.WithLabelValues(label).Inc()
	RelayUpstreamDurationSeconds.Observe(elapsed.Seconds())
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reliefline",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Elevation service metrics
	ElevationBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "elevation",
		Name:      "batches_total",
		Help:      "Total batches requested from the elevation service",
	})

	ElevationBatchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "elevation",
		Name:      "batch_errors_total",
		Help:      "Total elevation batch requests that failed",
	})

	ElevationPointsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "elevation",
		Name:      "points_fetched_total",
		Help:      "Total coordinates sent to the elevation service",
	})

	ElevationBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reliefline",
		Subsystem: "elevation",
		Name:      "batch_duration_seconds",
		Help:      "Duration of elevation batch requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// Sampling pipeline metrics
	SamplingSessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "sampling",
		Name:      "sessions_started_total",
		Help:      "Total sampling sessions started",
	})

	SamplingSessionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "sampling",
		Name:      "sessions_failed_total",
		Help:      "Total sampling sessions terminated by an elevation failure",
	})

	SnapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reliefline",
		Subsystem: "sampling",
		Name:      "snapshots_published_total",
		Help:      "Total profile snapshots published to subscribers",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "reliefline",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

package middleware

import (
	"bytes"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Tagging operations partitioned by operation and outcome
	tagOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tag_operations_total",
			Help: "Total number of tagging operations processed",
		},
		[]string{"operation", "outcome"},
	)
)

// RecordTagOperation counts one tagging operation. Operation is the flow
// method name ("tag", "untag", ...), outcome is "success" or "failure".
func RecordTagOperation(operation, outcome string) {
	tagOperationsTotal.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// MetricsHandler serves all registered metrics in the Prometheus text
// exposition format.
func MetricsHandler() fiber.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return func(c fiber.Ctx) error {
		families, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("failed to gather metrics")
		}

		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, format)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("failed to encode metrics")
			}
		}

		c.Set(fiber.HeaderContentType, string(format))
		return c.Send(buf.Bytes())
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/strata-go/strata"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *strata.Context) bool
	// Registerer receives the collectors (default: prometheus.DefaultRegisterer)
	Registerer prometheus.Registerer
	// Namespace prefixes all metric names (default: "strata")
	Namespace string
	// PathLabel maps request paths to metric-safe label values; supply one
	// to avoid cardinality explosion on dynamic paths (default: identity)
	PathLabel func(path string) string
}

// Metrics creates a Prometheus metrics middleware with default
// configuration, registering its collectors on the default registerer.
func Metrics() strata.Middleware {
	return MetricsWithConfig(MetricsConfig{})
}

// MetricsWithConfig creates a Prometheus metrics middleware with custom
// configuration. It tracks request totals and latency by method, path, and
// status, plus an in-flight gauge.
func MetricsWithConfig(cfg MetricsConfig) strata.Middleware {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "strata"
	}
	if cfg.PathLabel == nil {
		cfg.PathLabel = func(path string) string { return path }
	}

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "path"})

	requestsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})

	cfg.Registerer.MustRegister(requestsTotal, requestDuration, requestsInFlight)

	return func(ctx *strata.Context, next strata.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		method := ctx.Method()
		path := cfg.PathLabel(ctx.Path())

		requestsInFlight.Inc()
		start := time.Now()

		err := next()

		requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		requestsInFlight.Dec()

		status := ctx.Status()
		if err != nil {
			status = errorStatusLabel(err)
		}
		requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()

		return err
	}
}

// errorStatusLabel resolves the status a failed request will be answered
// with, defaulting to 500.
func errorStatusLabel(err error) int {
	var httpErr *strata.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}

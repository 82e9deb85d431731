// Package metrics exposes Prometheus instrumentation for the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds Prometheus metrics collectors for HTTP requests
type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// Options configures Prometheus metrics collection
type Options struct {
	// DurationBuckets defines histogram buckets for request duration (in seconds)
	DurationBuckets []float64

	// Namespace is the Prometheus namespace for metrics
	Namespace string

	// Subsystem is the Prometheus subsystem for metrics
	Subsystem string
}

// DefaultOptions returns sensible defaults for most applications
func DefaultOptions() Options {
	return Options{
		DurationBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		Namespace:       "http",
		Subsystem:       "",
	}
}

// Enable registers Prometheus middleware tracking all HTTP requests and
// exposes the metrics endpoint at metricsPath.
//
// Metrics tracked:
//   - http_requests_total{method,path,status} - Total number of HTTP requests
//   - http_request_duration_seconds{method,path} - HTTP request latency distribution
//   - http_requests_in_flight - Current number of HTTP requests being served
//
// Example:
//
//	r := router.New(nil)
//	metrics.Enable(r, "/metrics")
func Enable(router chi.Router, metricsPath string) *Collector {
	return EnableWithOptions(router, metricsPath, DefaultOptions())
}

// EnableWithOptions enables Prometheus metrics with custom options.
func EnableWithOptions(router chi.Router, metricsPath string, opts Options) *Collector {
	return enableWithRegisterer(router, metricsPath, opts, prometheus.DefaultRegisterer)
}

// enableWithRegisterer allows injection of a custom registerer for testing
func enableWithRegisterer(
	router chi.Router,
	metricsPath string,
	opts Options,
	registerer prometheus.Registerer,
) *Collector {
	collector := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency distribution",
				Buckets:   opts.DurationBuckets,
			},
			[]string{"method", "path"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being served",
			},
		),
	}

	registerer.MustRegister(collector.requestsTotal, collector.requestDuration, collector.requestsInFlight)

	router.Use(collector.middleware(metricsPath))

	var handlerOpts promhttp.HandlerOpts
	if gatherer, ok := registerer.(prometheus.Gatherer); ok {
		router.Method("GET", metricsPath, promhttp.HandlerFor(gatherer, handlerOpts))
	} else {
		router.Method("GET", metricsPath, promhttp.Handler())
	}

	return collector
}

// middleware instruments every request except the metrics endpoint itself.
func (c *Collector) middleware(metricsPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == metricsPath {
				next.ServeHTTP(w, r)
				return
			}

			c.requestsInFlight.Inc()
			defer c.requestsInFlight.Dec()

			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			// Prefer the chi route pattern to keep label cardinality bounded
			path := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			c.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.status)).Inc()
			c.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

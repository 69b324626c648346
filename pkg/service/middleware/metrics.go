package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harriteja/dict-go-sdk/pkg/service"
)

// MetricsConfig represents configuration for the metrics middleware
type MetricsConfig struct {
	// Registry is the Prometheus registry to use
	Registry prometheus.Registerer
	// Subsystem is the metrics subsystem name
	Subsystem string
	// ExcludePaths are paths to exclude from metrics
	ExcludePaths []string
}

type httpMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

func newHTTPMetrics(subsystem string) *httpMetrics {
	return &httpMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      "requests_in_flight",
				Help:      "Current number of requests being served",
			},
		),
	}
}

func (m *httpMetrics) register(registry prometheus.Registerer) {
	for _, collector := range []prometheus.Collector{
		m.requestsTotal, m.requestDuration, m.requestsInFlight,
	} {
		err := registry.Register(collector)
		if _, ok := err.(prometheus.AlreadyRegisteredError); err != nil && !ok {
			// Duplicate registration is tolerated; anything else is a
			// programming error surfaced at startup.
			panic(err)
		}
	}
}

// MetricsMiddleware creates a new metrics middleware
func MetricsMiddleware(config MetricsConfig) func(http.Handler) http.Handler {
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if config.Subsystem == "" {
		config.Subsystem = "http"
	}
	excluded := make(map[string]bool)
	for _, path := range config.ExcludePaths {
		excluded[path] = true
	}

	m := newHTTPMetrics(config.Subsystem)
	m.register(config.Registry)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excluded[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			m.requestsInFlight.Inc()
			defer m.requestsInFlight.Dec()

			ww := service.NewResponseWriter(w)
			next.ServeHTTP(ww, r)

			m.requestsTotal.WithLabelValues(
				r.Method, r.URL.Path, strconv.Itoa(ww.Status())).Inc()
			m.requestDuration.WithLabelValues(
				r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
		})
	}
}

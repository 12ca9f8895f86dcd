package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes
const (
	OutcomeToken    = "token"    // Token extracted from the response
	OutcomeFallback = "fallback" // Raw response returned with a warning
	OutcomeError    = "error"    // Transport failure
)

// Recorder records login and HTTP facade metrics.
type Recorder interface {
	RecordLogin(outcome string, duration time.Duration)
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	IncHTTPInFlight()
	DecHTTPInFlight()
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Login Metrics
	LoginsTotal   *prometheus.CounterVec
	LoginDuration *prometheus.HistogramVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics registered on the default registry
// If enabled=false, returns NoopMetrics
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates all metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cqd_logins_total",
				Help: "Total number of CQD login attempts",
			},
			[]string{"outcome"}, // token, fallback, error
		),
		LoginDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cqd_login_duration_seconds",
				Help:    "Round trip time of CQD login requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
	}
}

// RecordLogin records one login call and its round trip time
func (m *Metrics) RecordLogin(outcome string, duration time.Duration) {
	m.LoginsTotal.WithLabelValues(outcome).Inc()
	m.LoginDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncHTTPInFlight() { m.HTTPRequestsInFlight.Inc() }
func (m *Metrics) DecHTTPInFlight() { m.HTTPRequestsInFlight.Dec() }

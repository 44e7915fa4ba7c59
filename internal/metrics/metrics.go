// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeDuplicate = "duplicate"
)

// Metrics groups the application collectors and the registry they live in.
// All Record methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	AuthEvents       *prometheus.CounterVec
	JobApplications  *prometheus.CounterVec
	RateLimitedTotal *prometheus.CounterVec
}

// New creates a dedicated registry with Go and process collectors and
// registers the application collectors on it.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobboard_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobboard_auth_events_total",
				Help: "Total number of authentication events by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		JobApplications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobboard_job_applications_total",
				Help: "Total number of job applications by outcome",
			},
			[]string{"outcome"},
		),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobboard_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"category"},
		),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.AuthEvents,
		m.JobApplications,
		m.RateLimitedTotal,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordHTTPRequest counts a finished request and observes its duration.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthEvent counts an authentication event.
func (m *Metrics) RecordAuthEvent(event string, success bool) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(event, outcome(success)).Inc()
}

// RecordApplication counts a job application attempt. Use the Outcome* constants.
func (m *Metrics) RecordApplication(result string) {
	if m == nil {
		return
	}
	m.JobApplications.WithLabelValues(result).Inc()
}

// RecordRateLimited counts a request rejected by the limiter for category.
func (m *Metrics) RecordRateLimited(category string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(category).Inc()
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

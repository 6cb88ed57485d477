// Package metrics holds the Prometheus collectors for the bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry         *prometheus.Registry
	Resolutions      *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	Commands         *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navermap_resolutions_total",
			Help: "Place resolutions by strategy and terminal state",
		}, []string{"strategy", "state"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navermap_upstream_requests_total",
			Help: "Upstream API calls by service and result",
		}, []string{"service", "result"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "navermap_upstream_request_duration_seconds",
			Help:    "Upstream API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navermap_commands_total",
			Help: "Chat commands handled by surface",
		}, []string{"surface"}),
	}
	reg.MustRegister(m.Resolutions, m.UpstreamRequests, m.UpstreamLatency, m.Commands)
	return m
}

// ObserveResolution counts one finished resolution.
func (m *Metrics) ObserveResolution(strategy, state string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(strategy, state).Inc()
}

// ObserveUpstream counts one upstream call and records its latency.
func (m *Metrics) ObserveUpstream(service, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(service, result).Inc()
	m.UpstreamLatency.WithLabelValues(service).Observe(elapsed.Seconds())
}

// IncrementCommands counts one matched chat command.
func (m *Metrics) IncrementCommands(surface string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(surface).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

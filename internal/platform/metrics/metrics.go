// Package metrics holds the Prometheus instruments of the backend.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "frchq"

// Metrics records HTTP traffic and remittance lifecycle outcomes.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	rejections      *prometheus.CounterVec

	registerOnce sync.Once
}

// New creates a Metrics bound to its own registry, including the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.register()
	return m
}

func (m *Metrics) register() {
	m.registerOnce.Do(func() {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		factory := promauto.With(m.registry)

		m.requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"})

		m.requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		m.transitions = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remittance_transitions_total",
			Help:      "Total number of applied remittance slip transitions",
		}, []string{"action", "from", "to"})

		m.rejections = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remittance_rejections_total",
			Help:      "Total number of rejected remittance slip actions by reason",
		}, []string{"action", "reason"})
	})
}

// ObserveRequest implements middleware.RequestObserver.
func (m *Metrics) ObserveRequest(method, route, status string, latency time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// RecordTransition implements services.TransitionRecorder.
func (m *Metrics) RecordTransition(action string, from, to domain.RemittanceStatus) {
	m.transitions.WithLabelValues(action, string(from), string(to)).Inc()
}

// RecordRejection implements services.TransitionRecorder.
func (m *Metrics) RecordRejection(action string, reason string) {
	m.rejections.WithLabelValues(action, reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

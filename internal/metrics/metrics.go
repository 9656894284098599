// Package metrics exposes Prometheus collectors for listing assembly and the
// HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "listing"

// Metrics holds the collectors registered for one process.
type Metrics struct {
	registry *prometheus.Registry

	assemblies      *prometheus.CounterVec
	needsEmitted    prometheus.Counter
	slotLookup      *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
}

// New creates the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		assemblies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assemblies_total",
			Help:      "Listing assemblies by outcome.",
		}, []string{"outcome"}),
		needsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "needs_emitted_total",
			Help:      "Listing needs emitted by successful assemblies.",
		}),
		slotLookup: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slot_lookup_duration_seconds",
			Help:      "Latency of batched booking slot registry lookups.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "HTTP requests currently being served.",
		}),
	}

	registry.MustRegister(
		m.assemblies,
		m.needsEmitted,
		m.slotLookup,
		m.requestsTotal,
		m.requestDuration,
		m.activeRequests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAssembly counts one assembly and, on success, the needs it emitted.
func (m *Metrics) ObserveAssembly(outcome string, needs int) {
	m.assemblies.WithLabelValues(outcome).Inc()
	if needs > 0 {
		m.needsEmitted.Add(float64(needs))
	}
}

// ObserveSlotLookup records the latency of one registry call.
func (m *Metrics) ObserveSlotLookup(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.slotLookup.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) RequestStarted() func() {
	m.activeRequests.Inc()
	return m.activeRequests.Dec
}

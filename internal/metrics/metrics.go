// Package metrics publishes Prometheus metrics for cache, upstream, and HTTP
// activity. A nil *Recorder is valid and records nothing, so wiring metrics
// stays optional for tests and one-shot CLI commands.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CacheLookupOutcome captures the result of a cache lookup.
type CacheLookupOutcome string

const (
	// CacheLookupHit indicates the key was already present.
	CacheLookupHit CacheLookupOutcome = "hit"
	// CacheLookupMiss indicates the value had to be fetched upstream.
	CacheLookupMiss CacheLookupOutcome = "miss"
	// CacheLookupError indicates the lookup failed.
	CacheLookupError CacheLookupOutcome = "error"
)

// Recorder publishes Prometheus metrics for kinocache activity.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	cacheLookups     *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created so multiple recorders can coexist without
// conflicting with the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kinocache",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by outcome.",
	}, []string{"outcome"})

	upstreamRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kinocache",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Upstream catalog requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kinocache",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for upstream catalog requests.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kinocache",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Served HTTP requests by route and status code.",
	}, []string{"route", "status_code"})

	reg.MustRegister(cacheLookups, upstreamRequests, upstreamLatency, httpRequests)

	return &Recorder{
		gatherer:         reg,
		handler:          promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		cacheLookups:     cacheLookups,
		upstreamRequests: upstreamRequests,
		upstreamLatency:  upstreamLatency,
		httpRequests:     httpRequests,
	}
}

// Handler returns the exposition endpoint for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return r.handler
}

// Gatherer exposes the underlying registry for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return nil
	}
	return r.gatherer
}

// RecordCacheLookup counts one cache lookup with the given outcome.
func (r *Recorder) RecordCacheLookup(outcome CacheLookupOutcome) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(string(outcome)).Inc()
}

// RecordUpstreamRequest counts one upstream request and its latency.
func (r *Recorder) RecordUpstreamRequest(endpoint string, err error, latency time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	r.upstreamLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordHTTPRequest counts one served HTTP request.
func (r *Recorder) RecordHTTPRequest(route string, statusCode int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

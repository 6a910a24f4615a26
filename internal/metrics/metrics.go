// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "academia"

// Enrollment outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRemoved  = "removed"
	OutcomeRejected = "rejected"
)

// Metrics groups every collector on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	Enrollments    *prometheus.CounterVec
	LectureEvents  *prometheus.CounterVec
	OrphansRemoved prometheus.Counter
	ReconcileRuns  prometheus.Counter
}

// New registers all collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Enrollments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollments_total",
			Help:      "Lecture enrollment operations by outcome.",
		}, []string{"outcome"}),
		LectureEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lecture_events_published_total",
			Help:      "Lecture events published by type.",
		}, []string{"type"}),
		OrphansRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_attended_subjects_removed_total",
			Help:      "Attended subjects deleted because no lecture references them.",
		}),
		ReconcileRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Completed enrollment reconciliation passes.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
// Compression is left to the HTTP middleware.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		Registry:           m.Registry,
		DisableCompression: true,
	})
}

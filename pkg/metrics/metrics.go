// Package metrics exposes conversion and review counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stigbee"

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder owns its registry so tests and multiple servers do not collide on
// the global default one. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	documents      *prometheus.CounterVec
	normalizeTime  *prometheus.HistogramVec
	findings       *prometheus.CounterVec
	checklists     *prometheus.CounterVec
	annotations    *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_normalized_total",
			Help:      "Uploaded documents by source format and outcome.",
		}, []string{"format", "result"}),
		normalizeTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "normalize_duration_seconds",
			Help:      "Time spent parsing and normalizing a document.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_normalized_total",
			Help:      "Findings read from uploaded documents by severity.",
		}, []string{"severity"}),
		checklists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checklists_exported_total",
			Help:      "CKL documents produced by destination and outcome.",
		}, []string{"sink", "result"}),
		annotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_total",
			Help:      "Reviewer annotations saved, by resulting status.",
		}, []string{"status"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Assessments currently held in the session store.",
		}),
	}

	registry.MustRegister(r.documents, r.normalizeTime, r.findings, r.checklists, r.annotations, r.activeSessions)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) DocumentNormalized(format string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	r.documents.WithLabelValues(format, result(err)).Inc()
	r.normalizeTime.WithLabelValues(format).Observe(elapsed.Seconds())
}

func (r *Recorder) FindingsNormalized(severity string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.findings.WithLabelValues(severity).Add(float64(n))
}

func (r *Recorder) ChecklistExported(sink string, err error) {
	if r == nil {
		return
	}
	r.checklists.WithLabelValues(sink, result(err)).Inc()
}

func (r *Recorder) AnnotationSaved(status string) {
	if r == nil {
		return
	}
	r.annotations.WithLabelValues(status).Inc()
}

func (r *Recorder) SessionOpened() {
	if r == nil {
		return
	}
	r.activeSessions.Inc()
}

func (r *Recorder) SessionClosed() {
	if r == nil {
		return
	}
	r.activeSessions.Dec()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scorecard/internal/score"
	"scorecard/internal/scorecard"
)

const namespace = "scorecard"

// Error kinds used as the `kind` label and in HTTP error bodies.
const (
	KindEmptyIndex      = "empty_index"
	KindDegenerateRange = "degenerate_range"
	KindInternal        = "internal"
)

// Recorder collects evaluation metrics on its own registry.
type Recorder struct {
	registry       *prometheus.Registry
	evaluations    *prometheus.CounterVec
	hardRejections *prometheus.CounterVec
	errors         *prometheus.CounterVec
	normalized     prometheus.Histogram
}

// NewRecorder creates a recorder with process and Go runtime collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed evaluations by decision.",
		}, []string{"decision"}),
		hardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hard_rejections_total",
			Help:      "Evaluations ended by a rejection rule, by rule.",
		}, []string{"rule"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_errors_total",
			Help:      "Evaluations that failed, by kind.",
		}, []string{"kind"}),
		normalized: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "normalized_score",
			Help:      "Normalized score of evaluations that reached the threshold check.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.evaluations,
		r.hardRejections,
		r.errors,
		r.normalized,
	)
	return r
}

// Observe records a completed evaluation.
// Hard rejections are labelled by the configured rule, never by client input.
func (r *Recorder) Observe(res *score.Result) {
	r.evaluations.WithLabelValues(string(res.Decision)).Inc()
	if res.HardRejected() {
		r.hardRejections.WithLabelValues(res.Rule.String()).Inc()
		return
	}
	r.normalized.Observe(res.NormalizedScore)
}

// Fail records a failed evaluation and returns its kind.
func (r *Recorder) Fail(err error) string {
	kind := ErrorKind(err)
	r.errors.WithLabelValues(kind).Inc()
	return kind
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ErrorKind classifies an evaluation error.
func ErrorKind(err error) string {
	var empty *scorecard.EmptyIndexError
	var degenerate *score.DegenerateRangeError
	switch {
	case errors.As(err, &empty):
		return KindEmptyIndex
	case errors.As(err, &degenerate):
		return KindDegenerateRange
	default:
		return KindInternal
	}
}

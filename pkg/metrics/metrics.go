// Package metrics exposes Prometheus counters for renders, exports,
// submissions and CEP lookups.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-crmforms/pkg/cep"
)

const namespace = "crmforms"

// Recorder owns a registry and the counters registered on it.
type Recorder struct {
	registry    *prometheus.Registry
	renders     *prometheus.CounterVec
	exports     *prometheus.CounterVec
	submissions *prometheus.CounterVec
	cepLookups  *prometheus.CounterVec
}

// New registers the counters, plus the Go and process collectors, on a
// fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Forms rendered, by renderer.",
		}, []string{"renderer"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exports generated, by kind.",
		}, []string{"kind"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions handled, by outcome.",
		}, []string{"outcome"}),
		cepLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cep_lookups_total",
			Help:      "CEP lookups, by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(
		r.renders,
		r.exports,
		r.submissions,
		r.cepLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Render(renderer string) {
	if r != nil {
		r.renders.WithLabelValues(renderer).Inc()
	}
}

func (r *Recorder) Export(kind string) {
	if r != nil {
		r.exports.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) Submission(outcome string) {
	if r != nil {
		r.submissions.WithLabelValues(outcome).Inc()
	}
}

// CEPLookup matches cep.WithObserver.
func (r *Recorder) CEPLookup(outcome cep.Outcome) {
	if r != nil {
		r.cepLookups.WithLabelValues(string(outcome)).Inc()
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

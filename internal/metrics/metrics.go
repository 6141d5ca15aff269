// Package metrics exposes Prometheus instruments for lineup generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records lineup metrics. A nil Recorder is a no-op.
type Recorder struct {
	registry       *prometheus.Registry
	generated      prometheus.Counter
	unfilled       *prometheus.CounterVec
	benchOverrides prometheus.Counter
	duration       prometheus.Histogram
	httpRequests   *prometheus.CounterVec
}

// NewRecorder builds a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldday_lineups_generated_total",
			Help: "Lineups generated.",
		}),
		unfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldday_unfilled_slots_total",
			Help: "Position slots left empty across generated innings.",
		}, []string{"position"}),
		benchOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldday_bench_overrides_total",
			Help: "Innings where a benched pitcher was brought back to pitch.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldday_lineup_generation_seconds",
			Help:    "Time spent generating a lineup.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldday_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(
		r.generated,
		r.unfilled,
		r.benchOverrides,
		r.duration,
		r.httpRequests,
		collectors.NewGoCollector(),
	)
	return r
}

// LineupGenerated records one generation run.
func (r *Recorder) LineupGenerated(elapsed time.Duration, unfilledByPosition map[string]int, benchOverrides int) {
	if r == nil {
		return
	}
	r.generated.Inc()
	r.duration.Observe(elapsed.Seconds())
	for pos, n := range unfilledByPosition {
		if n > 0 {
			r.unfilled.WithLabelValues(pos).Add(float64(n))
		}
	}
	if benchOverrides > 0 {
		r.benchOverrides.Add(float64(benchOverrides))
	}
}

// InstrumentHandler counts requests served by next.
func (r *Recorder) InstrumentHandler(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return promhttp.InstrumentHandlerCounter(r.httpRequests, next)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and embedding.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

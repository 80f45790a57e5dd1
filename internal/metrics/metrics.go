// Package metrics exposes Prometheus collectors for solves, cache lookups and
// beam traces. Collectors live on a private registry so tests and embedded
// uses never collide with the global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Solve outcomes.
const (
	OutcomeReachable   = "reachable"
	OutcomeUnreachable = "unreachable"
	OutcomeError       = "error"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics groups the crucible collectors and their registry.
type Metrics struct {
	registry    *prometheus.Registry
	solves      *prometheus.CounterVec
	duration    prometheus.Histogram
	popped      prometheus.Histogram
	cacheLookup *prometheus.CounterVec
	beamTraces  prometheus.Counter
}

// New registers every collector, plus the Go and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crucible_solves_total",
				Help: "Shortest-path queries by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crucible_solve_duration_seconds",
			Help:    "Wall time of a shortest-path query, table build included.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		popped: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crucible_states_popped",
			Help:    "States finalized by one search.",
			Buckets: prometheus.ExponentialBuckets(1, 8, 9),
		}),
		cacheLookup: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crucible_cache_lookups_total",
				Help: "Result cache lookups by result.",
			},
			[]string{"result"},
		),
		beamTraces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crucible_beam_traces_total",
			Help: "Beam layouts traced.",
		}),
	}
	m.registry.MustRegister(
		m.solves, m.duration, m.popped, m.cacheLookup, m.beamTraces,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSolve records one finished query.
func (m *Metrics) ObserveSolve(outcome string, elapsed time.Duration, pops int) {
	m.solves.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome != OutcomeError {
		m.popped.Observe(float64(pops))
	}
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.cacheLookup.WithLabelValues(CacheHit).Inc()
		return
	}
	m.cacheLookup.WithLabelValues(CacheMiss).Inc()
}

// ObserveBeam counts one traced layout.
func (m *Metrics) ObserveBeam() { m.beamTraces.Inc() }

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Package metrics exposes Prometheus collectors for the search orchestrator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Adapter call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	// OutcomeCircuitOpen marks a call refused by the provider's breaker.
	OutcomeCircuitOpen = "circuit_open"
)

type SearchMetrics struct {
	registry *prometheus.Registry

	adapterCalls      *prometheus.CounterVec
	adapterDuration   *prometheus.HistogramVec
	searchesTotal     *prometheus.CounterVec
	resultsReturned   *prometheus.HistogramVec
	duplicatesRemoved prometheus.Counter
}

func NewSearchMetrics(service string) *SearchMetrics {
	registry := prometheus.NewRegistry()

	adapterCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profile_search",
			Subsystem: "adapter",
			Name:      "calls_total",
			Help:      "Adapter calls by adapter and outcome.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"adapter", "outcome"},
	)
	adapterDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profile_search",
			Subsystem: "adapter",
			Name:      "call_duration_seconds",
			Help:      "Adapter call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"adapter"},
	)
	searchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profile_search",
			Subsystem: "orchestrator",
			Name:      "searches_total",
			Help:      "Completed orchestration calls by profile.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"profile"},
	)
	resultsReturned := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profile_search",
			Subsystem: "orchestrator",
			Name:      "results_returned",
			Help:      "Number of results returned per orchestration call.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"profile"},
	)
	duplicatesRemoved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "profile_search",
			Subsystem: "orchestrator",
			Name:      "duplicates_removed_total",
			Help:      "Results dropped by URL deduplication.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(adapterCalls, adapterDuration, searchesTotal, resultsReturned, duplicatesRemoved)

	return &SearchMetrics{
		registry:          registry,
		adapterCalls:      adapterCalls,
		adapterDuration:   adapterDuration,
		searchesTotal:     searchesTotal,
		resultsReturned:   resultsReturned,
		duplicatesRemoved: duplicatesRemoved,
	}
}

func (m *SearchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry so callers can add collectors.
func (m *SearchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAdapterCall records one adapter call. A nil receiver is a no-op.
func (m *SearchMetrics) ObserveAdapterCall(adapter, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.adapterCalls.WithLabelValues(adapter, outcome).Inc()
	m.adapterDuration.WithLabelValues(adapter).Observe(duration.Seconds())
}

// ObserveSearch records one completed orchestration call. A nil receiver is a no-op.
func (m *SearchMetrics) ObserveSearch(profile string, results, duplicates int) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(profile).Inc()
	m.resultsReturned.WithLabelValues(profile).Observe(float64(results))
	if duplicates > 0 {
		m.duplicatesRemoved.Add(float64(duplicates))
	}
}

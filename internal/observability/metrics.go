package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "home_valuation"

// Metrics holds the Prometheus counters, histograms, and gauges for the valuation service.
type Metrics struct {
	EstimatesTotal   *prometheus.CounterVec // labels: outcome={success,invalid,geocode_failed}
	EstimateDuration prometheus.Histogram
	EstimateValue    prometheus.Histogram

	// Upstream provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome={success,error,empty}
	ProviderDuration *prometheus.HistogramVec // labels: provider
	CacheLookups     *prometheus.CounterVec   // labels: cache={geocode,property,school}, layer={memory,redis}, result={hit,miss,negative}

	EventsPublished prometheus.Counter
	EventErrors     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EstimatesTotal,
		m.EstimateDuration,
		m.EstimateValue,
		m.ProviderRequests,
		m.ProviderDuration,
		m.CacheLookups,
		m.EventsPublished,
		m.EventErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EstimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_total",
			Help:      "Estimate requests by outcome.",
		}, []string{"outcome"}),
		EstimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_duration_seconds",
			Help:      "End-to-end estimate latency including provider lookups.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EstimateValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_value_dollars",
			Help:      "Distribution of point estimates.",
			Buckets:   []float64{100e3, 250e3, 400e3, 550e3, 700e3, 850e3, 1e6, 1.5e6, 2e6, 3e6, 5e6},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Upstream data provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Upstream data provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Provider cache lookups by cache, layer, and result.",
		}, []string{"cache", "layer", "result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_events_published_total",
			Help:      "Estimate events written to Kafka.",
		}),
		EventErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_event_errors_total",
			Help:      "Estimate events that failed to publish.",
		}),
	}
}

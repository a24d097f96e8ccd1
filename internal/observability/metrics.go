package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// geocoding service.
type Metrics struct {
	// Resolver metrics.
	Lookups          *prometheus.CounterVec // labels: outcome={resolved,not_found,rate_limited,error}
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}
	CacheEntries     prometheus.Gauge
	ProviderRequests *prometheus.CounterVec // labels: outcome={success,empty,error}
	ProviderDuration prometheus.Histogram

	// Order-enrichment worker metrics.
	OrdersConsumed prometheus.Counter
	OrdersProduced prometheus.Counter
	EnrichErrors   prometheus.Counter
	WorkerRunning  prometheus.Gauge
	BatchSize      prometheus.Histogram
	BatchDuration  prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kebabish_geocode",
			Name:      "lookups_total",
			Help:      "Address lookups by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kebabish_geocode",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kebabish_geocode",
			Name:      "cache_entries",
			Help:      "Current number of entries in the result cache.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kebabish_geocode",
			Name:      "provider_requests_total",
			Help:      "Nominatim API requests by outcome.",
		}, []string{"outcome"}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kebabish_geocode",
			Name:      "provider_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		OrdersConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kebabish_geocode",
			Name:      "orders_consumed_total",
			Help:      "Total orders read from the source topic.",
		}),
		OrdersProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kebabish_geocode",
			Name:      "orders_produced_total",
			Help:      "Total enriched orders written to the sink topic.",
		}),
		EnrichErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kebabish_geocode",
			Name:      "enrich_errors_total",
			Help:      "Total order enrichment failures.",
		}),
		WorkerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kebabish_geocode",
			Name:      "worker_running",
			Help:      "1 when the order-enrichment worker is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kebabish_geocode",
			Name:      "batch_size",
			Help:      "Number of orders per batch read from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kebabish_geocode",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete batch consume-enrich-produce cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.Lookups,
		m.CacheLookups,
		m.CacheEntries,
		m.ProviderRequests,
		m.ProviderDuration,
		m.OrdersConsumed,
		m.OrdersProduced,
		m.EnrichErrors,
		m.WorkerRunning,
		m.BatchSize,
		m.BatchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Lookups:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kebabish_geocode", Name: "lookups_total"}, []string{"outcome"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kebabish_geocode", Name: "cache_lookups_total"}, []string{"result"}),
		CacheEntries:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "kebabish_geocode", Name: "cache_entries"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "kebabish_geocode", Name: "provider_requests_total"}, []string{"outcome"}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "kebabish_geocode", Name: "provider_duration_seconds"}),
		OrdersConsumed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "kebabish_geocode", Name: "orders_consumed_total"}),
		OrdersProduced:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "kebabish_geocode", Name: "orders_produced_total"}),
		EnrichErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "kebabish_geocode", Name: "enrich_errors_total"}),
		WorkerRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "kebabish_geocode", Name: "worker_running"}),
		BatchSize:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "kebabish_geocode", Name: "batch_size"}),
		BatchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "kebabish_geocode", Name: "batch_duration_seconds"}),
	}
}

// Outcome label values for Lookups.
const (
	OutcomeResolved    = "resolved"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded by StorefrontMetrics.
const (
	OutcomeApplied   = "applied"
	OutcomeStale     = "stale"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// StorefrontMetrics records how catalog fetches issued by the storefront end.
type StorefrontMetrics struct {
	fetchDuration *prometheus.HistogramVec
	fetches       *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_catalog_fetch_duration_seconds",
		Help:    "Duration of catalog API fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_fetches",
		Help: "Catalog fetches by outcome.",
	}, []string{"endpoint", "outcome"})
	reg.MustRegister(fetchDuration, fetches)
	return &StorefrontMetrics{fetchDuration: fetchDuration, fetches: fetches}
}

// ObserveFetch records one fetch against the catalog API.
func (s *StorefrontMetrics) ObserveFetch(endpoint, outcome string, elapsed time.Duration) {
	if s == nil || s.fetchDuration == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	s.fetchDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	s.fetches.WithLabelValues(endpoint, normalizeLabel(outcome)).Inc()
}

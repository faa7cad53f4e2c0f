package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records catalog query behaviour on the API side.
type CatalogMetrics struct {
	queryDuration *prometheus.HistogramVec
	queryFailure  *prometheus.CounterVec
	rateLimited   prometheus.Counter
	emptyResults  prometheus.Counter
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of catalog queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	queryFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_query_failure",
		Help: "Failed catalog queries.",
	}, []string{"operation"})
	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_rate_limited",
		Help: "Catalog requests rejected by the rate limiter.",
	})
	emptyResults := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_empty_results",
		Help: "Product listings that matched no products.",
	})
	reg.MustRegister(queryDuration, queryFailure, rateLimited, emptyResults)
	return &CatalogMetrics{
		queryDuration: queryDuration,
		queryFailure:  queryFailure,
		rateLimited:   rateLimited,
		emptyResults:  emptyResults,
	}
}

// ObserveQuery records the duration of a catalog operation and counts it as
// failed when err is non-nil.
func (c *CatalogMetrics) ObserveQuery(operation string, elapsed time.Duration, err error) {
	if c == nil || c.queryDuration == nil {
		return
	}
	operation = normalizeLabel(operation)
	c.queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		c.queryFailure.WithLabelValues(operation).Inc()
	}
}

// IncRateLimited counts a rejected request.
func (c *CatalogMetrics) IncRateLimited() {
	if c == nil || c.rateLimited == nil {
		return
	}
	c.rateLimited.Inc()
}

// IncEmptyResult counts a listing with zero matches.
func (c *CatalogMetrics) IncEmptyResult() {
	if c == nil || c.emptyResults == nil {
		return
	}
	c.emptyResults.Inc()
}

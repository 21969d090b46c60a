package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_api_requests_total",
			Help: "Total number of requests sent to the applications backend",
		},
		[]string{"operation", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "application_api_request_duration_seconds",
			Help:    "Duration of requests to the applications backend in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_cache_invalidations_total",
			Help: "Invalidation tags applied after successful mutations",
		},
		[]string{"tag_kind"},
	)

	BulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_bulk_items_total",
			Help: "Per-item outcomes of bulk actions",
		},
		[]string{"action", "outcome"},
	)

	BulkInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_bulk_in_flight",
			Help: "Bulk item requests currently in flight",
		},
		[]string{"action"},
	)
)

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

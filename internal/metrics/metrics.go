package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mediareview"

var (
	ReviewsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_submitted_total",
			Help:      "Review submissions by outcome (ok, validation, not_found, storage)",
		},
		[]string{"result"},
	)

	ReviewCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_cache_requests_total",
			Help:      "Full review listing cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	WriteLockWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_lock_wait_seconds",
			Help:      "Time spent waiting for the storage write gate",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Subscriber notifications by result (sent, failed, dropped)",
		},
		[]string{"result"},
	)

	BulkBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bulk_batch_size",
			Help:      "Number of reviews per bulk submission",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// RecordReview counts one submission outcome.
func RecordReview(result string) {
	ReviewsSubmitted.WithLabelValues(result).Inc()
}

// RecordCacheHit counts a review listing served from the cache.
func RecordCacheHit() {
	ReviewCacheRequests.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a review listing that fell through to storage.
func RecordCacheMiss() {
	ReviewCacheRequests.WithLabelValues("miss").Inc()
}

// ObserveWriteLockWait records how long a writer queued for the gate.
func ObserveWriteLockWait(d time.Duration) {
	WriteLockWait.Observe(d.Seconds())
}

// RecordNotification counts one notification outcome.
func RecordNotification(result string) {
	Notifications.WithLabelValues(result).Inc()
}

// ObserveBulkBatch records the size of a bulk submission.
func ObserveBulkBatch(n int) {
	BulkBatchSize.Observe(float64(n))
}

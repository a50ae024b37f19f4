package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	fetchLatency     *prometheus.HistogramVec
	fetchErrors      *prometheus.CounterVec
	cacheEvents      *prometheus.CounterVec
	activeUsers      *prometheus.GaugeVec
	snapshotDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandpulse_upstream_fetch_duration_seconds",
				Help:    "Duration of upstream analytics fetches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"horizon"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandpulse_upstream_fetch_errors_total",
				Help: "Total number of failed upstream fetches",
			},
			[]string{"horizon"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandpulse_cache_events_total",
				Help: "Metric cache lookups by outcome",
			},
			[]string{"horizon", "outcome"},
		),
		activeUsers: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "brandpulse_active_users",
				Help: "Last served active users value per brand and horizon",
			},
			[]string{"brand", "horizon"},
		),
		snapshotDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "brandpulse_snapshot_duration_seconds",
				Help:    "Duration of full snapshot aggregation",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordFetchLatency records upstream fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(horizon string, seconds float64) {
	r.fetchLatency.WithLabelValues(horizon).Observe(seconds)
}

// RecordFetchError records a failed upstream fetch.
func (r *Recorder) RecordFetchError(horizon string) {
	r.fetchErrors.WithLabelValues(horizon).Inc()
}

// RecordCacheHit records a fresh cache hit.
func (r *Recorder) RecordCacheHit(horizon string) {
	r.cacheEvents.WithLabelValues(horizon, "hit").Inc()
}

// RecordCacheMiss records a miss or stale entry triggering a refresh.
func (r *Recorder) RecordCacheMiss(horizon string) {
	r.cacheEvents.WithLabelValues(horizon, "miss").Inc()
}

// RecordActiveUsers records the last served value for a brand and horizon.
func (r *Recorder) RecordActiveUsers(brand, horizon string, value float64) {
	r.activeUsers.WithLabelValues(brand, horizon).Set(value)
}

// RecordSnapshotDuration records full snapshot duration in seconds.
func (r *Recorder) RecordSnapshotDuration(seconds float64) {
	r.snapshotDuration.Observe(seconds)
}

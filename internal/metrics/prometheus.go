package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"saju/internal/domain/chart"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// Computation metrics
	ChartsComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saju_charts_computed_total",
			Help: "Total number of chart computations",
		},
		[]string{"status"}, // status: success|invalid|error
	)

	ComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "saju_compute_duration_seconds",
			Help:    "Chart computation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
	)

	// Decision metrics
	YongshinDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saju_yongshin_decisions_total",
			Help: "Useful-element decisions by winning pool and confidence",
		},
		[]string{"decision_type", "confidence"},
	)

	StrengthLevels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saju_strength_levels_total",
			Help: "Day-master strength classifications",
		},
		[]string{"level"},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saju_report_cache_lookups_total",
			Help: "Report cache lookups by result",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	// Batch metrics
	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "saju_batch_size",
			Help:    "Number of births per batch computation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		},
	)
)

// Collectors lists every metric owned by this package
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ChartsComputed,
		ComputeDuration,
		YongshinDecisions,
		StrengthLevels,
		CacheLookups,
		BatchSize,
	}
}

// Init registers all metrics with Prometheus
func Init() {
	for _, c := range Collectors() {
		prometheus.MustRegister(c)
	}
}

// RecordComputation records one chart computation
func RecordComputation(duration time.Duration, err error) {
	ChartsComputed.WithLabelValues(statusOf(err)).Inc()
	ComputeDuration.Observe(duration.Seconds())
}

// RecordReport records the classification outcomes of a finished report
func RecordReport(r *chart.Report) {
	YongshinDecisions.WithLabelValues(r.Yongshin.DecisionType.String(), r.Yongshin.Confidence.String()).Inc()
	StrengthLevels.WithLabelValues(r.Strength.Level.String()).Inc()
}

// RecordCacheLookup records a report cache lookup result
func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

// RecordBatch records the size of a batch computation
func RecordBatch(size int) {
	BatchSize.Observe(float64(size))
}

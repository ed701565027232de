package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"saju/pkg/errors"
)

// TermCache is anything that memoizes solar-term years
type TermCache interface {
	CachedYears() int
}

// CalendarCollector exposes calendar memo state at scrape time
type CalendarCollector struct {
	cache TermCache

	// Descriptors
	cachedYears *prometheus.Desc
}

// NewCalendarCollector creates a collector over a term cache
func NewCalendarCollector(cache TermCache) *CalendarCollector {
	return &CalendarCollector{
		cache: cache,
		cachedYears: prometheus.NewDesc(
			"saju_solar_term_years_cached",
			"Number of civil years whose solar-term instants are memoized",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CalendarCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cachedYears
}

// Collect implements prometheus.Collector
func (c *CalendarCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.cachedYears,
		prometheus.GaugeValue,
		float64(c.cache.CachedYears()),
	)
}

// RegisterCalendarCollector registers the calendar collector
func RegisterCalendarCollector(collector *CalendarCollector) {
	prometheus.MustRegister(collector)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

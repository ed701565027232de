package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saju/internal/domain/chart"
	"saju/pkg/errors"
)

func TestRecordComputation_Status(t *testing.T) {
	before := map[string]float64{
		"success": testutil.ToFloat64(ChartsComputed.WithLabelValues("success")),
		"invalid": testutil.ToFloat64(ChartsComputed.WithLabelValues("invalid")),
		"error":   testutil.ToFloat64(ChartsComputed.WithLabelValues("error")),
	}

	RecordComputation(time.Millisecond, nil)
	RecordComputation(time.Millisecond, errors.NewValidationError("year", "out of range", 1800))
	RecordComputation(time.Millisecond, errors.Wrap(errors.ErrNoBoundary, "luck"))
	RecordComputation(time.Millisecond, nil)

	assert.Equal(t, before["success"]+2, testutil.ToFloat64(ChartsComputed.WithLabelValues("success")))
	assert.Equal(t, before["invalid"]+1, testutil.ToFloat64(ChartsComputed.WithLabelValues("invalid")))
	assert.Equal(t, before["error"]+1, testutil.ToFloat64(ChartsComputed.WithLabelValues("error")))
}

func TestRecordReport(t *testing.T) {
	r := &chart.Report{
		Strength: chart.DayMasterStrength{Level: chart.StrengthWeak},
		Yongshin: chart.Yongshin{DecisionType: chart.DecisionClimate, Confidence: chart.ConfidenceLow},
	}
	decisions := YongshinDecisions.WithLabelValues("climate", "low")
	levels := StrengthLevels.WithLabelValues("weak")
	d0, l0 := testutil.ToFloat64(decisions), testutil.ToFloat64(levels)

	RecordReport(r)

	assert.Equal(t, d0+1, testutil.ToFloat64(decisions))
	assert.Equal(t, l0+1, testutil.ToFloat64(levels))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheLookups.WithLabelValues(CacheHit))
	misses := testutil.ToFloat64(CacheLookups.WithLabelValues(CacheMiss))

	RecordCacheLookup(CacheHit)
	RecordCacheLookup(CacheMiss)
	RecordCacheLookup(CacheMiss)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookups.WithLabelValues(CacheHit)))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheLookups.WithLabelValues(CacheMiss)))
}

func TestCollectorsRegisterCleanly(t *testing.T) {
	reg := prometheus.NewRegistry()
	for _, c := range Collectors() {
		require.NoError(t, reg.Register(c))
	}
	RecordBatch(3)

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

type fixedCache int

func (f fixedCache) CachedYears() int { return int(f) }

func TestCalendarCollector(t *testing.T) {
	c := NewCalendarCollector(fixedCache(42))

	expected := `
# HELP saju_solar_term_years_cached Number of civil years whose solar-term instants are memoized
# TYPE saju_solar_term_years_cached gauge
saju_solar_term_years_cached 42
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
	assert.Equal(t, 1, testutil.CollectAndCount(c))
}

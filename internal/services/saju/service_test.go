package saju

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/metrics"
	"saju/internal/testsupport"
	"saju/pkg/errors"
	"saju/pkg/logger"
)

// MockReportCache is a mock implementation of chart.ReportCache
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, id uuid.UUID) (*chart.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chart.Report), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, report *chart.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func newService(cache chart.ReportCache, concurrency int) *Service {
	return NewService(newEngine(), cache, concurrency, logger.Nop())
}

func TestCompute_CacheMissStoresReport(t *testing.T) {
	ctx := context.Background()
	b := sampleBirth()
	id := newEngine().ReportID(b)

	cache := new(MockReportCache)
	cache.On("Get", ctx, id).Return(nil, errors.ErrCacheMiss).Once()
	cache.On("Set", ctx, mock.MatchedBy(func(r *chart.Report) bool { return r.ID == id })).Return(nil).Once()

	misses := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheMiss))

	report, err := newService(cache, 1).Compute(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, id, report.ID)
	assert.Equal(t, "庚辰", report.Chart.Day.Pillar.String())

	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheMiss)))
	cache.AssertExpectations(t)
}

func TestCompute_CacheHitSkipsEngine(t *testing.T) {
	ctx := context.Background()
	b := sampleBirth()
	id := newEngine().ReportID(b)
	cached := &chart.Report{ID: id, Strength: chart.DayMasterStrength{Total: 42}}

	cache := new(MockReportCache)
	cache.On("Get", ctx, id).Return(cached, nil).Once()

	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheHit))

	report, err := newService(cache, 1).Compute(ctx, b)
	require.NoError(t, err)
	assert.Same(t, cached, report)
	assert.Equal(t, 42, report.Strength.Total)
	assert.Equal(t, b, report.Input)

	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(metrics.CacheHit)))
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestCompute_CacheFailuresDoNotFail(t *testing.T) {
	ctx := context.Background()

	cache := new(MockReportCache)
	cache.On("Get", ctx, mock.Anything).Return(nil, errors.New("connection refused")).Once()
	cache.On("Set", ctx, mock.Anything).Return(errors.New("connection refused")).Once()

	report, err := newService(cache, 1).Compute(ctx, sampleBirth())
	require.NoError(t, err)
	assert.NotNil(t, report)
	cache.AssertExpectations(t)
}

func TestCompute_InvalidInputNeverTouchesCache(t *testing.T) {
	cache := new(MockReportCache)
	b := sampleBirth()
	b.Month = 0

	_, err := newService(cache, 1).Compute(context.Background(), b)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCompute_WithoutCache(t *testing.T) {
	report, err := newService(nil, 1).Compute(context.Background(), sampleBirth())
	require.NoError(t, err)
	assert.Equal(t, newEngine().ReportID(sampleBirth()), report.ID)
}

func TestCompute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(nil, 1).Compute(ctx, sampleBirth())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeBatch_KeepsOrderAndCollectsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	births := testsupport.BirthSequence(time.Date(1990, time.May, 1, 12, 0, 0, 0, time.UTC), 24*time.Hour, 12)
	births[4].Gender = ""
	births[9].Month = 13

	svc := newService(nil, 3)
	reports, err := svc.ComputeBatch(context.Background(), births)
	require.Error(t, err)
	require.Len(t, reports, len(births))

	var multi *errors.MultiError
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi.Errors, 2)
	assert.Contains(t, multi.Errors[0].Error(), "birth 4")
	assert.Contains(t, multi.Errors[1].Error(), "birth 9")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	for i, r := range reports {
		if i == 4 || i == 9 {
			assert.Nil(t, r)
			continue
		}
		require.NotNil(t, r, "birth %d", i)
		assert.Equal(t, births[i], r.Input)
		assert.Equal(t, svc.engine.ReportID(births[i]), r.ID)
	}

	// consecutive days walk the 60-cycle one step at a time
	assert.Equal(t, reports[0].Chart.Day.Pillar.Next(1), reports[1].Chart.Day.Pillar)
}

func TestComputeBatch_AllSucceed(t *testing.T) {
	defer goleak.VerifyNone(t)

	births := []chart.Birth{sampleBirth(), sampleBirth()}
	births[1].Gender = chart.Female

	reports, err := newService(nil, 0).ComputeBatch(context.Background(), births)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, calendar.Forward, reports[0].Luck.Direction)
	assert.Equal(t, calendar.Backward, reports[1].Luck.Direction)
}

func TestComputeBatch_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	births := []chart.Birth{sampleBirth(), sampleBirth(), sampleBirth()}
	_, err := newService(nil, 2).ComputeBatch(ctx, births)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeBatch_Empty(t *testing.T) {
	reports, err := newService(nil, 2).ComputeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

package timecorrect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saju/internal/domain/chart"
	"saju/pkg/errors"
)

func birth(y, m, d, h, min int) chart.Birth {
	return chart.Birth{
		Year: y, Month: m, Day: d, Hour: h, Minute: min,
		TimeKnown: true,
		Gender:    chart.Male,
	}
}

func TestNormalize_NoCorrections(t *testing.T) {
	n := New(DefaultOptions())

	got, err := n.Normalize(birth(1990, 5, 15, 12, 0))
	require.NoError(t, err)

	assert.True(t, got.TimeKnown)
	assert.Equal(t, got.Civil, got.Effective)
	assert.Empty(t, got.Corrections)
	assert.Equal(t, time.Date(1990, time.May, 15, 12, 0, 0, 0, Zone), got.Effective)
}

func TestNormalize_HistoricalOffset(t *testing.T) {
	n := New(DefaultOptions())

	tests := []struct {
		name    string
		birth   chart.Birth
		shifted bool
	}{
		{"first window start", birth(1908, 4, 1, 0, 0), true},
		{"first window last day", birth(1911, 12, 31, 23, 59), true},
		{"after first window", birth(1912, 1, 1, 0, 0), false},
		{"second window", birth(1958, 1, 10, 8, 0), true},
		{"second window last day", birth(1961, 8, 9, 12, 0), true},
		{"after second window", birth(1961, 8, 10, 0, 0), false},
		{"before second window", birth(1954, 3, 20, 23, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.birth)
			require.NoError(t, err)
			if tt.shifted {
				require.Len(t, got.Corrections, 1)
				assert.Equal(t, CorrectionHistoricalOffset, got.Corrections[0].Name)
				assert.Equal(t, 30*time.Minute, got.Effective.Sub(got.Civil))
			} else {
				assert.Empty(t, got.Corrections)
			}
		})
	}
}

func TestNormalize_DaylightSaving(t *testing.T) {
	n := New(DefaultOptions())

	t.Run("inside window with offset", func(t *testing.T) {
		b := birth(1955, 6, 1, 10, 0)
		b.ApplyDST = true
		got, err := n.Normalize(b)
		require.NoError(t, err)

		require.Len(t, got.Corrections, 2)
		assert.Equal(t, CorrectionHistoricalOffset, got.Corrections[0].Name)
		assert.Equal(t, CorrectionDST, got.Corrections[1].Name)
		assert.Equal(t, "DST 1955", got.Corrections[1].Period)
		assert.Equal(t, time.Date(1955, time.June, 1, 9, 30, 0, 0, Zone), got.Effective)
		assert.InDelta(t, -30.0, got.TotalMinutes(), 1e-9)
	})

	t.Run("flag off", func(t *testing.T) {
		got, err := n.Normalize(birth(1987, 7, 1, 10, 0))
		require.NoError(t, err)
		assert.Empty(t, got.Corrections)
	})

	t.Run("window opens at 02:00", func(t *testing.T) {
		before := birth(1987, 5, 10, 1, 59)
		before.ApplyDST = true
		got, err := n.Normalize(before)
		require.NoError(t, err)
		assert.Empty(t, got.Corrections)

		start := birth(1987, 5, 10, 2, 0)
		start.ApplyDST = true
		got, err = n.Normalize(start)
		require.NoError(t, err)
		require.Len(t, got.Corrections, 1)
		assert.Equal(t, time.Date(1987, time.May, 10, 1, 0, 0, 0, Zone), got.Effective)
	})

	t.Run("window edges use the civil clock", func(t *testing.T) {
		tests := []struct {
			name      string
			birth     chart.Birth
			effective time.Time
			dst       bool
		}{
			{"before the window opens", birth(1955, 5, 4, 23, 40), time.Date(1955, time.May, 5, 0, 10, 0, 0, Zone), false},
			{"last minutes inside the window", birth(1955, 9, 8, 23, 45), time.Date(1955, time.September, 8, 23, 15, 0, 0, Zone), true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tt.birth.ApplyDST = true
				got, err := n.Normalize(tt.birth)
				require.NoError(t, err)

				assert.Equal(t, tt.effective, got.Effective)
				if tt.dst {
					require.Len(t, got.Corrections, 2)
					assert.Equal(t, CorrectionDST, got.Corrections[1].Name)
				} else {
					require.Len(t, got.Corrections, 1)
					assert.Equal(t, CorrectionHistoricalOffset, got.Corrections[0].Name)
				}
			})
		}
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		b := birth(1988, 10, 9, 3, 0)
		b.ApplyDST = true
		got, err := n.Normalize(b)
		require.NoError(t, err)
		assert.Empty(t, got.Corrections)
	})
}

func TestNormalize_TrueSolarTime(t *testing.T) {
	n := New(DefaultOptions())

	t.Run("rolls back across the year", func(t *testing.T) {
		b := birth(2000, 1, 1, 0, 10)
		b.UseTrueSolarTime = true
		got, err := n.Normalize(b)
		require.NoError(t, err)

		require.Len(t, got.Corrections, 1)
		assert.InDelta(t, -32.088, got.Corrections[0].Minutes, 1e-9)
		assert.Equal(t, time.Date(1999, time.December, 31, 23, 37, 55, 0, Zone), got.Effective)
	})

	t.Run("birth longitude overrides reference", func(t *testing.T) {
		lon := 135.0
		b := birth(2000, 1, 1, 0, 10)
		b.UseTrueSolarTime = true
		b.Longitude = &lon
		got, err := n.Normalize(b)
		require.NoError(t, err)
		assert.Equal(t, got.Civil, got.Effective)
	})

	t.Run("custom meridian", func(t *testing.T) {
		custom := New(Options{ReferenceLongitude: 129.0, StandardMeridian: 127.5})
		b := birth(2010, 3, 1, 12, 0)
		b.UseTrueSolarTime = true
		got, err := custom.Normalize(b)
		require.NoError(t, err)
		assert.Equal(t, 6*time.Minute, got.Effective.Sub(got.Civil))
	})
}

func TestNormalize_UnknownTime(t *testing.T) {
	n := New(DefaultOptions())

	b := chart.Birth{
		Year: 1955, Month: 6, Day: 1,
		Gender:           chart.Female,
		UseTrueSolarTime: true,
		ApplyDST:         true,
	}
	got, err := n.Normalize(b)
	require.NoError(t, err)

	assert.False(t, got.TimeKnown)
	assert.Empty(t, got.Corrections)
	assert.Equal(t, time.Date(1955, time.June, 1, 12, 0, 0, 0, Zone), got.Effective)
}

func TestNormalize_InvalidInput(t *testing.T) {
	n := New(DefaultOptions())

	b := birth(1990, 2, 30, 24, 0)
	_, err := n.Normalize(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	var multi *errors.MultiError
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.Errors, 2)

	var verr *errors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "day", verr.Field)

	_, err = n.Normalize(birth(1899, 12, 31, 12, 0))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

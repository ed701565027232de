package luck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saju/internal/adapters/solarterm"
	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
	"saju/pkg/errors"
)

// MockBoundaries stubs the boundary search and delegates the rest to the real calendar
type MockBoundaries struct {
	*solarterm.Calendar
	mock.Mock
}

func (m *MockBoundaries) NearestSolarTermBoundary(t time.Time, dir calendar.Direction, window time.Duration) (float64, error) {
	args := m.Called(t, dir, window)
	return args.Get(0).(float64), args.Error(1)
}

func resolve(t *testing.T, cal *solarterm.Calendar, at time.Time) calendar.RawPillars {
	t.Helper()
	raw, err := cal.ResolvePillars(at)
	require.NoError(t, err)
	return raw
}

func TestDirection(t *testing.T) {
	assert.Equal(t, calendar.Forward, Direction(ganji.Gyeong, chart.Male))
	assert.Equal(t, calendar.Backward, Direction(ganji.Gyeong, chart.Female))
	assert.Equal(t, calendar.Backward, Direction(ganji.Sin, chart.Male))
	assert.Equal(t, calendar.Forward, Direction(ganji.Sin, chart.Female))

	// flipping either input flips the direction
	for s := ganji.Gap; s <= ganji.Gye; s++ {
		male := Direction(s, chart.Male)
		assert.NotEqual(t, male, Direction(s, chart.Female), s.String())
		assert.NotEqual(t, male, Direction((s+1)%10, chart.Male), s.String())
	}
}

func TestStartAge(t *testing.T) {
	assert.Equal(t, 1, StartAge(0))
	assert.Equal(t, 1, StartAge(2.9))
	assert.Equal(t, 1, StartAge(3))
	assert.Equal(t, 1, StartAge(5.99))
	assert.Equal(t, 2, StartAge(6))
	assert.Equal(t, 7, StartAge(21.82))
	assert.Equal(t, 10, StartAge(30.5))

	for d := 0.0; d < 40; d += 0.25 {
		assert.GreaterOrEqual(t, StartAge(d), 1)
	}
}

func TestGenerate_ForwardMale1990(t *testing.T) {
	cal := solarterm.New(solarterm.KST)
	at := time.Date(1990, time.May, 15, 12, 0, 0, 0, solarterm.KST)
	birth := chart.Birth{Year: 1990, Month: 5, Day: 15, Hour: 12, TimeKnown: true, Gender: chart.Male}

	cycle, err := New(cal).Generate(birth, at, resolve(t, cal, at))
	require.NoError(t, err)

	assert.Equal(t, calendar.Forward, cycle.Direction)
	assert.InDelta(t, 21.8, cycle.DaysToBoundary, 0.05)
	assert.Equal(t, 7, cycle.StartAge)
	require.Len(t, cycle.Decades, chart.DecadeCount)

	first := cycle.Decades[0]
	assert.Equal(t, "壬午", first.Pillar.Pillar.String())
	assert.Equal(t, 7, first.StartAge)
	assert.Equal(t, 16, first.EndAge)
	assert.Equal(t, 1997, first.StartYear)
	require.Len(t, first.Years, chart.YearsPerDecade)
	assert.Equal(t, "丁丑", first.Years[0].Pillar.Pillar.String())
	assert.Equal(t, 1997, first.Years[0].Year)
	assert.Equal(t, 7, first.Years[0].Age)
	assert.Equal(t, "丙戌", first.Years[9].Pillar.Pillar.String())

	assert.Equal(t, "癸未", cycle.Decades[1].Pillar.Pillar.String())
	assert.Equal(t, "己丑", cycle.Decades[7].Pillar.Pillar.String())
	assert.Equal(t, 77, cycle.Decades[7].StartAge)

	// luck pillars are annotated against the chart's day master 庚
	assert.Equal(t, ganji.TenGodEatingGod, first.Pillar.StemTenGod)
	assert.Equal(t, "甲申", first.Years[7].Pillar.Pillar.String())
	assert.Equal(t, ganji.TenGodIndirectWealth, first.Years[7].Pillar.StemTenGod)
}

func TestGenerate_BackwardFemale1990(t *testing.T) {
	cal := solarterm.New(solarterm.KST)
	at := time.Date(1990, time.May, 15, 12, 0, 0, 0, solarterm.KST)
	birth := chart.Birth{Year: 1990, Month: 5, Day: 15, Hour: 12, TimeKnown: true, Gender: chart.Female}

	cycle, err := New(cal).Generate(birth, at, resolve(t, cal, at))
	require.NoError(t, err)

	assert.Equal(t, calendar.Backward, cycle.Direction)
	assert.InDelta(t, 9.35, cycle.DaysToBoundary, 0.05)
	assert.Equal(t, 3, cycle.StartAge)
	assert.Equal(t, "庚辰", cycle.Decades[0].Pillar.Pillar.String())
	assert.Equal(t, "己卯", cycle.Decades[1].Pillar.Pillar.String())
	assert.Equal(t, 1993, cycle.Decades[0].StartYear)
	assert.Equal(t, "癸酉", cycle.Decades[0].Years[0].Pillar.Pillar.String())
}

func TestGenerate_ContiguousAges(t *testing.T) {
	cal := solarterm.New(solarterm.KST)
	at := time.Date(2024, time.February, 4, 12, 0, 0, 0, solarterm.KST)
	birth := chart.Birth{Year: 2024, Month: 2, Day: 4, Hour: 12, TimeKnown: true, Gender: chart.Female}

	cycle, err := New(cal).Generate(birth, at, resolve(t, cal, at))
	require.NoError(t, err)

	age := cycle.StartAge
	year := birth.Year + cycle.StartAge
	for _, d := range cycle.Decades {
		for _, y := range d.Years {
			assert.Equal(t, age, y.Age)
			assert.Equal(t, year, y.Year)
			assert.Equal(t, ganji.PillarFromIndex(year-1984), y.Pillar.Pillar)
			age++
			year++
		}
	}
	assert.Equal(t, cycle.Decades[len(cycle.Decades)-1].EndAge+1, age)
}

func TestGenerate_WidensWindowOnce(t *testing.T) {
	cal := solarterm.New(solarterm.KST)
	at := time.Date(2100, time.December, 30, 12, 0, 0, 0, solarterm.KST)
	raw := resolve(t, cal, at)
	birth := chart.Birth{Year: 2100, Month: 12, Day: 30, Hour: 12, TimeKnown: true, Gender: chart.Male}
	dir := Direction(raw.Year.Stem, birth.Gender)

	m := &MockBoundaries{Calendar: cal}
	m.On("NearestSolarTermBoundary", at, dir, searchWindow).Return(0.0, errors.ErrNoBoundary).Once()
	m.On("NearestSolarTermBoundary", at, dir, 2*searchWindow).Return(7.5, nil).Once()

	cycle, err := New(m).Generate(birth, at, raw)
	require.NoError(t, err)
	assert.Equal(t, 2, cycle.StartAge)
	m.AssertExpectations(t)
}

func TestGenerate_FailsAfterWidening(t *testing.T) {
	cal := solarterm.New(solarterm.KST)
	at := time.Date(1990, time.May, 15, 12, 0, 0, 0, solarterm.KST)
	raw := resolve(t, cal, at)
	birth := chart.Birth{Year: 1990, Month: 5, Day: 15, Gender: chart.Male}

	m := &MockBoundaries{Calendar: cal}
	m.On("NearestSolarTermBoundary", at, calendar.Forward, mock.AnythingOfType("time.Duration")).Return(0.0, errors.ErrNoBoundary).Twice()

	_, err := New(m).Generate(birth, at, raw)
	assert.ErrorIs(t, err, errors.ErrNoBoundary)
	m.AssertNumberOfCalls(t, "NearestSolarTermBoundary", 2)
}

func TestAnnualPillar(t *testing.T) {
	g := New(solarterm.New(solarterm.KST))

	for _, year := range []int{1900, 1984, 1997, 2024, 2100, 2199} {
		p, err := g.AnnualPillar(year)
		require.NoError(t, err)
		assert.Equal(t, ganji.PillarFromIndex(year-1984), p, "%d", year)
	}

	_, err := g.AnnualPillar(solarterm.MaxYear + 1)
	assert.ErrorIs(t, err, errors.ErrYearOutOfRange)
}

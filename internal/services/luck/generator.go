package luck

import (
	"math"
	"time"

	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
	"saju/internal/services/chartbuilder"
	"saju/pkg/errors"
)

// Boundary search window; widened once by the same amount at calendar edges
const searchWindow = 366 * 24 * time.Hour

// Three days to the boundary count as one year of age
const daysPerYear = 3

// Generator produces the decade (대운) and annual (세운) luck sequence
type Generator struct {
	primitive calendar.Primitive
}

// New creates a luck-cycle generator
func New(primitive calendar.Primitive) *Generator {
	return &Generator{primitive: primitive}
}

// Direction is forward for a yang year stem with a male birth or a yin
// year stem with a female birth, backward otherwise
func Direction(yearStem ganji.Stem, gender chart.Gender) calendar.Direction {
	if (yearStem.Polarity() == ganji.Yang) == (gender == chart.Male) {
		return calendar.Forward
	}
	return calendar.Backward
}

// StartAge converts days to the boundary into the first decade's age, never below 1
func StartAge(days float64) int {
	age := int(math.Floor(days / daysPerYear))
	if age < 1 {
		return 1
	}
	return age
}

// Generate builds the eight decades with ten annual entries each. raw must
// be the pillars after the midnight policy; every luck pillar is annotated
// against them.
func (g *Generator) Generate(birth chart.Birth, effective time.Time, raw calendar.RawPillars) (chart.LuckCycle, error) {
	dir := Direction(raw.Year.Stem, birth.Gender)

	days, err := g.boundaryDays(effective, dir)
	if err != nil {
		return chart.LuckCycle{}, err
	}

	cycle := chart.LuckCycle{
		Direction:      dir,
		StartAge:       StartAge(days),
		DaysToBoundary: days,
		Decades:        make([]chart.DecadeLuck, 0, chart.DecadeCount),
	}

	ref := chartbuilder.ReferenceOf(raw)
	for i := 0; i < chart.DecadeCount; i++ {
		startAge := cycle.StartAge + chart.YearsPerDecade*i
		decade := chart.DecadeLuck{
			Index:     i,
			StartAge:  startAge,
			EndAge:    startAge + chart.YearsPerDecade - 1,
			StartYear: birth.Year + startAge,
			Pillar:    chartbuilder.Annotate(ref, "", raw.Month.Next(dir.Step()*(i+1))),
			Years:     make([]chart.AnnualLuck, 0, chart.YearsPerDecade),
		}

		for j := 0; j < chart.YearsPerDecade; j++ {
			year := decade.StartYear + j
			pillar, err := g.AnnualPillar(year)
			if err != nil {
				return chart.LuckCycle{}, errors.Wrapf(err, "annual pillar for %d", year)
			}
			decade.Years = append(decade.Years, chart.AnnualLuck{
				Year:   year,
				Age:    startAge + j,
				Pillar: chartbuilder.Annotate(ref, "", pillar),
			})
		}

		cycle.Decades = append(cycle.Decades, decade)
	}

	return cycle, nil
}

// AnnualPillar resolves the year pillar at noon of the 立春 date, or at
// the term itself when it falls after noon
func (g *Generator) AnnualPillar(year int) (ganji.Pillar, error) {
	spring, err := g.primitive.StartOfSpring(year)
	if err != nil {
		return ganji.Pillar{}, err
	}

	at := time.Date(spring.Year(), spring.Month(), spring.Day(), 12, 0, 0, 0, spring.Location())
	if spring.After(at) {
		at = spring
	}

	raw, err := g.primitive.ResolvePillars(at)
	if err != nil {
		return ganji.Pillar{}, err
	}
	return raw.Year, nil
}

// boundaryDays searches one window and, on a calendar gap, one more
func (g *Generator) boundaryDays(from time.Time, dir calendar.Direction) (float64, error) {
	days, err := g.primitive.NearestSolarTermBoundary(from, dir, searchWindow)
	if errors.Is(err, errors.ErrNoBoundary) {
		days, err = g.primitive.NearestSolarTermBoundary(from, dir, 2*searchWindow)
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to find solar term boundary")
	}
	return days, nil
}

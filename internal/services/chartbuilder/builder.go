package chartbuilder

import (
	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
)

// Reference holds everything a pillar is annotated against: the day master,
// the year and day branches for the twelve spirits, and the year and day
// pillars whose decades define the void branches.
type Reference struct {
	DayMaster  ganji.Stem
	YearPillar ganji.Pillar
	DayPillar  ganji.Pillar
}

// ReferenceOf derives the annotation reference from raw pillars
func ReferenceOf(raw calendar.RawPillars) Reference {
	return Reference{
		DayMaster:  raw.Day.Stem,
		YearPillar: raw.Year,
		DayPillar:  raw.Day,
	}
}

// Annotate resolves every relation of p to the reference.
// Luck pillars are annotated with an empty position.
func Annotate(ref Reference, pos chart.Position, p ganji.Pillar) chart.AnnotatedPillar {
	hidden := p.Branch.HiddenStems()
	annotated := make([]chart.AnnotatedHiddenStem, len(hidden))
	for i, h := range hidden {
		annotated[i] = chart.AnnotatedHiddenStem{
			HiddenStem: h,
			TenGod:     ganji.StemTenGod(ref.DayMaster, h.Stem),
		}
	}

	return chart.AnnotatedPillar{
		Position:         pos,
		Pillar:           p,
		StemElement:      p.Stem.Element(),
		BranchElement:    p.Branch.Element(),
		StemTenGod:       ganji.StemTenGod(ref.DayMaster, p.Stem),
		BranchTenGod:     ganji.BranchTenGod(ref.DayMaster, p.Branch),
		HiddenStems:      annotated,
		TwelveStage:      ganji.TwelveStageOf(ref.DayMaster, p.Branch),
		SpiritByYear:     ganji.TwelveSpiritOf(ref.YearPillar.Branch, p.Branch),
		SpiritByDay:      ganji.TwelveSpiritOf(ref.DayPillar.Branch, p.Branch),
		VoidByYearDecade: ref.YearPillar.IsVoid(p.Branch),
		VoidByDayDecade:  ref.DayPillar.IsVoid(p.Branch),
	}
}

// Build assembles the annotated chart. With hourKnown false the hour
// pillar is left nil and raw.Hour is ignored.
func Build(raw calendar.RawPillars, hourKnown bool) chart.Chart {
	ref := ReferenceOf(raw)

	c := chart.Chart{
		Year:      Annotate(ref, chart.PositionYear, raw.Year),
		Month:     Annotate(ref, chart.PositionMonth, raw.Month),
		Day:       Annotate(ref, chart.PositionDay, raw.Day),
		DayMaster: ref.DayMaster,
	}
	if hourKnown {
		hour := Annotate(ref, chart.PositionHour, raw.Hour)
		c.Hour = &hour
	}
	return c
}

package chart

import (
	"saju/internal/domain/calendar"
	"saju/internal/domain/ganji"
)

// Number of decades and years per decade in a luck cycle
const (
	DecadeCount    = 8
	YearsPerDecade = 10
)

// AnnualLuck (세운) is the pillar of one calendar year
type AnnualLuck struct {
	Year   int             `json:"year" yaml:"year"`
	Age    int             `json:"age" yaml:"age"`
	Pillar AnnotatedPillar `json:"pillar" yaml:"pillar"`
}

// DecadeLuck (대운) is one ten-year luck period
type DecadeLuck struct {
	Index     int             `json:"index" yaml:"index"`
	StartAge  int             `json:"start_age" yaml:"start_age"`
	EndAge    int             `json:"end_age" yaml:"end_age"`
	StartYear int             `json:"start_year" yaml:"start_year"`
	Pillar    AnnotatedPillar `json:"pillar" yaml:"pillar"`
	Years     []AnnualLuck    `json:"years" yaml:"years"`
}

// LuckCycle is the full decade sequence
type LuckCycle struct {
	Direction      calendar.Direction `json:"direction" yaml:"direction"`
	StartAge       int                `json:"start_age" yaml:"start_age"`
	DaysToBoundary float64            `json:"days_to_boundary" yaml:"days_to_boundary"`
	Decades        []DecadeLuck       `json:"decades" yaml:"decades"`
}

// DecadeAt returns the decade covering age, or nil before the first decade
func (l *LuckCycle) DecadeAt(age int) *DecadeLuck {
	for i := range l.Decades {
		if age >= l.Decades[i].StartAge && age <= l.Decades[i].EndAge {
			return &l.Decades[i]
		}
	}
	return nil
}

// VoidHit is a chart pillar whose branch falls on a void branch
type VoidHit struct {
	Position Position     `json:"position" yaml:"position"`
	Branch   ganji.Branch `json:"branch" yaml:"branch"`
	Released bool         `json:"released" yaml:"released"`
	// Reason names the releasing relation and partner position
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// VoidSet is the void resolution for one reference pillar's decade
type VoidSet struct {
	Reference Position        `json:"reference" yaml:"reference"`
	Decade    ganji.Pillar    `json:"decade" yaml:"decade"`
	Void      [2]ganji.Branch `json:"void" yaml:"void"`
	Hits      []VoidHit       `json:"hits" yaml:"hits"`
}

// VoidBranches (공망) holds the year- and day-decade resolutions
type VoidBranches struct {
	ByYear VoidSet `json:"by_year" yaml:"by_year"`
	ByDay  VoidSet `json:"by_day" yaml:"by_day"`
}

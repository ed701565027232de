package chart

import (
	"saju/internal/domain/ganji"
)

// Position names one of the four chart pillars
type Position string

const (
	PositionYear  Position = "year"
	PositionMonth Position = "month"
	PositionDay   Position = "day"
	PositionHour  Position = "hour"
)

// Positions lists the chart positions in year → hour order
var Positions = [4]Position{PositionYear, PositionMonth, PositionDay, PositionHour}

// Valid checks if position is valid
func (p Position) Valid() bool {
	switch p {
	case PositionYear, PositionMonth, PositionDay, PositionHour:
		return true
	}
	return false
}

// String returns string representation
func (p Position) String() string {
	return string(p)
}

// AnnotatedHiddenStem is a hidden stem with its relation to the day master
type AnnotatedHiddenStem struct {
	ganji.HiddenStem `yaml:",inline"`
	TenGod           ganji.TenGod `json:"ten_god" yaml:"ten_god"`
}

// AnnotatedPillar is a pillar with every relation to the day master resolved.
// Chart pillars and luck pillars share this shape.
type AnnotatedPillar struct {
	Position Position     `json:"position,omitempty" yaml:"position,omitempty"`
	Pillar   ganji.Pillar `json:"pillar" yaml:"pillar"`

	StemElement   ganji.Element `json:"stem_element" yaml:"stem_element"`
	BranchElement ganji.Element `json:"branch_element" yaml:"branch_element"`

	StemTenGod   ganji.TenGod          `json:"stem_ten_god" yaml:"stem_ten_god"`
	BranchTenGod ganji.TenGod          `json:"branch_ten_god" yaml:"branch_ten_god"`
	HiddenStems  []AnnotatedHiddenStem `json:"hidden_stems" yaml:"hidden_stems"`

	TwelveStage      ganji.TwelveStage  `json:"twelve_stage" yaml:"twelve_stage"`
	SpiritByYear     ganji.TwelveSpirit `json:"spirit_by_year" yaml:"spirit_by_year"`
	SpiritByDay      ganji.TwelveSpirit `json:"spirit_by_day" yaml:"spirit_by_day"`
	VoidByYearDecade bool               `json:"void_by_year_decade" yaml:"void_by_year_decade"`
	VoidByDayDecade  bool               `json:"void_by_day_decade" yaml:"void_by_day_decade"`
}

// Chart is the four-pillar chart. Hour is nil when the birth time is unknown.
type Chart struct {
	Year      AnnotatedPillar  `json:"year" yaml:"year"`
	Month     AnnotatedPillar  `json:"month" yaml:"month"`
	Day       AnnotatedPillar  `json:"day" yaml:"day"`
	Hour      *AnnotatedPillar `json:"hour" yaml:"hour"`
	DayMaster ganji.Stem       `json:"day_master" yaml:"day_master"`
}

// HourKnown reports whether the hour pillar is present
func (c *Chart) HourKnown() bool {
	return c.Hour != nil
}

// Pillars returns the known pillars in year → hour order
func (c *Chart) Pillars() []*AnnotatedPillar {
	out := []*AnnotatedPillar{&c.Year, &c.Month, &c.Day}
	if c.Hour != nil {
		out = append(out, c.Hour)
	}
	return out
}

// At returns the pillar at a position, nil for an unknown hour
func (c *Chart) At(p Position) *AnnotatedPillar {
	switch p {
	case PositionYear:
		return &c.Year
	case PositionMonth:
		return &c.Month
	case PositionDay:
		return &c.Day
	case PositionHour:
		return c.Hour
	}
	return nil
}

// Branches returns the branches of the known pillars keyed by position
func (c *Chart) Branches() map[Position]ganji.Branch {
	out := make(map[Position]ganji.Branch, 4)
	for _, p := range c.Pillars() {
		out[p.Position] = p.Pillar.Branch
	}
	return out
}

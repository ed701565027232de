package strength

import (
	"fmt"

	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
)

// Verdict thresholds on the summed score
const (
	StrongThreshold = 3
	WeakThreshold   = -3
)

type seasonRule struct {
	name  string
	when  func(month, day ganji.Element) bool
	score int
}

// Seasonal command, first match wins
var seasonRules = []seasonRule{
	{"same element", func(m, d ganji.Element) bool { return m == d }, 2},
	{"month generates day", func(m, d ganji.Element) bool { return m.Generates() == d }, 2},
	{"month controls day", func(m, d ganji.Element) bool { return m.Controls() == d }, -2},
	{"day drains into month", func(m, d ganji.Element) bool { return d.Generates() == m }, -2},
	{"day controls month", func(m, d ganji.Element) bool { return d.Controls() == m }, 0},
}

type levelRule struct {
	when  func(total int) bool
	level chart.StrengthLevel
}

var levelRules = []levelRule{
	{func(total int) bool { return total >= StrongThreshold }, chart.StrengthStrong},
	{func(total int) bool { return total <= WeakThreshold }, chart.StrengthWeak},
	{func(int) bool { return true }, chart.StrengthNeutral},
}

// Score combines seasonal command, rootedness and heavenly support
func Score(c *chart.Chart) chart.DayMasterStrength {
	s := chart.DayMasterStrength{
		SeasonalCommand: SeasonalCommand(c.Month.BranchElement, c.DayMaster.Element()),
		Rootedness:      Rootedness(c),
		HeavenlySupport: HeavenlySupport(c),
	}
	s.Total = s.SeasonalCommand + s.Rootedness + s.HeavenlySupport
	s.Level = Level(s.Total)
	return s
}

// SeasonalCommand scores the month element against the day element
func SeasonalCommand(month, day ganji.Element) int {
	for _, r := range seasonRules {
		if r.when(month, day) {
			return r.score
		}
	}
	panic(fmt.Sprintf("strength: no season rule for %s month, %s day", month, day))
}

// Rootedness counts branches and hidden stems sharing the day element.
// The day branch counts double.
func Rootedness(c *chart.Chart) int {
	day := c.DayMaster.Element()
	score := 0
	for _, p := range c.Pillars() {
		if p.BranchElement == day {
			if p.Position == chart.PositionDay {
				score += 2
			} else {
				score++
			}
		}
		for _, h := range p.HiddenStems {
			if h.Stem.Element() == day {
				score++
			}
		}
	}
	return score
}

// HeavenlySupport scores the stems other than the day master: +1 for a
// peer or resource, -1 for a stem that drains or controls it
func HeavenlySupport(c *chart.Chart) int {
	score := 0
	for _, p := range c.Pillars() {
		if p.Position == chart.PositionDay {
			continue
		}
		if p.StemTenGod.SupportsDayMaster() {
			score++
		} else {
			score--
		}
	}
	return score
}

// Level maps a total onto strong, weak or neutral
func Level(total int) chart.StrengthLevel {
	for _, r := range levelRules {
		if r.when(total) {
			return r.level
		}
	}
	panic("strength: level rules must end with a catch-all")
}

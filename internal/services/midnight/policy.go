package midnight

import (
	"time"

	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
	"saju/pkg/errors"
)

// ratHour is the five-rat table: the 子 hour pillar keyed by day stem mod 5
// 甲/己→甲子, 乙/庚→丙子, 丙/辛→戊子, 丁/壬→庚子, 戊/癸→壬子
var ratHour = [5]ganji.Pillar{
	{Stem: ganji.Gap, Branch: ganji.Ja},
	{Stem: ganji.Byeong, Branch: ganji.Ja},
	{Stem: ganji.Mu, Branch: ganji.Ja},
	{Stem: ganji.Gyeong, Branch: ganji.Ja},
	{Stem: ganji.Im, Branch: ganji.Ja},
}

// RatHour returns the 子 hour pillar for a day stem
func RatHour(dayStem ganji.Stem) ganji.Pillar {
	return ratHour[int(dayStem)%5]
}

// InRatBand reports whether the effective time falls in 23:00–23:59
func InRatBand(effective time.Time) bool {
	return effective.Hour() == 23
}

// Policy resolves the day boundary of births in the late 子 hour
type Policy struct {
	primitive calendar.Primitive
}

// New creates a midnight policy over a calendar primitive
func New(primitive calendar.Primitive) *Policy {
	return &Policy{primitive: primitive}
}

// Apply adjusts raw pillars for mode. Outside the 23:00 band, or in late
// mode, raw is returned unchanged. In early mode the day pillar is re-read
// at noon of the same civil date and the hour pillar follows the five-rat
// table for that day stem.
func (p *Policy) Apply(effective time.Time, raw calendar.RawPillars, mode chart.MidnightMode) (calendar.RawPillars, error) {
	if !InRatBand(effective) || mode != chart.MidnightEarly {
		return raw, nil
	}

	noon := time.Date(effective.Year(), effective.Month(), effective.Day(), 12, 0, 0, 0, effective.Location())
	sameDay, err := p.primitive.ResolvePillars(noon)
	if err != nil {
		return calendar.RawPillars{}, errors.Wrap(err, "failed to resolve same-day pillars")
	}

	out := raw
	out.Day = sameDay.Day
	out.Hour = RatHour(sameDay.Day.Stem)
	return out, nil
}

// Package solarterm implements the calendar primitive on top of an
// astronomical solar-longitude series.
//
// Month-opening terms (節) are solved per civil year and memoized; pillar
// resolution is then a lookup against those instants plus the continuous
// sexagenary day count.
package solarterm

import (
	"sort"
	"sync"
	"time"

	"saju/internal/domain/calendar"
	"saju/internal/domain/ganji"
	"saju/pkg/errors"
)

// Term names of the twelve month-opening terms in civil-year order.
// Term i sits at solar longitude 285° + 30°·i and opens month branch i+1.
var TermNames = [12]string{
	"小寒", "立春", "驚蟄", "淸明", "立夏", "芒種",
	"小暑", "立秋", "白露", "寒露", "立冬", "大雪",
}

const springTerm = 1

// JDN of 1970-01-01 and the offset placing 甲子 on the 60-day cycle
const (
	unixEpochJDN   = 2440588
	dayCycleOffset = 49
)

// Years the solar series is trusted for. Wider than the birth range so
// luck cycles of late births still resolve their annual pillars.
const (
	MinYear = 1800
	MaxYear = 2400
)

// Calendar is the solar-term calendar primitive
type Calendar struct {
	loc *time.Location

	mu    sync.Mutex
	terms map[int][12]time.Time
}

// New creates a calendar whose civil dates are read in loc
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = KST
	}
	return &Calendar{
		loc:   loc,
		terms: make(map[int][12]time.Time),
	}
}

// KST is the nominal UTC+9 zone without daylight saving
var KST = time.FixedZone("KST", 9*60*60)

var _ calendar.Primitive = (*Calendar)(nil)

// Terms returns the twelve month-opening term instants of a civil year
func (c *Calendar) Terms(year int) ([12]time.Time, error) {
	if year < MinYear || year > MaxYear {
		return [12]time.Time{}, errors.Wrapf(errors.ErrYearOutOfRange, "year %d", year)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.terms[year]; ok {
		return cached, nil
	}

	var out [12]time.Time
	jan1 := julianDay(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	for i := 0; i < 12; i++ {
		target := normalizeDegrees(285 + 30*float64(i))
		// the sun passes 280° around New Year
		estimate := jan1 + normalizeDegrees(target-280)/360*tropicalYear
		out[i] = fromJulianDay(crossing(target, estimate))
	}
	c.terms[year] = out
	return out, nil
}

// CachedYears reports how many years of term instants are memoized
func (c *Calendar) CachedYears() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.terms)
}

// StartOfSpring returns the instant of 立春 in the given civil year
func (c *Calendar) StartOfSpring(year int) (time.Time, error) {
	terms, err := c.Terms(year)
	if err != nil {
		return time.Time{}, err
	}
	return terms[springTerm].In(c.loc), nil
}

// ResolvePillars returns the raw four pillars for effective solar time t
func (c *Calendar) ResolvePillars(t time.Time) (calendar.RawPillars, error) {
	t = t.In(c.loc)

	year, err := c.sexagenaryYear(t)
	if err != nil {
		return calendar.RawPillars{}, err
	}
	month, err := c.monthPillar(t, year.Stem)
	if err != nil {
		return calendar.RawPillars{}, err
	}

	civil := t
	if t.Hour() == 23 {
		civil = t.AddDate(0, 0, 1)
	}
	day := DayPillar(civil.Year(), civil.Month(), civil.Day())

	return calendar.RawPillars{
		Year:  year,
		Month: month,
		Day:   day,
		Hour:  HourPillar(day.Stem, t.Hour()),
	}, nil
}

// NearestSolarTermBoundary returns the days from t to the nearest
// month-opening term in dir. Forward looks strictly after t, backward at or
// before t. Years outside the supported range are skipped.
func (c *Calendar) NearestSolarTermBoundary(t time.Time, dir calendar.Direction, window time.Duration) (float64, error) {
	if !dir.Valid() {
		return 0, errors.NewValidationError("direction", "must be forward or backward", dir)
	}

	from, to := t.Add(-window), t.Add(window)
	candidates := make([]time.Time, 0, 36)
	for y := from.In(c.loc).Year(); y <= to.In(c.loc).Year(); y++ {
		terms, err := c.Terms(y)
		if err != nil {
			continue
		}
		candidates = append(candidates, terms[:]...)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	if dir == calendar.Forward {
		for _, term := range candidates {
			if term.After(t) && !term.After(to) {
				return term.Sub(t).Hours() / 24, nil
			}
		}
	} else {
		for i := len(candidates) - 1; i >= 0; i-- {
			term := candidates[i]
			if !term.After(t) && !term.Before(from) {
				return t.Sub(term).Hours() / 24, nil
			}
		}
	}

	return 0, errors.Wrapf(errors.ErrNoBoundary, "%s from %s within %s", dir, t.Format(time.RFC3339), window)
}

// sexagenaryYear returns the year pillar; the year turns at 立春
func (c *Calendar) sexagenaryYear(t time.Time) (ganji.Pillar, error) {
	y := t.Year()
	spring, err := c.StartOfSpring(y)
	if err != nil {
		return ganji.Pillar{}, err
	}
	if t.Before(spring) {
		y--
	}
	// 1984 is 甲子
	return ganji.PillarFromIndex(y - 1984), nil
}

// monthPillar returns the month pillar opened by the latest term at or before t
func (c *Calendar) monthPillar(t time.Time, yearStem ganji.Stem) (ganji.Pillar, error) {
	terms, err := c.Terms(t.Year())
	if err != nil {
		return ganji.Pillar{}, err
	}

	// before 小寒 the month is still the previous December's 子
	branch := ganji.Ja
	for i := len(terms) - 1; i >= 0; i-- {
		if !terms[i].After(t) {
			branch = ganji.Branch(i + 1).Add(0)
			break
		}
	}

	return MonthPillar(yearStem, branch), nil
}

// MonthPillar applies the five-tiger rule: the 寅 month stem follows the year stem
func MonthPillar(yearStem ganji.Stem, branch ganji.Branch) ganji.Pillar {
	tigerStem := int(yearStem%5)*2 + 2
	sinceTiger := int(branch.Add(-int(ganji.In)))
	return ganji.Pillar{
		Stem:   ganji.Stem((tigerStem + sinceTiger) % 10),
		Branch: branch,
	}
}

// DayPillar returns the pillar of a civil date on the continuous 60-day cycle
func DayPillar(year int, month time.Month, day int) ganji.Pillar {
	days := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return ganji.PillarFromIndex(int(days) + unixEpochJDN + dayCycleOffset)
}

// HourBranch returns the two-hour block of a clock hour; 子 spans 23:00–00:59
func HourBranch(hour int) ganji.Branch {
	return ganji.Branch(((hour + 1) / 2) % 12)
}

// RatHourStem applies the five-rat rule: the stem of the 子 hour for a day stem
func RatHourStem(dayStem ganji.Stem) ganji.Stem {
	return ganji.Stem(int(dayStem%5) * 2)
}

// HourPillar returns the hour pillar for a day stem and clock hour
func HourPillar(dayStem ganji.Stem, hour int) ganji.Pillar {
	branch := HourBranch(hour)
	return ganji.Pillar{
		Stem:   ganji.Stem((int(RatHourStem(dayStem)) + int(branch)) % 10),
		Branch: branch,
	}
}

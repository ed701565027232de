package testsupport

import (
	"time"

	"saju/internal/domain/chart"
)

// BirthAt builds a known-time birth from a civil instant
func BirthAt(t time.Time, gender chart.Gender) chart.Birth {
	return chart.Birth{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		TimeKnown: true,
		Gender:    gender,
	}
}

// BirthSequence returns n births starting at start and step apart.
// Genders alternate, male first.
func BirthSequence(start time.Time, step time.Duration, n int) []chart.Birth {
	out := make([]chart.Birth, 0, n)
	for i := 0; i < n; i++ {
		gender := chart.Male
		if i%2 == 1 {
			gender = chart.Female
		}
		out = append(out, BirthAt(start.Add(time.Duration(i)*step), gender))
	}
	return out
}

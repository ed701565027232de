package timecorrect

import (
	"math"
	"time"

	"saju/internal/domain/chart"
)

// Zone is the nominal UTC+9 civil zone every birth is read in
var Zone = time.FixedZone("KST", 9*60*60)

// Correction names
const (
	CorrectionHistoricalOffset = "historical_offset"
	CorrectionDST              = "daylight_saving"
	CorrectionTrueSolarTime    = "true_solar_time"
)

// Defaults for the true-solar-time correction (Seoul against the 135°E meridian)
const (
	DefaultReferenceLongitude = 126.978
	DefaultStandardMeridian   = 135.0
)

// window is a half-open [start, end) civil-time interval
type window struct {
	name       string
	start, end time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, Zone)
}

// Periods when legal time ran at UTC+8:30, so clocks read 30 minutes behind
var offsetWindows = []window{
	{"UTC+8:30 (1908–1911)", at(1908, time.April, 1, 0), at(1912, time.January, 1, 0)},
	{"UTC+8:30 (1954–1961)", at(1954, time.March, 21, 0), at(1961, time.August, 10, 0)},
}

const offsetMinutes = 30

// Historical daylight-saving periods
var dstWindows = []window{
	{"DST 1948", at(1948, time.June, 1, 0), at(1948, time.September, 13, 0)},
	{"DST 1949", at(1949, time.April, 3, 0), at(1949, time.September, 11, 0)},
	{"DST 1950", at(1950, time.April, 1, 0), at(1950, time.September, 10, 0)},
	{"DST 1951", at(1951, time.May, 6, 0), at(1951, time.September, 9, 0)},
	{"DST 1955", at(1955, time.May, 5, 0), at(1955, time.September, 9, 0)},
	{"DST 1956", at(1956, time.May, 20, 0), at(1956, time.September, 30, 0)},
	{"DST 1957", at(1957, time.May, 5, 0), at(1957, time.September, 22, 0)},
	{"DST 1958", at(1958, time.May, 4, 0), at(1958, time.September, 21, 0)},
	{"DST 1959", at(1959, time.May, 3, 0), at(1959, time.September, 20, 0)},
	{"DST 1960", at(1960, time.May, 1, 0), at(1960, time.September, 18, 0)},
	{"DST 1987", at(1987, time.May, 10, 2), at(1987, time.October, 11, 3)},
	{"DST 1988", at(1988, time.May, 8, 2), at(1988, time.October, 9, 3)},
}

const dstMinutes = -60

// Options configures the true-solar-time correction
type Options struct {
	ReferenceLongitude float64
	StandardMeridian   float64
}

// DefaultOptions returns Seoul against the 135°E meridian
func DefaultOptions() Options {
	return Options{
		ReferenceLongitude: DefaultReferenceLongitude,
		StandardMeridian:   DefaultStandardMeridian,
	}
}

// Normalizer turns civil birth input into effective solar time
type Normalizer struct {
	opts Options
}

// New creates a normalizer
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize validates the birth and applies, in order, the historical
// offset, daylight saving and true solar time. Unknown time resolves to
// noon of the civil date with no corrections.
func (n *Normalizer) Normalize(b chart.Birth) (chart.SolarTime, error) {
	if err := b.Validate(); err != nil {
		return chart.SolarTime{}, err
	}

	if !b.TimeKnown {
		noon := time.Date(b.Year, time.Month(b.Month), b.Day, 12, 0, 0, 0, Zone)
		return chart.SolarTime{
			Civil:       noon,
			Effective:   noon,
			TimeKnown:   false,
			Corrections: []chart.Correction{},
		}, nil
	}

	civil := time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, 0, 0, Zone)
	out := chart.SolarTime{
		Civil:       civil,
		Effective:   civil,
		TimeKnown:   true,
		Corrections: []chart.Correction{},
	}

	for _, w := range offsetWindows {
		if w.contains(civil) {
			apply(&out, CorrectionHistoricalOffset, w.name, offsetMinutes)
			break
		}
	}

	// DST windows are legal clock ranges and are matched on the civil reading
	if b.ApplyDST {
		for _, w := range dstWindows {
			if w.contains(civil) {
				apply(&out, CorrectionDST, w.name, dstMinutes)
				break
			}
		}
	}

	if b.UseTrueSolarTime {
		longitude := n.opts.ReferenceLongitude
		if b.Longitude != nil {
			longitude = *b.Longitude
		}
		apply(&out, CorrectionTrueSolarTime, "", TrueSolarMinutes(longitude, n.opts.StandardMeridian))
	}

	return out, nil
}

// TrueSolarMinutes is the longitude correction: 4 minutes per degree
func TrueSolarMinutes(longitude, meridian float64) float64 {
	return (longitude - meridian) * 4
}

// apply shifts the effective time, rounded to the second, and records it
func apply(s *chart.SolarTime, name, period string, minutes float64) {
	shift := time.Duration(math.Round(minutes*60)) * time.Second
	s.Effective = s.Effective.Add(shift)
	s.Corrections = append(s.Corrections, chart.Correction{Name: name, Minutes: minutes, Period: period})
}

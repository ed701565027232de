package chart

import (
	"fmt"
	"time"

	"saju/pkg/errors"
)

// Gender selects the luck-cycle direction together with the year stem
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid checks if gender is valid
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// String returns string representation
func (g Gender) String() string {
	return string(g)
}

// MidnightMode decides which civil day a 23:xx birth belongs to
type MidnightMode string

const (
	// MidnightLate keeps the calendar's native rollover: 23:00 starts the next day
	MidnightLate MidnightMode = "late"
	// MidnightEarly (야자시) keeps 23:xx on the current civil day
	MidnightEarly MidnightMode = "early"
)

// Valid checks if midnight mode is valid
func (m MidnightMode) Valid() bool {
	return m == MidnightLate || m == MidnightEarly
}

// String returns string representation
func (m MidnightMode) String() string {
	return string(m)
}

// Supported civil-year range of the calendar adapter
const (
	MinYear = 1900
	MaxYear = 2100
)

// Birth is the raw civil birth input
type Birth struct {
	Year   int `json:"year" yaml:"year"`
	Month  int `json:"month" yaml:"month"`
	Day    int `json:"day" yaml:"day"`
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`

	// TimeKnown false drops the hour pillar from every computation
	TimeKnown bool   `json:"time_known" yaml:"time_known"`
	Gender    Gender `json:"gender" yaml:"gender"`

	UseTrueSolarTime bool         `json:"use_true_solar_time" yaml:"use_true_solar_time"`
	ApplyDST         bool         `json:"apply_dst" yaml:"apply_dst"`
	MidnightMode     MidnightMode `json:"midnight_mode" yaml:"midnight_mode"`

	// Longitude of the birthplace in degrees east; nil uses the configured reference
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// Validate collects every malformed field
func (b Birth) Validate() error {
	var errs errors.MultiError

	if b.Year < MinYear || b.Year > MaxYear {
		errs.Add(errors.NewValidationError("year", fmt.Sprintf("must be within %d..%d", MinYear, MaxYear), b.Year))
	}
	if b.Month < 1 || b.Month > 12 {
		errs.Add(errors.NewValidationError("month", "must be within 1..12", b.Month))
	} else if b.Day < 1 || b.Day > DaysIn(b.Year, time.Month(b.Month)) {
		errs.Add(errors.NewValidationError("day", fmt.Sprintf("must be within 1..%d", DaysIn(b.Year, time.Month(b.Month))), b.Day))
	}
	if b.TimeKnown {
		if b.Hour < 0 || b.Hour > 23 {
			errs.Add(errors.NewValidationError("hour", "must be within 0..23", b.Hour))
		}
		if b.Minute < 0 || b.Minute > 59 {
			errs.Add(errors.NewValidationError("minute", "must be within 0..59", b.Minute))
		}
	}
	if !b.Gender.Valid() {
		errs.Add(errors.NewValidationError("gender", "must be male or female", b.Gender))
	}
	if b.MidnightMode != "" && !b.MidnightMode.Valid() {
		errs.Add(errors.NewValidationError("midnight_mode", "must be late or early", b.MidnightMode))
	}
	if b.Longitude != nil && (*b.Longitude < -180 || *b.Longitude > 180) {
		errs.Add(errors.NewValidationError("longitude", "must be within -180..180", *b.Longitude))
	}

	return errs.ToError()
}

// Mode returns the midnight mode, defaulting to late
func (b Birth) Mode() MidnightMode {
	if b.MidnightMode == "" {
		return MidnightLate
	}
	return b.MidnightMode
}

// DaysIn returns the number of days in a Gregorian month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

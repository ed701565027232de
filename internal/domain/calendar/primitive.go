package calendar

import (
	"time"

	"saju/internal/domain/ganji"
)

// RawPillars is the unannotated output of the calendar primitive
type RawPillars struct {
	Year  ganji.Pillar `json:"year" yaml:"year"`
	Month ganji.Pillar `json:"month" yaml:"month"`
	Day   ganji.Pillar `json:"day" yaml:"day"`
	Hour  ganji.Pillar `json:"hour" yaml:"hour"`
}

// Direction is the search or stepping direction along the calendar
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Valid checks if direction is valid
func (d Direction) Valid() bool {
	return d == Forward || d == Backward
}

// String returns string representation
func (d Direction) String() string {
	return string(d)
}

// Step returns +1 for forward and -1 for backward
func (d Direction) Step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Primitive converts effective solar time into raw pillars and answers
// solar-term queries. Implementations must behave as pure functions; any
// caching they do is invisible to callers.
type Primitive interface {
	// ResolvePillars returns year/month/day/hour pillars for the effective solar time.
	// The day pillar rolls over at 23:00.
	ResolvePillars(t time.Time) (RawPillars, error)

	// NearestSolarTermBoundary returns the distance in days from t to the nearest
	// month-opening solar term in direction dir, searching at most window.
	// Returns errors.ErrNoBoundary when the window holds no boundary.
	NearestSolarTermBoundary(t time.Time, dir Direction, window time.Duration) (float64, error)

	// StartOfSpring returns the instant of 立春 in the given year
	StartOfSpring(year int) (time.Time, error)
}

package chart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"saju/internal/domain/calendar"
)

// Correction is one adjustment applied to the civil birth time
type Correction struct {
	Name    string  `json:"name" yaml:"name"`
	Minutes float64 `json:"minutes" yaml:"minutes"`
	// Period names the historical window that triggered the correction
	Period string `json:"period,omitempty" yaml:"period,omitempty"`
}

// SolarTime is the effective solar time fed to the calendar primitive
type SolarTime struct {
	Civil       time.Time    `json:"civil" yaml:"civil"`
	Effective   time.Time    `json:"effective" yaml:"effective"`
	TimeKnown   bool         `json:"time_known" yaml:"time_known"`
	Corrections []Correction `json:"corrections" yaml:"corrections"`
}

// TotalMinutes sums the applied corrections
func (s SolarTime) TotalMinutes() float64 {
	total := 0.0
	for _, c := range s.Corrections {
		total += c.Minutes
	}
	return total
}

// Report is the full engine output for one birth input
type Report struct {
	ID        uuid.UUID           `json:"id" yaml:"id"`
	Input     Birth               `json:"input" yaml:"input"`
	SolarTime SolarTime           `json:"solar_time" yaml:"solar_time"`
	Raw       calendar.RawPillars `json:"raw" yaml:"raw"`
	Chart     Chart               `json:"chart" yaml:"chart"`
	Profile   FiveElementProfile  `json:"profile" yaml:"profile"`
	Strength  DayMasterStrength   `json:"strength" yaml:"strength"`
	Yongshin  Yongshin            `json:"yongshin" yaml:"yongshin"`
	Luck      LuckCycle           `json:"luck" yaml:"luck"`
	Void      VoidBranches        `json:"void" yaml:"void"`
}

// ReportCache stores computed reports keyed by their deterministic ID.
// Get returns errors.ErrCacheMiss when the report is absent.
type ReportCache interface {
	Get(ctx context.Context, id uuid.UUID) (*Report, error)
	Set(ctx context.Context, report *Report) error
}

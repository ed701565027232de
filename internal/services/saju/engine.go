// Package saju composes the calendar, correction and analysis services into
// a single chart computation.
package saju

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/services/chartbuilder"
	"saju/internal/services/elements"
	"saju/internal/services/gongmang"
	"saju/internal/services/luck"
	"saju/internal/services/midnight"
	"saju/internal/services/strength"
	"saju/internal/services/timecorrect"
	"saju/internal/services/yongshin"
	"saju/pkg/errors"
)

// reportNamespace seeds the name-based report IDs
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("saju:report"))

// Options configures the engine's tunable steps
type Options struct {
	Time     timecorrect.Options
	Elements elements.Options
}

// DefaultOptions returns Seoul time correction with hidden-stem weighting
func DefaultOptions() Options {
	return Options{
		Time:     timecorrect.DefaultOptions(),
		Elements: elements.DefaultOptions(),
	}
}

// Engine computes full reports. It holds no mutable state of its own and is
// safe for concurrent use when the primitive is.
type Engine struct {
	opts       Options
	primitive  calendar.Primitive
	normalizer *timecorrect.Normalizer
	midnight   *midnight.Policy
	profiler   *elements.Profiler
	luck       *luck.Generator
}

// NewEngine wires the pipeline around a calendar primitive
func NewEngine(primitive calendar.Primitive, opts Options) *Engine {
	return &Engine{
		opts:       opts,
		primitive:  primitive,
		normalizer: timecorrect.New(opts.Time),
		midnight:   midnight.New(primitive),
		profiler:   elements.New(opts.Elements),
		luck:       luck.New(primitive),
	}
}

// ComputeChart runs the whole pipeline for one birth:
// time correction, raw pillars, midnight policy, annotation, element
// profile, strength, Yongshin, luck cycle and void branches.
func (e *Engine) ComputeChart(b chart.Birth) (*chart.Report, error) {
	solar, err := e.normalizer.Normalize(b)
	if err != nil {
		return nil, err
	}

	raw, err := e.primitive.ResolvePillars(solar.Effective)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve pillars")
	}

	raw, err = e.midnight.Apply(solar.Effective, raw, b.Mode())
	if err != nil {
		return nil, err
	}

	c := chartbuilder.Build(raw, b.TimeKnown)
	profile := e.profiler.Profile(&c)
	st := strength.Score(&c)

	cycle, err := e.luck.Generate(b, solar.Effective, raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate luck cycle")
	}

	return &chart.Report{
		ID:        e.ReportID(b),
		Input:     b,
		SolarTime: solar,
		Raw:       raw,
		Chart:     c,
		Profile:   profile,
		Strength:  st,
		Yongshin: yongshin.Decide(yongshin.Input{
			Chart:    &c,
			Profile:  &profile,
			Strength: st,
		}),
		Luck: cycle,
		Void: gongmang.Resolve(&c),
	}, nil
}

// ReportID derives a deterministic ID from the canonical birth input and
// the engine options that influence the result
func (e *Engine) ReportID(b chart.Birth) uuid.UUID {
	return uuid.NewSHA1(reportNamespace, []byte(e.canonical(b)))
}

func (e *Engine) canonical(b chart.Birth) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%04d-%02d-%02d", b.Year, b.Month, b.Day)
	if b.TimeKnown {
		fmt.Fprintf(&sb, "T%02d:%02d", b.Hour, b.Minute)
	} else {
		sb.WriteString("T--:--")
	}
	fmt.Fprintf(&sb, "|%s|%s|tst=%t|dst=%t", b.Gender, b.Mode(), b.UseTrueSolarTime, b.ApplyDST)

	if b.UseTrueSolarTime {
		lon := e.opts.Time.ReferenceLongitude
		if b.Longitude != nil {
			lon = *b.Longitude
		}
		sb.WriteString("|lon=" + strconv.FormatFloat(lon, 'f', -1, 64))
		sb.WriteString("|mer=" + strconv.FormatFloat(e.opts.Time.StandardMeridian, 'f', -1, 64))
	}
	fmt.Fprintf(&sb, "|hidden=%t|mult=%s", e.opts.Elements.IncludeHidden, e.opts.Elements.MonthHiddenMultiplier)

	return sb.String()
}

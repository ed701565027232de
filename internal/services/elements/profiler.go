package elements

import (
	"github.com/shopspring/decimal"

	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
)

// Level thresholds as ratios of the mean score
var (
	ratioMissing   = decimal.RequireFromString("0.35")
	ratioDeficient = decimal.RequireFromString("0.70")
	ratioStrong    = decimal.RequireFromString("1.25")
	ratioExcess    = decimal.RequireFromString("1.60")

	elementCount = decimal.NewFromInt(int64(len(ganji.Elements)))
)

// Options configures the profiler
type Options struct {
	// IncludeHidden adds the weighted hidden stems of every known branch
	IncludeHidden bool
	// MonthHiddenMultiplier scales the month branch's hidden stems (seasonal command)
	MonthHiddenMultiplier decimal.Decimal
}

// DefaultOptions counts hidden stems with the month branch doubled
func DefaultOptions() Options {
	return Options{
		IncludeHidden:         true,
		MonthHiddenMultiplier: decimal.NewFromInt(2),
	}
}

// Profiler aggregates elemental abundance across a chart
type Profiler struct {
	opts Options
}

// New creates a profiler
func New(opts Options) *Profiler {
	if opts.MonthHiddenMultiplier.IsZero() {
		opts.MonthHiddenMultiplier = decimal.NewFromInt(1)
	}
	return &Profiler{opts: opts}
}

// Profile counts one unit per known surface stem and branch, adds hidden
// stems when enabled, and classifies each element against the mean.
func (p *Profiler) Profile(c *chart.Chart) chart.FiveElementProfile {
	counts := make(map[ganji.Element]int, 5)
	scores := make(map[ganji.Element]decimal.Decimal, 5)
	for _, e := range ganji.Elements {
		counts[e] = 0
		scores[e] = decimal.Zero
	}

	one := decimal.NewFromInt(1)
	positions := 0
	for _, pillar := range c.Pillars() {
		for _, e := range []ganji.Element{pillar.StemElement, pillar.BranchElement} {
			counts[e]++
			scores[e] = scores[e].Add(one)
			positions++
		}

		if !p.opts.IncludeHidden {
			continue
		}
		multiplier := one
		if pillar.Position == chart.PositionMonth {
			multiplier = p.opts.MonthHiddenMultiplier
		}
		for _, h := range pillar.HiddenStems {
			e := h.Stem.Element()
			scores[e] = scores[e].Add(h.Weight.Mul(multiplier))
		}
	}

	total := decimal.Zero
	for _, e := range ganji.Elements {
		total = total.Add(scores[e])
	}
	mean := total.Div(elementCount)

	levels := make(map[ganji.Element]chart.ElementLevel, 5)
	for _, e := range ganji.Elements {
		levels[e] = Classify(scores[e], mean)
	}

	return chart.FiveElementProfile{
		Counts:        counts,
		Scores:        scores,
		Mean:          mean,
		Levels:        levels,
		Positions:     positions,
		HiddenCounted: p.opts.IncludeHidden,
	}
}

// Classify places a score against the mean of all five scores
func Classify(score, mean decimal.Decimal) chart.ElementLevel {
	switch {
	case score.IsZero() || score.LessThan(mean.Mul(ratioMissing)):
		return chart.LevelMissing
	case score.LessThan(mean.Mul(ratioDeficient)):
		return chart.LevelDeficient
	case score.GreaterThan(mean.Mul(ratioExcess)):
		return chart.LevelExcess
	case score.GreaterThan(mean.Mul(ratioStrong)):
		return chart.LevelStrong
	default:
		return chart.LevelBalanced
	}
}

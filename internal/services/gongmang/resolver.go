package gongmang

import (
	"fmt"

	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
)

// Release relations, checked in this order
const (
	ReleaseSixCombine = "six_combine"
	ReleaseHalfTriad  = "half_triad"
	ReleaseClash      = "clash"
)

type releaseRule struct {
	name string
	when func(a, b ganji.Branch) bool
}

var releaseRules = []releaseRule{
	{ReleaseSixCombine, ganji.SixCombines},
	{ReleaseHalfTriad, ganji.HalfTriad},
	{ReleaseClash, ganji.Clashes},
}

// Resolve computes the void branches of the year and day decades and flags
// the other known pillars that land on them
func Resolve(c *chart.Chart) chart.VoidBranches {
	return chart.VoidBranches{
		ByYear: resolveFor(c, chart.PositionYear),
		ByDay:  resolveFor(c, chart.PositionDay),
	}
}

func resolveFor(c *chart.Chart, ref chart.Position) chart.VoidSet {
	reference := c.At(ref).Pillar
	set := chart.VoidSet{
		Reference: ref,
		Decade:    reference.Decade(),
		Void:      reference.VoidPair(),
		Hits:      []chart.VoidHit{},
	}

	for _, p := range c.Pillars() {
		if p.Position == ref || !reference.IsVoid(p.Pillar.Branch) {
			continue
		}
		hit := chart.VoidHit{Position: p.Position, Branch: p.Pillar.Branch}
		hit.Released, hit.Reason = release(c, p)
		set.Hits = append(set.Hits, hit)
	}
	return set
}

// release reports whether the flagged pillar's branch relates to any other
// branch in the chart, naming the first relation and partner found
func release(c *chart.Chart, flagged *chart.AnnotatedPillar) (bool, string) {
	for _, rule := range releaseRules {
		for _, other := range c.Pillars() {
			if other.Position == flagged.Position {
				continue
			}
			if rule.when(flagged.Pillar.Branch, other.Pillar.Branch) {
				return true, fmt.Sprintf("%s with %s %s", rule.name, other.Position, other.Pillar.Branch)
			}
		}
	}
	return false, ""
}

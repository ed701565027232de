// Package yongshin decides the useful element (용신) of a chart.
//
// Two candidate pools are scored independently: the balance pool (억부),
// derived from day-master strength, and the single climate candidate (조후),
// derived from the birth season. An ordered rule table then picks the
// primary, and the secondary, supporting (희신) and conflicting (기신)
// elements follow from the primary.
package yongshin

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
)

// Score terms
var (
	bonusMissing    = decimal.NewFromInt(4)
	bonusDeficient  = decimal.NewFromInt(2)
	penaltyExcess   = decimal.NewFromInt(-3)
	bonusAligned    = decimal.NewFromInt(2)
	bonusNeutral    = decimal.NewFromInt(1)
	bonusScarce     = decimal.RequireFromString("0.8")
	penaltyAbundant = decimal.RequireFromString("-0.8")
	penaltySeason   = decimal.RequireFromString("-0.3")
	bonusSeason     = decimal.RequireFromString("1.0")
	penaltyInExcess = decimal.RequireFromString("-1.5")
	penaltyThin     = decimal.RequireFromString("-0.5")

	ratioScarce   = decimal.RequireFromString("0.7")
	ratioAbundant = decimal.RequireFromString("1.6")
)

// Decision thresholds
var (
	marginExtreme   = decimal.RequireFromString("1.2")
	marginTemperate = decimal.RequireFromString("2.0")
	excessTolerance = decimal.RequireFromString("0.8")
	secondaryGap    = decimal.RequireFromString("4.0")
	confidenceHigh  = decimal.RequireFromString("3.0")
	confidenceMid   = decimal.RequireFromString("1.5")
)

// Term names recorded in the evidence trail
const (
	TermImbalance = "imbalance"
	TermAlignment = "alignment"
	TermAbundance = "abundance"
	TermSeason    = "season"
	TermExcess    = "excess_penalty"
	TermThin      = "thin_evidence"
)

const maxExcessGishin = 2

// Input bundles the analyses the decision consumes
type Input struct {
	Chart    *chart.Chart
	Profile  *chart.FiveElementProfile
	Strength chart.DayMasterStrength
}

// Decide runs the full Yongshin decision
func Decide(in Input) chart.Yongshin {
	day := in.Chart.DayMaster.Element()
	season := in.Chart.Month.Pillar.Branch.Season()
	sc := scoring{
		profile:  in.Profile,
		level:    in.Strength.Level,
		root:     in.Strength.Rootedness,
		extreme:  season.Extreme(),
		suitable: SuitableSet(in.Strength.Level, day),
	}

	balance := make([]chart.CandidateScore, 0, 5)
	for _, e := range BalanceCandidates(in.Strength.Level, day) {
		balance = append(balance, sc.score(e, chart.DecisionBalance))
	}
	rank(balance)

	climate := sc.score(ClimateCandidate(season, day), chart.DecisionClimate)
	top := balance[0]

	decision, rule := resolvePriority(priorityInput{
		top:         top,
		climate:     climate,
		extreme:     season.Extreme(),
		topInExcess: in.Profile.Is(top.Element, chart.LevelExcess),
	})

	primary, samePool, otherPool := top, balance[1:], []chart.CandidateScore{climate}
	if decision == chart.DecisionClimate {
		primary, samePool, otherPool = climate, nil, balance
	}

	return chart.Yongshin{
		Primary:      primary.Element,
		Secondary:    pickSecondary(primary, otherPool, samePool),
		Heeshin:      supporting(primary.Element, in.Profile),
		Gishin:       conflicting(primary.Element, in.Strength.Level, day, in.Profile),
		DecisionType: decision,
		Confidence:   confidenceOf(top.Score, climate.Score),
		Evidence: chart.YongshinEvidence{
			Season:          season,
			Strength:        in.Strength.Level,
			Rootedness:      in.Strength.Rootedness,
			Balance:         balance,
			Climate:         climate,
			TopBalanceScore: top.Score,
			ClimateScore:    climate.Score,
			Rule:            rule,
		},
	}
}

// BalanceCandidates returns the balance pool for a strength level.
// A strong day master wants output, wealth and authority; a weak one
// resource and its own element; neutral takes both.
func BalanceCandidates(level chart.StrengthLevel, day ganji.Element) []ganji.Element {
	switch level {
	case chart.StrengthStrong:
		return strongSet(day)
	case chart.StrengthWeak:
		return weakSet(day)
	default:
		return ordered(append(strongSet(day), weakSet(day)...))
	}
}

// SuitableSet is the set a candidate must belong to for the full alignment bonus
func SuitableSet(level chart.StrengthLevel, day ganji.Element) []ganji.Element {
	switch level {
	case chart.StrengthStrong:
		return strongSet(day)
	case chart.StrengthWeak:
		return weakSet(day)
	}
	return nil
}

func strongSet(day ganji.Element) []ganji.Element {
	return []ganji.Element{day.Generates(), day.Controls(), day.ControlledBy()}
}

func weakSet(day ganji.Element) []ganji.Element {
	return []ganji.Element{day.GeneratedBy(), day}
}

type climateRule struct {
	season ganji.Season
	day    *ganji.Element
	need   ganji.Element
}

func elem(e ganji.Element) *ganji.Element { return &e }

// Seasonal needs, first match wins; a nil day matches any day element
var climateRules = []climateRule{
	{ganji.Summer, nil, ganji.Water},
	{ganji.Winter, nil, ganji.Fire},
	{ganji.Spring, elem(ganji.Wood), ganji.Metal},
	{ganji.Spring, nil, ganji.Fire},
	{ganji.Autumn, elem(ganji.Metal), ganji.Fire},
	{ganji.Autumn, nil, ganji.Water},
}

// ClimateCandidate returns the element the birth season needs
func ClimateCandidate(season ganji.Season, day ganji.Element) ganji.Element {
	for _, r := range climateRules {
		if r.season == season && (r.day == nil || *r.day == day) {
			return r.need
		}
	}
	panic(fmt.Sprintf("yongshin: no climate rule for season %q", season))
}

type scoring struct {
	profile  *chart.FiveElementProfile
	level    chart.StrengthLevel
	root     int
	extreme  bool
	suitable []ganji.Element
}

func (s scoring) score(e ganji.Element, pool chart.DecisionType) chart.CandidateScore {
	terms := make([]chart.ScoreTerm, 0, 6)
	add := func(name string, v decimal.Decimal) {
		if !v.IsZero() {
			terms = append(terms, chart.ScoreTerm{Name: name, Value: v})
		}
	}

	switch s.profile.Levels[e] {
	case chart.LevelMissing:
		add(TermImbalance, bonusMissing)
	case chart.LevelDeficient:
		add(TermImbalance, bonusDeficient)
	case chart.LevelExcess:
		add(TermImbalance, penaltyExcess)
	}

	if s.level == chart.StrengthNeutral {
		add(TermAlignment, bonusNeutral)
	} else if contains(s.suitable, e) {
		add(TermAlignment, bonusAligned)
	}

	value := s.profile.Scores[e]
	switch {
	case value.LessThan(s.profile.Mean.Mul(ratioScarce)):
		add(TermAbundance, bonusScarce)
	case value.GreaterThan(s.profile.Mean.Mul(ratioAbundant)):
		add(TermAbundance, penaltyAbundant)
	}

	if s.extreme {
		if pool == chart.DecisionClimate {
			add(TermSeason, bonusSeason)
		} else {
			add(TermSeason, penaltySeason)
		}
	}

	if s.profile.Is(e, chart.LevelExcess) {
		add(TermExcess, penaltyInExcess)
	}

	if pool == chart.DecisionBalance && s.thinEvidence() {
		add(TermThin, penaltyThin)
	}

	total := decimal.Zero
	for _, t := range terms {
		total = total.Add(t.Value)
	}
	return chart.CandidateScore{Element: e, Pool: pool, Score: total, Terms: terms}
}

// thinEvidence flags a strength verdict its own rootedness contradicts
func (s scoring) thinEvidence() bool {
	return (s.level == chart.StrengthWeak && s.root >= 3) ||
		(s.level == chart.StrengthStrong && s.root <= 1)
}

// rank sorts by score descending, ties in element order
func rank(cs []chart.CandidateScore) {
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].Score.Equal(cs[j].Score) {
			return cs[i].Score.GreaterThan(cs[j].Score)
		}
		return cs[i].Element < cs[j].Element
	})
}

type priorityInput struct {
	top         chart.CandidateScore
	climate     chart.CandidateScore
	extreme     bool
	topInExcess bool
}

type priorityRule struct {
	name     string
	when     func(in priorityInput) bool
	decision chart.DecisionType
}

// Rule names recorded in the evidence trail
const (
	RuleClimateMargin = "climate_exceeds_margin"
	RuleBalanceExcess = "top_balance_in_excess"
	RuleBalance       = "balance_default"
)

var priorityRules = []priorityRule{
	{RuleClimateMargin, func(in priorityInput) bool {
		margin := marginTemperate
		if in.extreme {
			margin = marginExtreme
		}
		return in.climate.Score.Sub(in.top.Score).GreaterThan(margin)
	}, chart.DecisionClimate},
	{RuleBalanceExcess, func(in priorityInput) bool {
		return in.topInExcess && in.climate.Score.GreaterThanOrEqual(in.top.Score.Sub(excessTolerance))
	}, chart.DecisionClimate},
	{RuleBalance, func(priorityInput) bool { return true }, chart.DecisionBalance},
}

func resolvePriority(in priorityInput) (chart.DecisionType, string) {
	for _, r := range priorityRules {
		if r.when(in) {
			return r.decision, r.name
		}
	}
	panic("yongshin: priority rules must end with a catch-all")
}

// pickSecondary prefers the other pool, then the same-pool runner-up.
// A candidate must differ from the primary, must not control it, and must
// score within the gap of it.
func pickSecondary(primary chart.CandidateScore, otherPool, samePool []chart.CandidateScore) *ganji.Element {
	for _, pool := range [][]chart.CandidateScore{otherPool, samePool} {
		for _, c := range pool {
			if c.Element == primary.Element || c.Element.Controls() == primary.Element {
				continue
			}
			if primary.Score.Sub(c.Score).Abs().GreaterThanOrEqual(secondaryGap) {
				break
			}
			e := c.Element
			return &e
		}
	}
	return nil
}

// supporting returns the generator of the primary and the primary itself
// when scarce, falling back to the generator alone
func supporting(primary ganji.Element, p *chart.FiveElementProfile) []ganji.Element {
	out := make([]ganji.Element, 0, 2)
	for _, e := range []ganji.Element{primary.GeneratedBy(), primary} {
		if p.Is(e, chart.LevelMissing, chart.LevelDeficient) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		out = append(out, primary.GeneratedBy())
	}
	return out
}

// conflicting returns up to two excess elements by score plus the
// strength-dependent elements that are also in excess, never the primary
func conflicting(primary ganji.Element, level chart.StrengthLevel, day ganji.Element, p *chart.FiveElementProfile) []ganji.Element {
	excess := p.ElementsAt(chart.LevelExcess)
	sort.SliceStable(excess, func(i, j int) bool {
		return p.Scores[excess[i]].GreaterThan(p.Scores[excess[j]])
	})
	if len(excess) > maxExcessGishin {
		excess = excess[:maxExcessGishin]
	}

	var extra []ganji.Element
	switch level {
	case chart.StrengthStrong:
		extra = []ganji.Element{day.GeneratedBy(), day}
	case chart.StrengthWeak:
		extra = []ganji.Element{day.Generates(), day.ControlledBy()}
	}

	out := make([]ganji.Element, 0, 4)
	for _, e := range excess {
		if e != primary && !contains(out, e) {
			out = append(out, e)
		}
	}
	for _, e := range extra {
		if e != primary && !contains(out, e) && p.Is(e, chart.LevelExcess) {
			out = append(out, e)
		}
	}
	return out
}

func confidenceOf(top, climate decimal.Decimal) chart.Confidence {
	diff := top.Sub(climate).Abs()
	switch {
	case diff.GreaterThanOrEqual(confidenceHigh):
		return chart.ConfidenceHigh
	case diff.GreaterThanOrEqual(confidenceMid):
		return chart.ConfidenceMedium
	default:
		return chart.ConfidenceLow
	}
}

func contains(set []ganji.Element, e ganji.Element) bool {
	for _, x := range set {
		if x == e {
			return true
		}
	}
	return false
}

// ordered dedupes and sorts elements into generation order
func ordered(es []ganji.Element) []ganji.Element {
	out := make([]ganji.Element, 0, len(es))
	for _, e := range ganji.Elements {
		if contains(es, e) {
			out = append(out, e)
		}
	}
	return out
}

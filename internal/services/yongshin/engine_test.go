package yongshin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saju/internal/domain/calendar"
	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
	"saju/internal/services/chartbuilder"
	"saju/internal/services/elements"
	"saju/internal/services/strength"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type analysed struct {
	chart    chart.Chart
	profile  chart.FiveElementProfile
	strength chart.DayMasterStrength
}

func analyse(year, month, day, hour string) analysed {
	c := chartbuilder.Build(calendar.RawPillars{
		Year:  ganji.MustParsePillar(year),
		Month: ganji.MustParsePillar(month),
		Day:   ganji.MustParsePillar(day),
		Hour:  ganji.MustParsePillar(hour),
	}, true)
	p := elements.New(elements.DefaultOptions()).Profile(&c)
	return analysed{chart: c, profile: p, strength: strength.Score(&c)}
}

func (a *analysed) decide() chart.Yongshin {
	return Decide(Input{Chart: &a.chart, Profile: &a.profile, Strength: a.strength})
}

func scoreOf(t *testing.T, cs []chart.CandidateScore, e ganji.Element) decimal.Decimal {
	t.Helper()
	for _, c := range cs {
		if c.Element == e {
			return c.Score
		}
	}
	t.Fatalf("no candidate for %s", e)
	return decimal.Zero
}

func TestDecide_WinterWithoutFireNeedsFire(t *testing.T) {
	// metal day master born in the 子 month, no fire anywhere
	a := analyse("壬子", "壬子", "庚子", "庚辰")
	require.Zero(t, a.profile.Counts[ganji.Fire])
	require.Equal(t, chart.StrengthWeak, a.strength.Level)

	y := a.decide()

	assert.Equal(t, ganji.Fire, y.Primary)
	assert.Equal(t, chart.DecisionClimate, y.DecisionType)
	assert.Equal(t, RuleClimateMargin, y.Evidence.Rule)
	assert.Equal(t, ganji.Winter, y.Evidence.Season)

	assert.True(t, y.Evidence.ClimateScore.Equal(dec("5.8")), y.Evidence.ClimateScore.String())
	assert.True(t, y.Evidence.TopBalanceScore.Equal(dec("4.5")), y.Evidence.TopBalanceScore.String())
	// earth and metal tie; earth comes first in element order
	assert.Equal(t, ganji.Earth, y.Evidence.Balance[0].Element)
	assert.Equal(t, ganji.Metal, y.Evidence.Balance[1].Element)

	require.NotNil(t, y.Secondary)
	assert.Equal(t, ganji.Earth, *y.Secondary)
	assert.Equal(t, chart.ConfidenceLow, y.Confidence)
	assert.Equal(t, []ganji.Element{ganji.Wood, ganji.Fire}, y.Heeshin)
	assert.Equal(t, []ganji.Element{ganji.Water}, y.Gishin)
}

func TestDecide_NeutralSummerChart(t *testing.T) {
	// 1990-05-15 12:00
	a := analyse("庚午", "辛巳", "庚辰", "壬午")
	require.Equal(t, chart.StrengthNeutral, a.strength.Level)

	y := a.decide()

	require.Len(t, y.Evidence.Balance, 5, "neutral takes both pools")
	assert.True(t, scoreOf(t, y.Evidence.Balance, ganji.Wood).Equal(dec("5.5")))
	assert.True(t, scoreOf(t, y.Evidence.Balance, ganji.Water).Equal(dec("3.5")))
	assert.True(t, scoreOf(t, y.Evidence.Balance, ganji.Earth).Equal(dec("0.7")))
	assert.True(t, scoreOf(t, y.Evidence.Balance, ganji.Fire).Equal(dec("-4.6")))
	assert.Equal(t, ganji.Water, y.Evidence.Climate.Element)
	assert.True(t, y.Evidence.ClimateScore.Equal(dec("4.8")))

	assert.Equal(t, ganji.Wood, y.Primary)
	assert.Equal(t, chart.DecisionBalance, y.DecisionType)
	assert.Equal(t, RuleBalance, y.Evidence.Rule)
	require.NotNil(t, y.Secondary)
	assert.Equal(t, ganji.Water, *y.Secondary)
	assert.Equal(t, chart.ConfidenceLow, y.Confidence)
	assert.Equal(t, []ganji.Element{ganji.Water, ganji.Wood}, y.Heeshin)
	assert.Equal(t, []ganji.Element{ganji.Fire}, y.Gishin)
}

func TestDecide_TermBreakdownSumsToScore(t *testing.T) {
	a := analyse("庚午", "辛巳", "庚辰", "壬午")
	y := a.decide()

	all := append([]chart.CandidateScore{y.Evidence.Climate}, y.Evidence.Balance...)
	for _, c := range all {
		sum := decimal.Zero
		for _, term := range c.Terms {
			sum = sum.Add(term.Value)
		}
		assert.True(t, sum.Equal(c.Score), "%s %s", c.Pool, c.Element)
	}
}

func TestDecide_PrimaryNeverInGishin(t *testing.T) {
	months := []string{"丙寅", "戊辰", "庚午", "壬申", "甲戌", "丙子"}
	for i := 0; i < 60; i++ {
		day := ganji.PillarFromIndex(i)
		for _, month := range months {
			hour := ganji.PillarFromIndex(i * 7)
			a := analyse("甲子", month, day.String(), hour.String())
			y := a.decide()

			assert.NotContains(t, y.Gishin, y.Primary, "%s %s", month, day)
			assert.LessOrEqual(t, len(y.Heeshin), 2)
			assert.NotEmpty(t, y.Heeshin)
			if y.Secondary != nil {
				assert.NotEqual(t, y.Primary, *y.Secondary)
				assert.NotEqual(t, y.Primary, y.Secondary.Controls())
			}
		}
	}
}

func TestBalanceCandidates(t *testing.T) {
	assert.Equal(t, []ganji.Element{ganji.Fire, ganji.Earth, ganji.Metal},
		BalanceCandidates(chart.StrengthStrong, ganji.Wood))
	assert.Equal(t, []ganji.Element{ganji.Water, ganji.Wood},
		BalanceCandidates(chart.StrengthWeak, ganji.Wood))
	assert.Equal(t, ganji.Elements[:], BalanceCandidates(chart.StrengthNeutral, ganji.Wood))
	assert.Nil(t, SuitableSet(chart.StrengthNeutral, ganji.Wood))
}

func TestClimateCandidate(t *testing.T) {
	tests := []struct {
		season ganji.Season
		day    ganji.Element
		want   ganji.Element
	}{
		{ganji.Summer, ganji.Wood, ganji.Water},
		{ganji.Summer, ganji.Metal, ganji.Water},
		{ganji.Winter, ganji.Fire, ganji.Fire},
		{ganji.Winter, ganji.Water, ganji.Fire},
		{ganji.Spring, ganji.Wood, ganji.Metal},
		{ganji.Spring, ganji.Earth, ganji.Fire},
		{ganji.Autumn, ganji.Metal, ganji.Fire},
		{ganji.Autumn, ganji.Wood, ganji.Water},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClimateCandidate(tt.season, tt.day), "%s/%s", tt.season, tt.day)
	}

	// every month branch and day element has a rule
	for i := 0; i < 12; i++ {
		b := ganji.Branch(i)
		for _, e := range ganji.Elements {
			assert.NotPanics(t, func() { ClimateCandidate(b.Season(), e) }, "%s/%s", b, e)
		}
	}

	assert.Panics(t, func() { ClimateCandidate(ganji.Season("monsoon"), ganji.Wood) })
}

func TestResolvePriority(t *testing.T) {
	cand := func(e ganji.Element, score string) chart.CandidateScore {
		return chart.CandidateScore{Element: e, Score: dec(score)}
	}

	tests := []struct {
		name     string
		in       priorityInput
		decision chart.DecisionType
		rule     string
	}{
		{
			name:     "extreme margin exceeded",
			in:       priorityInput{top: cand(ganji.Wood, "3"), climate: cand(ganji.Fire, "4.3"), extreme: true},
			decision: chart.DecisionClimate,
			rule:     RuleClimateMargin,
		},
		{
			name:     "extreme margin not exceeded",
			in:       priorityInput{top: cand(ganji.Wood, "3"), climate: cand(ganji.Fire, "4.2"), extreme: true},
			decision: chart.DecisionBalance,
			rule:     RuleBalance,
		},
		{
			name:     "temperate needs a wider margin",
			in:       priorityInput{top: cand(ganji.Wood, "3"), climate: cand(ganji.Fire, "4.3")},
			decision: chart.DecisionBalance,
			rule:     RuleBalance,
		},
		{
			name:     "temperate margin exceeded",
			in:       priorityInput{top: cand(ganji.Wood, "3"), climate: cand(ganji.Fire, "5.1")},
			decision: chart.DecisionClimate,
			rule:     RuleClimateMargin,
		},
		{
			name:     "excess top within tolerance",
			in:       priorityInput{top: cand(ganji.Wood, "3"), climate: cand(ganji.Fire, "2.2"), topInExcess: true},
			decision: chart.DecisionClimate,
			rule:     RuleBalanceExcess,
		},
		{
			name:     "excess top beyond tolerance",
			in:       priorityInput{top: cand(ganji.Wood, "3"), climate: cand(ganji.Fire, "2.1"), topInExcess: true},
			decision: chart.DecisionBalance,
			rule:     RuleBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, rule := resolvePriority(tt.in)
			assert.Equal(t, tt.decision, decision)
			assert.Equal(t, tt.rule, rule)
		})
	}

	last := priorityRules[len(priorityRules)-1]
	assert.True(t, last.when(priorityInput{}), "last priority rule is a catch-all")
}

func TestPickSecondary(t *testing.T) {
	cand := func(e ganji.Element, score string) chart.CandidateScore {
		return chart.CandidateScore{Element: e, Score: dec(score)}
	}
	primary := cand(ganji.Fire, "5")

	t.Run("other pool preferred", func(t *testing.T) {
		got := pickSecondary(primary, []chart.CandidateScore{cand(ganji.Earth, "2")}, []chart.CandidateScore{cand(ganji.Wood, "4.5")})
		require.NotNil(t, got)
		assert.Equal(t, ganji.Earth, *got)
	})

	t.Run("controller of primary skipped", func(t *testing.T) {
		got := pickSecondary(primary, []chart.CandidateScore{cand(ganji.Water, "4.9"), cand(ganji.Metal, "3")}, nil)
		require.NotNil(t, got)
		assert.Equal(t, ganji.Metal, *got)
	})

	t.Run("gap falls back to runner-up", func(t *testing.T) {
		got := pickSecondary(primary, []chart.CandidateScore{cand(ganji.Earth, "1")}, []chart.CandidateScore{cand(ganji.Wood, "1.5")})
		require.NotNil(t, got)
		assert.Equal(t, ganji.Wood, *got)
	})

	t.Run("nothing within gap", func(t *testing.T) {
		got := pickSecondary(primary, []chart.CandidateScore{cand(ganji.Earth, "1")}, []chart.CandidateScore{cand(ganji.Wood, "0.9")})
		assert.Nil(t, got)
	})

	t.Run("same element rejected", func(t *testing.T) {
		got := pickSecondary(primary, []chart.CandidateScore{cand(ganji.Fire, "5")}, nil)
		assert.Nil(t, got)
	})
}

func TestSupporting_Fallback(t *testing.T) {
	p := &chart.FiveElementProfile{Levels: map[ganji.Element]chart.ElementLevel{
		ganji.Wood: chart.LevelBalanced, ganji.Fire: chart.LevelBalanced,
		ganji.Earth: chart.LevelBalanced, ganji.Metal: chart.LevelBalanced, ganji.Water: chart.LevelBalanced,
	}}
	assert.Equal(t, []ganji.Element{ganji.Wood}, supporting(ganji.Fire, p))

	p.Levels[ganji.Fire] = chart.LevelDeficient
	assert.Equal(t, []ganji.Element{ganji.Fire}, supporting(ganji.Fire, p))
}

func TestConflicting(t *testing.T) {
	p := &chart.FiveElementProfile{
		Levels: map[ganji.Element]chart.ElementLevel{
			ganji.Wood: chart.LevelExcess, ganji.Fire: chart.LevelExcess,
			ganji.Earth: chart.LevelBalanced, ganji.Metal: chart.LevelMissing, ganji.Water: chart.LevelExcess,
		},
		Scores: map[ganji.Element]decimal.Decimal{
			ganji.Wood: dec("6"), ganji.Fire: dec("7"),
			ganji.Earth: dec("2"), ganji.Metal: dec("0"), ganji.Water: dec("5"),
		},
	}

	// two excess by score, then strong additions (resource water, same wood)
	assert.Equal(t, []ganji.Element{ganji.Fire, ganji.Wood, ganji.Water},
		conflicting(ganji.Metal, chart.StrengthStrong, ganji.Wood, p))

	// weak additions for a wood day master are fire and metal; metal is not excess
	assert.Equal(t, []ganji.Element{ganji.Fire, ganji.Wood},
		conflicting(ganji.Water, chart.StrengthWeak, ganji.Wood, p))

	// the primary is dropped even when it is the largest excess
	assert.Equal(t, []ganji.Element{ganji.Wood},
		conflicting(ganji.Fire, chart.StrengthNeutral, ganji.Wood, p))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, chart.ConfidenceHigh, confidenceOf(dec("6"), dec("3")))
	assert.Equal(t, chart.ConfidenceHigh, confidenceOf(dec("1"), dec("4.5")))
	assert.Equal(t, chart.ConfidenceMedium, confidenceOf(dec("4"), dec("2.5")))
	assert.Equal(t, chart.ConfidenceLow, confidenceOf(dec("4"), dec("2.6")))
}

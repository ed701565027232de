package chart

import (
	"github.com/shopspring/decimal"

	"saju/internal/domain/ganji"
)

// ElementLevel classifies an element's abundance against the chart mean
type ElementLevel string

const (
	LevelMissing   ElementLevel = "missing"
	LevelDeficient ElementLevel = "deficient"
	LevelBalanced  ElementLevel = "balanced"
	LevelStrong    ElementLevel = "strong"
	LevelExcess    ElementLevel = "excess"
)

// Valid checks if level is valid
func (l ElementLevel) Valid() bool {
	switch l {
	case LevelMissing, LevelDeficient, LevelBalanced, LevelStrong, LevelExcess:
		return true
	}
	return false
}

// String returns string representation
func (l ElementLevel) String() string {
	return string(l)
}

// FiveElementProfile aggregates elemental abundance across the chart
type FiveElementProfile struct {
	// Counts holds one unit per surface stem/branch (8, or 6 with unknown hour)
	Counts map[ganji.Element]int `json:"counts" yaml:"counts"`
	// Scores are the weighted totals including hidden stems when enabled
	Scores map[ganji.Element]decimal.Decimal `json:"scores" yaml:"scores"`
	Mean   decimal.Decimal                   `json:"mean" yaml:"mean"`
	Levels map[ganji.Element]ElementLevel    `json:"levels" yaml:"levels"`

	Positions     int  `json:"positions" yaml:"positions"`
	HiddenCounted bool `json:"hidden_counted" yaml:"hidden_counted"`
}

// ElementsAt returns the elements at a level in generation order
func (p *FiveElementProfile) ElementsAt(level ElementLevel) []ganji.Element {
	out := make([]ganji.Element, 0, 5)
	for _, e := range ganji.Elements {
		if p.Levels[e] == level {
			out = append(out, e)
		}
	}
	return out
}

// Is reports whether element e sits at one of the given levels
func (p *FiveElementProfile) Is(e ganji.Element, levels ...ElementLevel) bool {
	for _, l := range levels {
		if p.Levels[e] == l {
			return true
		}
	}
	return false
}

// StrengthLevel is the categorical day-master strength
type StrengthLevel string

const (
	StrengthStrong  StrengthLevel = "strong"
	StrengthWeak    StrengthLevel = "weak"
	StrengthNeutral StrengthLevel = "neutral"
)

// Valid checks if strength level is valid
func (s StrengthLevel) Valid() bool {
	return s == StrengthStrong || s == StrengthWeak || s == StrengthNeutral
}

// String returns string representation
func (s StrengthLevel) String() string {
	return string(s)
}

// DayMasterStrength is the strength verdict with its three sub-scores
type DayMasterStrength struct {
	Level           StrengthLevel `json:"level" yaml:"level"`
	SeasonalCommand int           `json:"seasonal_command" yaml:"seasonal_command"`
	Rootedness      int           `json:"rootedness" yaml:"rootedness"`
	HeavenlySupport int           `json:"heavenly_support" yaml:"heavenly_support"`
	Total           int           `json:"total" yaml:"total"`
}

// DecisionType tells which pool produced the primary Yongshin
type DecisionType string

const (
	DecisionBalance DecisionType = "balance" // 억부
	DecisionClimate DecisionType = "climate" // 조후
)

// String returns string representation
func (d DecisionType) String() string {
	return string(d)
}

// Confidence measures how contested the primary-type decision was
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// String returns string representation
func (c Confidence) String() string {
	return string(c)
}

// ScoreTerm is one named addend of a candidate score
type ScoreTerm struct {
	Name  string          `json:"name" yaml:"name"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// CandidateScore is a scored Yongshin candidate with its breakdown
type CandidateScore struct {
	Element ganji.Element   `json:"element" yaml:"element"`
	Pool    DecisionType    `json:"pool" yaml:"pool"`
	Score   decimal.Decimal `json:"score" yaml:"score"`
	Terms   []ScoreTerm     `json:"terms" yaml:"terms"`
}

// YongshinEvidence keeps the inputs of the decision for explainability
type YongshinEvidence struct {
	Season          ganji.Season     `json:"season" yaml:"season"`
	Strength        StrengthLevel    `json:"strength" yaml:"strength"`
	Rootedness      int              `json:"rootedness" yaml:"rootedness"`
	Balance         []CandidateScore `json:"balance" yaml:"balance"`
	Climate         CandidateScore   `json:"climate" yaml:"climate"`
	TopBalanceScore decimal.Decimal  `json:"top_balance_score" yaml:"top_balance_score"`
	ClimateScore    decimal.Decimal  `json:"climate_score" yaml:"climate_score"`
	Rule            string           `json:"rule" yaml:"rule"`
}

// Yongshin is the useful-element decision
type Yongshin struct {
	Primary      ganji.Element    `json:"primary" yaml:"primary"`
	Secondary    *ganji.Element   `json:"secondary" yaml:"secondary"`
	Heeshin      []ganji.Element  `json:"heeshin" yaml:"heeshin"`
	Gishin       []ganji.Element  `json:"gishin" yaml:"gishin"`
	DecisionType DecisionType     `json:"decision_type" yaml:"decision_type"`
	Confidence   Confidence       `json:"confidence" yaml:"confidence"`
	Evidence     YongshinEvidence `json:"evidence" yaml:"evidence"`
}

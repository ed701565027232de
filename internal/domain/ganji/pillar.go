package ganji

import (
	"saju/pkg/errors"
)

// Pillar is a stem/branch pair from the sexagenary cycle
type Pillar struct {
	Stem   Stem   `json:"stem" yaml:"stem"`
	Branch Branch `json:"branch" yaml:"branch"`
}

// NewPillar validates that stem and branch share positional polarity
func NewPillar(stem Stem, branch Branch) (Pillar, error) {
	if !stem.Valid() || !branch.Valid() {
		return Pillar{}, errors.Wrapf(errors.ErrInvalidPillar, "%d/%d", stem, branch)
	}
	if stem.Polarity() != branch.Polarity() {
		return Pillar{}, errors.Wrapf(errors.ErrInvalidPillar, "%s%s", stem, branch)
	}
	return Pillar{Stem: stem, Branch: branch}, nil
}

// PillarFromIndex returns the pillar at position i of the 60-cycle (甲子 = 0)
func PillarFromIndex(i int) Pillar {
	i = mod(i, 60)
	return Pillar{Stem: Stem(i % 10), Branch: Branch(i % 12)}
}

// Index returns the position of the pillar in the 60-cycle
func (p Pillar) Index() int {
	return mod(6*int(p.Stem)-5*int(p.Branch), 60)
}

// Next steps the pillar n positions around the 60-cycle (negative steps back)
func (p Pillar) Next(n int) Pillar {
	return PillarFromIndex(p.Index() + n)
}

// String returns the two-character hanja form
func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// Decade returns the first pillar (a 甲 stem) of the ten-pillar run containing p
func (p Pillar) Decade() Pillar {
	return Pillar{Stem: Gap, Branch: p.Branch.Add(-int(p.Stem))}
}

// VoidPair returns the two branches missing from the pillar's decade
func (p Pillar) VoidPair() [2]Branch {
	start := p.Decade().Branch
	return [2]Branch{start.Add(10), start.Add(11)}
}

// IsVoid reports whether branch b is void relative to p's decade
func (p Pillar) IsVoid(b Branch) bool {
	pair := p.VoidPair()
	return b == pair[0] || b == pair[1]
}

// ParsePillar reads the two-character hanja form, e.g. "甲子"
func ParsePillar(text string) (Pillar, error) {
	runes := []rune(text)
	if len(runes) != 2 {
		return Pillar{}, errors.Wrapf(errors.ErrInvalidPillar, "%q", text)
	}
	s, err := ParseStem(string(runes[0]))
	if err != nil {
		return Pillar{}, err
	}
	b, err := ParseBranch(string(runes[1]))
	if err != nil {
		return Pillar{}, err
	}
	return NewPillar(s, b)
}

// MustParsePillar is ParsePillar for fixed tables; it panics on bad input
func MustParsePillar(text string) Pillar {
	p, err := ParsePillar(text)
	if err != nil {
		panic(err)
	}
	return p
}

package ganji

import (
	"fmt"

	"saju/pkg/errors"
)

// Element is one of the five phases
type Element uint8

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// Elements lists the five phases in generation order
var Elements = [5]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [5]string{"wood", "fire", "earth", "metal", "water"}
var elementHanja = [5]string{"木", "火", "土", "金", "水"}

// Valid checks if element is valid
func (e Element) Valid() bool {
	return e <= Water
}

// String returns string representation
func (e Element) String() string {
	if !e.Valid() {
		return fmt.Sprintf("element(%d)", uint8(e))
	}
	return elementNames[e]
}

// Hanja returns the single-character form
func (e Element) Hanja() string {
	if !e.Valid() {
		return "?"
	}
	return elementHanja[e]
}

// MarshalText renders the element by name
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses an element name
func (e *Element) UnmarshalText(text []byte) error {
	for i, name := range elementNames {
		if name == string(text) {
			*e = Element(i)
			return nil
		}
	}
	return errors.NewValidationError("element", "unknown element", string(text))
}

// Polarity is yin or yang
type Polarity string

const (
	Yang Polarity = "yang"
	Yin  Polarity = "yin"
)

// Valid checks if polarity is valid
func (p Polarity) Valid() bool {
	return p == Yang || p == Yin
}

// String returns string representation
func (p Polarity) String() string {
	return string(p)
}

// Opposite flips the polarity
func (p Polarity) Opposite() Polarity {
	if p == Yang {
		return Yin
	}
	return Yang
}

// Stem is one of the ten heavenly stems
type Stem uint8

const (
	Gap Stem = iota
	Eul
	Byeong
	Jeong
	Mu
	Gi
	Gyeong
	Sin
	Im
	Gye
)

var stemHanja = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
var stemNames = [10]string{"gap", "eul", "byeong", "jeong", "mu", "gi", "gyeong", "sin", "im", "gye"}

// Valid checks if stem is valid
func (s Stem) Valid() bool {
	return s <= Gye
}

// String returns the hanja form
func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stem(%d)", uint8(s))
	}
	return stemHanja[s]
}

// Name returns the romanized name
func (s Stem) Name() string {
	if !s.Valid() {
		return ""
	}
	return stemNames[s]
}

// Element returns the phase of the stem: consecutive pairs share one phase
func (s Stem) Element() Element {
	return Element(s / 2)
}

// Polarity returns yang for even positions and yin for odd
func (s Stem) Polarity() Polarity {
	if s%2 == 0 {
		return Yang
	}
	return Yin
}

// MarshalText renders the stem in hanja
func (s Stem) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts hanja or romanized names
func (s *Stem) UnmarshalText(text []byte) error {
	v, err := ParseStem(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStem accepts hanja or romanized names
func ParseStem(text string) (Stem, error) {
	for i := range stemHanja {
		if stemHanja[i] == text || stemNames[i] == text {
			return Stem(i), nil
		}
	}
	return 0, errors.NewValidationError("stem", "unknown stem", text)
}

// Branch is one of the twelve earthly branches
type Branch uint8

const (
	Ja Branch = iota
	Chuk
	In
	Myo
	Jin
	Sa
	O
	Mi
	Shin
	Yu
	Sul
	Hae
)

var branchHanja = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
var branchNames = [12]string{"ja", "chuk", "in", "myo", "jin", "sa", "o", "mi", "shin", "yu", "sul", "hae"}

var branchElements = [12]Element{
	Water, Earth, Wood, Wood, Earth, Fire,
	Fire, Earth, Metal, Metal, Earth, Water,
}

// Valid checks if branch is valid
func (b Branch) Valid() bool {
	return b <= Hae
}

// String returns the hanja form
func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("branch(%d)", uint8(b))
	}
	return branchHanja[b]
}

// Name returns the romanized name
func (b Branch) Name() string {
	if !b.Valid() {
		return ""
	}
	return branchNames[b]
}

// Element returns the phase of the branch
func (b Branch) Element() Element {
	return branchElements[b%12]
}

// Polarity returns the positional (form) polarity used for pillar pairing
func (b Branch) Polarity() Polarity {
	if b%2 == 0 {
		return Yang
	}
	return Yin
}

// EssencePolarity returns the polarity used when relating a branch to the
// day master. 子 and 午 act as yin, 巳 and 亥 act as yang.
func (b Branch) EssencePolarity() Polarity {
	switch b {
	case Ja, O:
		return Yin
	case Sa, Hae:
		return Yang
	}
	return b.Polarity()
}

// Add steps the branch around the twelve-cycle
func (b Branch) Add(n int) Branch {
	return Branch(mod(int(b)+n, 12))
}

// MarshalText renders the branch in hanja
func (b Branch) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts hanja or romanized names
func (b *Branch) UnmarshalText(text []byte) error {
	v, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBranch accepts hanja or romanized names
func ParseBranch(text string) (Branch, error) {
	for i := range branchHanja {
		if branchHanja[i] == text || branchNames[i] == text {
			return Branch(i), nil
		}
	}
	return 0, errors.NewValidationError("branch", "unknown branch", text)
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

package ganji

import (
	"github.com/shopspring/decimal"
)

// HiddenRole orders the stems buried in a branch
type HiddenRole string

const (
	HiddenResidual  HiddenRole = "residual"  // 餘氣
	HiddenSecondary HiddenRole = "secondary" // 中氣
	HiddenPrimary   HiddenRole = "primary"   // 正氣
)

// HiddenStem is one stem buried in a branch together with its dominance weight
type HiddenStem struct {
	Stem   Stem            `json:"stem" yaml:"stem"`
	Role   HiddenRole      `json:"role" yaml:"role"`
	Weight decimal.Decimal `json:"weight" yaml:"weight"`
}

var (
	weightResidual  = decimal.RequireFromString("0.3")
	weightSecondary = decimal.RequireFromString("0.5")
	weightPrimary   = decimal.RequireFromString("0.8")
	weightSolePair  = decimal.RequireFromString("0.9")
)

func residual(s Stem) HiddenStem  { return HiddenStem{Stem: s, Role: HiddenResidual, Weight: weightResidual} }
func secondary(s Stem) HiddenStem { return HiddenStem{Stem: s, Role: HiddenSecondary, Weight: weightSecondary} }
func primary(s Stem) HiddenStem   { return HiddenStem{Stem: s, Role: HiddenPrimary, Weight: weightPrimary} }
func primaryOfPair(s Stem) HiddenStem {
	return HiddenStem{Stem: s, Role: HiddenPrimary, Weight: weightSolePair}
}

var hiddenStemTable = [12][]HiddenStem{
	Ja:   {residual(Im), primaryOfPair(Gye)},
	Chuk: {residual(Gye), secondary(Sin), primary(Gi)},
	In:   {residual(Mu), secondary(Byeong), primary(Gap)},
	Myo:  {residual(Gap), primaryOfPair(Eul)},
	Jin:  {residual(Eul), secondary(Gye), primary(Mu)},
	Sa:   {residual(Mu), secondary(Gyeong), primary(Byeong)},
	O:    {residual(Byeong), secondary(Gi), primary(Jeong)},
	Mi:   {residual(Jeong), secondary(Eul), primary(Gi)},
	Shin: {residual(Mu), secondary(Im), primary(Gyeong)},
	Yu:   {residual(Gyeong), primaryOfPair(Sin)},
	Sul:  {residual(Sin), secondary(Jeong), primary(Mu)},
	Hae:  {residual(Mu), secondary(Gap), primary(Im)},
}

// HiddenStems returns a copy of the stems buried in b, residual first
func (b Branch) HiddenStems() []HiddenStem {
	src := hiddenStemTable[b%12]
	out := make([]HiddenStem, len(src))
	copy(out, src)
	return out
}

// TwelveStage is the life stage of a stem at a branch
type TwelveStage string

const (
	StageBirth      TwelveStage = "birth"      // 長生
	StageBath       TwelveStage = "bath"       // 沐浴
	StageCrown      TwelveStage = "crown"      // 冠帶
	StageOfficial   TwelveStage = "official"   // 建祿
	StagePeak       TwelveStage = "peak"       // 帝旺
	StageDecline    TwelveStage = "decline"    // 衰
	StageSickness   TwelveStage = "sickness"   // 病
	StageDeath      TwelveStage = "death"      // 死
	StageTomb       TwelveStage = "tomb"       // 墓
	StageExtinction TwelveStage = "extinction" // 絶
	StageConception TwelveStage = "conception" // 胎
	StageNurture    TwelveStage = "nurture"    // 養
)

var stageOrder = [12]TwelveStage{
	StageBirth, StageBath, StageCrown, StageOfficial, StagePeak, StageDecline,
	StageSickness, StageDeath, StageTomb, StageExtinction, StageConception, StageNurture,
}

// Branch where each stem is born. 戊 follows 丙 and 己 follows 丁.
var stageBirthBranch = [10]Branch{
	Gap: Hae, Eul: O, Byeong: In, Jeong: Yu, Mu: In,
	Gi: Yu, Gyeong: Sa, Sin: Ja, Im: Shin, Gye: Myo,
}

var twelveStageTable = buildStageTable()

// Yang stems advance through the branches, yin stems retreat.
func buildStageTable() [10][12]TwelveStage {
	var table [10][12]TwelveStage
	for s := Gap; s <= Gye; s++ {
		start := int(stageBirthBranch[s])
		for b := 0; b < 12; b++ {
			step := b - start
			if s.Polarity() == Yin {
				step = start - b
			}
			table[s][b] = stageOrder[mod(step, 12)]
		}
	}
	return table
}

// TwelveStageOf returns the stage of stem s at branch b
func TwelveStageOf(s Stem, b Branch) TwelveStage {
	return twelveStageTable[s%10][b%12]
}

// TwelveSpirit is the spirit of a branch relative to a reference branch
type TwelveSpirit string

const (
	SpiritRobbery      TwelveSpirit = "robbery"       // 劫煞
	SpiritCalamity     TwelveSpirit = "calamity"      // 災煞
	SpiritHeaven       TwelveSpirit = "heaven"        // 天煞
	SpiritEarth        TwelveSpirit = "earth"         // 地煞
	SpiritPeachBlossom TwelveSpirit = "peach_blossom" // 年煞
	SpiritMonth        TwelveSpirit = "month"         // 月煞
	SpiritLoss         TwelveSpirit = "loss"          // 亡身
	SpiritGeneral      TwelveSpirit = "general"       // 將星
	SpiritSaddle       TwelveSpirit = "saddle"        // 攀鞍
	SpiritHorse        TwelveSpirit = "horse"         // 驛馬
	SpiritSixHarm      TwelveSpirit = "six_harm"      // 六害
	SpiritCanopy       TwelveSpirit = "canopy"        // 華蓋
)

var spiritOrder = [12]TwelveSpirit{
	SpiritRobbery, SpiritCalamity, SpiritHeaven, SpiritEarth, SpiritPeachBlossom, SpiritMonth,
	SpiritLoss, SpiritGeneral, SpiritSaddle, SpiritHorse, SpiritSixHarm, SpiritCanopy,
}

// TwelveSpiritOf returns the spirit of target keyed by the triad of ref.
// The robbery spirit sits three branches before the triad's birth branch.
func TwelveSpiritOf(ref, target Branch) TwelveSpirit {
	start := ref.Triad().Members[0].Add(-3)
	return spiritOrder[mod(int(target)-int(start), 12)]
}

// Triad is a three-branch harmony (三合)
type Triad struct {
	Element Element   `json:"element" yaml:"element"`
	Members [3]Branch `json:"members" yaml:"members"` // birth, cardinal, tomb
}

// indexed by branch mod 4: triad members sit four positions apart
var triads = [4]Triad{
	{Element: Water, Members: [3]Branch{Shin, Ja, Jin}},
	{Element: Metal, Members: [3]Branch{Sa, Yu, Chuk}},
	{Element: Fire, Members: [3]Branch{In, O, Sul}},
	{Element: Wood, Members: [3]Branch{Hae, Myo, Mi}},
}

// Triad returns the harmony b belongs to
func (b Branch) Triad() Triad {
	return triads[mod(int(b), 4)]
}

// Cardinal returns the middle branch of the triad
func (t Triad) Cardinal() Branch {
	return t.Members[1]
}

// Season groups month branches into the four seasons
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

var branchSeason = [12]Season{
	Ja: Winter, Chuk: Winter, In: Spring, Myo: Spring, Jin: Spring, Sa: Summer,
	O: Summer, Mi: Summer, Shin: Autumn, Yu: Autumn, Sul: Autumn, Hae: Winter,
}

// Season returns the season of a month branch
func (b Branch) Season() Season {
	return branchSeason[b%12]
}

// Extreme reports whether the season is summer or winter
func (s Season) Extreme() bool {
	return s == Summer || s == Winter
}

// String returns string representation
func (s Season) String() string {
	return string(s)
}

// SixCombines reports whether a and b form a six-combination (六合)
func SixCombines(a, b Branch) bool {
	return a != b && mod(int(a)+int(b), 12) == 1
}

// Clashes reports whether a and b sit opposite each other (沖)
func Clashes(a, b Branch) bool {
	return mod(int(a)-int(b), 12) == 6
}

// HalfTriad reports whether a and b are two members of one triad, one of
// them the cardinal branch
func HalfTriad(a, b Branch) bool {
	if a == b || a.Triad() != b.Triad() {
		return false
	}
	c := a.Triad().Cardinal()
	return a == c || b == c
}

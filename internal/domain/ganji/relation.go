package ganji

// Generates returns the element this one feeds (wood→fire→earth→metal→water→wood)
func (e Element) Generates() Element {
	return Element(mod(int(e)+1, 5))
}

// GeneratedBy returns the element that feeds this one
func (e Element) GeneratedBy() Element {
	return Element(mod(int(e)-1, 5))
}

// Controls returns the element this one restrains (wood→earth→water→fire→metal→wood)
func (e Element) Controls() Element {
	return Element(mod(int(e)+2, 5))
}

// ControlledBy returns the element that restrains this one
func (e Element) ControlledBy() Element {
	return Element(mod(int(e)-2, 5))
}

// Relation is the category of one element as seen from the day master's element
type Relation string

const (
	RelationPeer      Relation = "peer"      // same element
	RelationOutput    Relation = "output"    // day master generates it
	RelationWealth    Relation = "wealth"    // day master controls it
	RelationAuthority Relation = "authority" // it controls the day master
	RelationResource  Relation = "resource"  // it generates the day master
)

// RelationOf classifies target relative to self
func RelationOf(self, target Element) Relation {
	switch target {
	case self:
		return RelationPeer
	case self.Generates():
		return RelationOutput
	case self.Controls():
		return RelationWealth
	case self.ControlledBy():
		return RelationAuthority
	default:
		return RelationResource
	}
}

// ElementFor is the inverse of RelationOf
func ElementFor(self Element, r Relation) Element {
	switch r {
	case RelationOutput:
		return self.Generates()
	case RelationWealth:
		return self.Controls()
	case RelationAuthority:
		return self.ControlledBy()
	case RelationResource:
		return self.GeneratedBy()
	default:
		return self
	}
}

// TenGod is the relation of a chart position to the day master
type TenGod string

const (
	TenGodFriend           TenGod = "friend"            // 比肩
	TenGodRobWealth        TenGod = "rob_wealth"        // 劫財
	TenGodEatingGod        TenGod = "eating_god"        // 食神
	TenGodHurtingOfficer   TenGod = "hurting_officer"   // 傷官
	TenGodIndirectWealth   TenGod = "indirect_wealth"   // 偏財
	TenGodDirectWealth     TenGod = "direct_wealth"     // 正財
	TenGodSevenKillings    TenGod = "seven_killings"    // 偏官
	TenGodDirectOfficer    TenGod = "direct_officer"    // 正官
	TenGodIndirectResource TenGod = "indirect_resource" // 偏印
	TenGodDirectResource   TenGod = "direct_resource"   // 正印
)

var tenGodHanja = map[TenGod]string{
	TenGodFriend:           "比肩",
	TenGodRobWealth:        "劫財",
	TenGodEatingGod:        "食神",
	TenGodHurtingOfficer:   "傷官",
	TenGodIndirectWealth:   "偏財",
	TenGodDirectWealth:     "正財",
	TenGodSevenKillings:    "偏官",
	TenGodDirectOfficer:    "正官",
	TenGodIndirectResource: "偏印",
	TenGodDirectResource:   "正印",
}

// [relation][samePolarity ? 0 : 1]
var tenGodTable = map[Relation][2]TenGod{
	RelationPeer:      {TenGodFriend, TenGodRobWealth},
	RelationOutput:    {TenGodEatingGod, TenGodHurtingOfficer},
	RelationWealth:    {TenGodIndirectWealth, TenGodDirectWealth},
	RelationAuthority: {TenGodSevenKillings, TenGodDirectOfficer},
	RelationResource:  {TenGodIndirectResource, TenGodDirectResource},
}

// Valid checks if the ten god is known
func (t TenGod) Valid() bool {
	_, ok := tenGodHanja[t]
	return ok
}

// String returns string representation
func (t TenGod) String() string {
	return string(t)
}

// Hanja returns the two-character form
func (t TenGod) Hanja() string {
	return tenGodHanja[t]
}

// Relation returns the five-way category of the ten god
func (t TenGod) Relation() Relation {
	for r, pair := range tenGodTable {
		if pair[0] == t || pair[1] == t {
			return r
		}
	}
	return ""
}

// SupportsDayMaster reports whether the ten god strengthens the day master
func (t TenGod) SupportsDayMaster() bool {
	r := t.Relation()
	return r == RelationPeer || r == RelationResource
}

// TenGodOf classifies an element/polarity pair against the day master
func TenGodOf(dayMaster Stem, element Element, polarity Polarity) TenGod {
	pair := tenGodTable[RelationOf(dayMaster.Element(), element)]
	if polarity == dayMaster.Polarity() {
		return pair[0]
	}
	return pair[1]
}

// StemTenGod classifies a stem against the day master
func StemTenGod(dayMaster, target Stem) TenGod {
	return TenGodOf(dayMaster, target.Element(), target.Polarity())
}

// BranchTenGod classifies a branch against the day master using its essence polarity
func BranchTenGod(dayMaster Stem, target Branch) TenGod {
	return TenGodOf(dayMaster, target.Element(), target.EssencePolarity())
}

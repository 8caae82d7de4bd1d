package domain

// Possibility is the ordinal probability-of-adoption bucket. Values look like
// percentages but must never be compared as strings: "100%" sorts before
// "90%" lexicographically. Always go through Rank.
type Possibility string

const (
	PossibilityNone    Possibility = "0%"
	PossibilityLow     Possibility = "40%"
	PossibilityHigh    Possibility = "90%"
	PossibilityClosing Possibility = "100%"
)

var possibilityRank = map[Possibility]int{
	PossibilityNone:    0,
	PossibilityLow:     1,
	PossibilityHigh:    2,
	PossibilityClosing: 3,
}

var possibilityWeight = map[Possibility]float64{
	PossibilityNone:    0.0,
	PossibilityLow:     0.4,
	PossibilityHigh:    0.9,
	PossibilityClosing: 1.0,
}

// Rank returns the ordinal position of the possibility bucket. Unrecognized
// tokens rank lowest; that is a documented fallback for dirty data, not an
// error.
func (p Possibility) Rank() int {
	return possibilityRank[p]
}

// Weight converts the bucket to the fractional probability used by expected
// revenue. Unrecognized tokens weigh 0.
func (p Possibility) Weight() float64 {
	return possibilityWeight[p]
}

// CustomerResponse is the ordinal reaction grade recorded per funnel stage:
// 상 (favorable), 중 (neutral), 하 (cold).
type CustomerResponse string

const (
	ResponseHigh CustomerResponse = "상"
	ResponseMid  CustomerResponse = "중"
	ResponseLow  CustomerResponse = "하"
)

var responseRank = map[CustomerResponse]int{
	ResponseLow:  0,
	ResponseMid:  1,
	ResponseHigh: 2,
}

// Rank returns the ordinal position of the response grade. Unrecognized
// tokens rank lowest.
func (r CustomerResponse) Rank() int {
	return responseRank[r]
}

// TrustLevel is the tier derived from the trust index. P1 is best.
type TrustLevel string

const (
	TrustP1 TrustLevel = "P1"
	TrustP2 TrustLevel = "P2"
	TrustP3 TrustLevel = "P3"
)

var trustLevelRank = map[TrustLevel]int{
	TrustP3: 0,
	TrustP2: 1,
	TrustP1: 2,
}

// Rank returns the ordinal position of the trust tier.
func (t TrustLevel) Rank() int {
	return trustLevelRank[t]
}

// TrustLevelFor derives the tier from a trust index. The data model expects
// stored (index, level) pairs to agree with this rule.
func TrustLevelFor(index int) TrustLevel {
	switch {
	case index >= 70:
		return TrustP1
	case index >= 40:
		return TrustP2
	default:
		return TrustP3
	}
}

// CompanySize is the ordinal size tier of the company.
type CompanySize string

const (
	SizeSmall      CompanySize = "startup"
	SizeMid        CompanySize = "smb"
	SizeMidLarge   CompanySize = "mid-market"
	SizeEnterprise CompanySize = "enterprise"
)

var companySizeRank = map[CompanySize]int{
	SizeSmall:      0,
	SizeMid:        1,
	SizeMidLarge:   2,
	SizeEnterprise: 3,
}

// Rank returns the ordinal position of the size tier.
func (s CompanySize) Rank() int {
	return companySizeRank[s]
}

// ExpectedRevenue weights a target revenue by the possibility bucket. A nil
// target counts as 0. Total function: it never fails, and a negative target
// (should not occur) is scaled, not clamped.
func ExpectedRevenue(targetRevenue *float64, possibility Possibility) float64 {
	if targetRevenue == nil {
		return 0
	}
	return *targetRevenue * possibility.Weight()
}

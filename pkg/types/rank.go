package types

import "strings"

// RankTable assigns a fixed order to enum-like field values so severity and
// workflow columns sort by meaning instead of lexicographically. Lookup is
// case-insensitive.
type RankTable map[string]int

func (t RankTable) Rank(v string) (int, bool) {
	r, ok := t[strings.ToLower(strings.TrimSpace(v))]
	return r, ok
}

// RiskLevelRank covers both the short and the long level labels the console
// uses across risks and vendors.
var RiskLevelRank = RankTable{
	"no risk":        0,
	"very low risk":  1,
	"very low":       1,
	"low risk":       2,
	"low":            2,
	"medium risk":    3,
	"medium":         3,
	"high risk":      4,
	"high":           4,
	"very high risk": 5,
	"very high":      5,
	"critical":       6,
}

// StatusRank follows the mitigation/task workflow order.
var StatusRank = RankTable{
	"not started":  0,
	"draft":        0,
	"in progress":  1,
	"in review":    2,
	"under review": 2,
	"completed":    3,
	"done":         3,
	"closed":       4,
	"overdue":      5,
}

// PriorityRank orders task priority chips.
var PriorityRank = RankTable{
	"low priority":    0,
	"low":             0,
	"medium priority": 1,
	"medium":          1,
	"high priority":   2,
	"high":            2,
}

package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

// Extractor maps a record to the group keys it belongs to under one grouping
// field. Multi-valued fields (tags, linked frameworks) return several keys
// and the record shows up in every one of those groups.
type Extractor func(r types.Record) []string

// GroupOrder controls how the groups themselves are ordered.
type GroupOrder string

const (
	GroupOrderFirstSeen GroupOrder = "first-seen"
	GroupOrderAlpha     GroupOrder = "alpha"
	GroupOrderCount     GroupOrder = "count"
)

// FallbackGroup is where records without a usable group key land. They are
// never dropped.
const FallbackGroup = "Other"

type Group struct {
	Key     string         `json:"key"`
	Members []types.Record `json:"members"`
	Order   int            `json:"order"`
}

// Classify buckets records by grouping field. Groups come back in first-seen
// order unless order asks for alphabetical or count-based ordering. A nil
// extractor or empty field means grouping is off and nil is returned.
func Classify(records []types.Record, field string, extract Extractor, fallback string, order GroupOrder) []Group {
	if field == "" || extract == nil {
		return nil
	}
	if fallback == "" {
		fallback = FallbackGroup
	}
	groups := make([]Group, 0)
	byKey := make(map[string]int)
	add := func(key string, r types.Record) {
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, Group{Key: key, Order: idx})
		}
		groups[idx].Members = append(groups[idx].Members, r)
	}
	for _, r := range records {
		keys := extract(r)
		seen := false
		for _, key := range keys {
			if strings.TrimSpace(key) == "" {
				continue
			}
			add(key, r)
			seen = true
		}
		if !seen {
			add(fallback, r)
		}
	}

	switch order {
	case GroupOrderAlpha:
		slices.SortStableFunc(groups, func(a, b Group) int {
			return strings.Compare(strings.ToLower(a.Key), strings.ToLower(b.Key))
		})
	case GroupOrderCount:
		slices.SortStableFunc(groups, func(a, b Group) int {
			return cmp.Compare(len(b.Members), len(a.Members))
		})
	}
	for i := range groups {
		groups[i].Order = i
	}
	return groups
}

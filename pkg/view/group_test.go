package view

import (
	"testing"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func ownerExtractor(r types.Record) []string {
	v, ok := types.MapAccessor(r, "owner")
	if !ok {
		return nil
	}
	return []string{types.AsString(v)}
}

func tagsExtractor(r types.Record) []string {
	v, ok := types.MapAccessor(r, "tags")
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, tag := range list {
		out = append(out, types.AsString(tag))
	}
	return out
}

func TestClassifyNoFieldIsNoop(t *testing.T) {
	records := []types.Record{{"owner": "alice"}}
	if groups := Classify(records, "", ownerExtractor, "", GroupOrderFirstSeen); groups != nil {
		t.Errorf("Expected nil groups without a field, got %v", groups)
	}
}

func TestClassifyFirstSeenOrder(t *testing.T) {
	records := []types.Record{
		{"id": "1", "owner": "bob"},
		{"id": "2", "owner": "alice"},
		{"id": "3", "owner": "bob"},
	}
	groups := Classify(records, "owner", ownerExtractor, "", GroupOrderFirstSeen)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "bob" || groups[1].Key != "alice" {
		t.Errorf("Expected first-seen order [bob alice], got [%s %s]", groups[0].Key, groups[1].Key)
	}
	if len(groups[0].Members) != 2 {
		t.Errorf("Expected bob to have 2 members, got %d", len(groups[0].Members))
	}
	if groups[0].Order != 0 || groups[1].Order != 1 {
		t.Errorf("Expected orders 0,1 got %d,%d", groups[0].Order, groups[1].Order)
	}
}

func TestClassifyFallbackGroup(t *testing.T) {
	records := []types.Record{
		{"id": "1", "owner": "alice"},
		{"id": "2"},
		{"id": "3", "owner": ""},
	}
	groups := Classify(records, "owner", ownerExtractor, "No Owner", GroupOrderFirstSeen)
	var fallback *Group
	for i := range groups {
		if groups[i].Key == "No Owner" {
			fallback = &groups[i]
		}
	}
	if fallback == nil {
		t.Fatalf("Expected a fallback group, got %v", groups)
	}
	if len(fallback.Members) != 2 {
		t.Errorf("Expected 2 records in fallback group, got %d", len(fallback.Members))
	}
}

func TestClassifyFanOutCoversEveryRecord(t *testing.T) {
	records := []types.Record{
		{"id": "1", "tags": []any{"pii", "prod"}},
		{"id": "2", "tags": []any{"prod"}},
		{"id": "3"},
	}
	groups := Classify(records, "tags", tagsExtractor, "", GroupOrderFirstSeen)
	memberships := make(map[string]int)
	total := 0
	for _, g := range groups {
		for _, m := range g.Members {
			memberships[m.Id()]++
			total++
		}
	}
	if total != 4 {
		t.Errorf("Expected 4 memberships with fan-out, got %d", total)
	}
	for _, r := range records {
		if memberships[r.Id()] == 0 {
			t.Errorf("Record %s was dropped by grouping", r.Id())
		}
	}
	if memberships["1"] != 2 {
		t.Errorf("Expected record 1 in two groups, got %d", memberships["1"])
	}
}

func TestClassifyAlphaAndCountOrder(t *testing.T) {
	records := []types.Record{
		{"id": "1", "owner": "zoe"},
		{"id": "2", "owner": "amy"},
		{"id": "3", "owner": "zoe"},
	}
	alpha := Classify(records, "owner", ownerExtractor, "", GroupOrderAlpha)
	if alpha[0].Key != "amy" || alpha[1].Key != "zoe" {
		t.Errorf("Expected alphabetical order [amy zoe], got [%s %s]", alpha[0].Key, alpha[1].Key)
	}
	byCount := Classify(records, "owner", ownerExtractor, "", GroupOrderCount)
	if byCount[0].Key != "zoe" {
		t.Errorf("Expected largest group first, got %s", byCount[0].Key)
	}
}

package view

import (
	"slices"
	"testing"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func names(records []types.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = types.AsString(r["name"])
	}
	return out
}

func TestSortNoneKeepsInputOrder(t *testing.T) {
	records := []types.Record{
		{"name": "c"},
		{"name": "a"},
		{"name": "b"},
	}
	Sort(records, types.SortConfig{Key: "name", Direction: types.DirectionNone}, types.MapAccessor, nil)
	expected := []string{"c", "a", "b"}
	if !slices.Equal(names(records), expected) {
		t.Errorf("Expected %v, got %v", expected, names(records))
	}
}

func TestSortStringCaseInsensitive(t *testing.T) {
	records := []types.Record{
		{"name": "banana"},
		{"name": "Apple"},
		{"name": "cherry"},
	}
	Sort(records, types.SortConfig{Key: "name", Direction: types.DirectionAsc}, types.MapAccessor, nil)
	expected := []string{"Apple", "banana", "cherry"}
	if !slices.Equal(names(records), expected) {
		t.Errorf("Expected %v, got %v", expected, names(records))
	}
}

func TestSortMissingValuesTrailInBothDirections(t *testing.T) {
	records := []types.Record{
		{"name": "b"},
		{"other": true},
		{"name": "a"},
		{"name": nil},
	}
	asc := slices.Clone(records)
	Sort(asc, types.SortConfig{Key: "name", Direction: types.DirectionAsc}, types.MapAccessor, nil)
	if got := names(asc); got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected present values first ascending, got %v", got)
	}
	if _, ok := types.MapAccessor(asc[2], "name"); ok {
		t.Errorf("Expected missing values last ascending, got %v", asc)
	}

	desc := slices.Clone(records)
	Sort(desc, types.SortConfig{Key: "name", Direction: types.DirectionDesc}, types.MapAccessor, nil)
	if got := names(desc); got[0] != "b" || got[1] != "a" {
		t.Errorf("Expected present values first descending, got %v", got)
	}
	if _, ok := types.MapAccessor(desc[2], "name"); ok {
		t.Errorf("Expected missing values last descending, got %v", desc)
	}

	// present values reverse exactly, the missing tail does not flip
	if asc[0]["name"] != desc[1]["name"] || asc[1]["name"] != desc[0]["name"] {
		t.Errorf("Expected present values reversed between directions, got %v vs %v", names(asc), names(desc))
	}
}

func TestSortNumericMissingAsZero(t *testing.T) {
	records := []types.Record{
		{"name": "big", "score": 10.0},
		{"name": "zero", "score": 0.0},
		{"name": "neg", "score": -2.0},
	}
	Sort(records, types.SortConfig{Key: "score", Direction: types.DirectionAsc}, types.MapAccessor, nil)
	expected := []string{"neg", "zero", "big"}
	if !slices.Equal(names(records), expected) {
		t.Errorf("Expected %v, got %v", expected, names(records))
	}
}

func TestSortRiskLevelUsesRankTable(t *testing.T) {
	records := []types.Record{
		{"risk_level": "Critical"},
		{"risk_level": "Low"},
		{"risk_level": "High"},
	}
	Sort(records, types.SortConfig{Key: "risk_level", Direction: types.DirectionAsc}, types.MapAccessor, types.RiskLevelRank)
	got := make([]string, len(records))
	for i, r := range records {
		got[i] = types.AsString(r["risk_level"])
	}
	expected := []string{"Low", "High", "Critical"}
	if !slices.Equal(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	records := []types.Record{
		{"name": "b"}, {"name": "a"}, {"name": "c"}, {"name": "a"},
	}
	cfg := types.SortConfig{Key: "name", Direction: types.DirectionAsc}
	Sort(records, cfg, types.MapAccessor, nil)
	once := names(records)
	Sort(records, cfg, types.MapAccessor, nil)
	if !slices.Equal(names(records), once) {
		t.Errorf("Expected %v after second sort, got %v", once, names(records))
	}
}

func TestSortDateStrings(t *testing.T) {
	records := []types.Record{
		{"name": "new", "due": "2026-03-01"},
		{"name": "old", "due": "2024-01-15"},
		{"name": "mid", "due": "2025-06-30T12:00:00Z"},
	}
	Sort(records, types.SortConfig{Key: "due", Direction: types.DirectionAsc}, types.MapAccessor, nil)
	expected := []string{"old", "mid", "new"}
	if !slices.Equal(names(records), expected) {
		t.Errorf("Expected %v, got %v", expected, names(records))
	}
}

func TestDirectionCycle(t *testing.T) {
	d := types.DirectionNone
	cycle := []types.Direction{types.DirectionAsc, types.DirectionDesc, types.DirectionNone, types.DirectionAsc}
	for i, expected := range cycle {
		d = d.Next()
		if d != expected {
			t.Errorf("Step %d: expected %v, got %v", i, expected, d)
		}
	}
}

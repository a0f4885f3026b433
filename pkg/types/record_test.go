package types

import "testing"

func TestIdCoercesNumericIds(t *testing.T) {
	cases := []struct {
		record Record
		want   string
	}{
		{Record{"id": "abc"}, "abc"},
		{Record{"id": float64(42)}, "42"},
		{Record{"id": 7}, "7"},
		{Record{}, ""},
		{Record{"id": nil}, ""},
	}
	for _, c := range cases {
		if got := c.record.Id(); got != c.want {
			t.Errorf("Expected id %q, got %q for %v", c.want, got, c.record)
		}
	}
}

func TestAsNumberParsesDates(t *testing.T) {
	n, ok := AsNumber("2025-03-01")
	if !ok || n <= 0 {
		t.Errorf("Expected date string to coerce to unix seconds, got %v %v", n, ok)
	}
	later, _ := AsNumber("2025-03-02T10:00:00Z")
	if later <= n {
		t.Errorf("Expected later date to compare greater, got %v <= %v", later, n)
	}
	if _, ok := AsNumber("not a date"); ok {
		t.Errorf("Expected non-numeric string to fail coercion")
	}
}

func TestRankIsCaseInsensitive(t *testing.T) {
	if r, ok := RiskLevelRank.Rank(" HIGH "); !ok || r != 4 {
		t.Errorf("Expected high to rank 4, got %d %v", r, ok)
	}
	if _, ok := RiskLevelRank.Rank("unknown"); ok {
		t.Errorf("Expected unknown level to miss the table")
	}
}

func TestDirectionCycle(t *testing.T) {
	if DirectionAsc.Next() != DirectionDesc || DirectionDesc.Next() != DirectionNone || DirectionNone.Next() != DirectionAsc {
		t.Errorf("Expected asc -> desc -> none -> asc cycle")
	}
}

func TestSanitizeRepairsPreference(t *testing.T) {
	p := TablePreference{Sort: SortConfig{Key: "name", Direction: "sideways"}, PageSize: -1}
	p.Sanitize()
	if p.Sort.Direction != DirectionNone || p.PageSize != DefaultPageSize {
		t.Errorf("Expected repaired preference, got %+v", p)
	}
}

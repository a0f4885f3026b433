package view

import (
	"fmt"
	"testing"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func makeRecords(n int) []types.Record {
	records := make([]types.Record, n)
	for i := range records {
		records[i] = types.Record{"id": fmt.Sprintf("%d", i+1)}
	}
	return records
}

func TestSliceSecondPage(t *testing.T) {
	records := makeRecords(12)
	result := Slice(records, PageState{PageIndex: 1, PageSize: 5})
	if len(result.Visible) != 5 {
		t.Fatalf("Expected 5 visible records, got %d", len(result.Visible))
	}
	if result.Visible[0].Id() != "6" || result.Visible[4].Id() != "10" {
		t.Errorf("Expected records 6-10, got %s-%s", result.Visible[0].Id(), result.Visible[4].Id())
	}
	if result.RangeLabel != "6 - 10" {
		t.Errorf("Expected range label 6 - 10, got %q", result.RangeLabel)
	}
}

func TestSliceFirstPageClampedToCount(t *testing.T) {
	records := makeRecords(3)
	result := Slice(records, PageState{PageIndex: 0, PageSize: 10})
	if len(result.Visible) != 3 {
		t.Errorf("Expected min(N, count) visible records, got %d", len(result.Visible))
	}
	if result.RangeLabel != "1 - 3" {
		t.Errorf("Expected range label 1 - 3, got %q", result.RangeLabel)
	}
}

func TestSliceEmptyList(t *testing.T) {
	result := Slice([]types.Record{}, PageState{PageIndex: 0, PageSize: 10})
	if len(result.Visible) != 0 {
		t.Errorf("Expected no visible records, got %d", len(result.Visible))
	}
	if result.RangeLabel != "0 - 0" {
		t.Errorf("Expected range label 0 - 0, got %q", result.RangeLabel)
	}
}

func TestSlicePastTheEnd(t *testing.T) {
	records := makeRecords(4)
	result := Slice(records, PageState{PageIndex: 3, PageSize: 5})
	if len(result.Visible) != 0 {
		t.Errorf("Expected empty page past the end, got %d records", len(result.Visible))
	}
	if result.RangeLabel != "0 - 0" {
		t.Errorf("Expected range label 0 - 0, got %q", result.RangeLabel)
	}
}

func TestClampPageResetsWhenCountShrinks(t *testing.T) {
	page := ClampPage(PageState{PageIndex: 4, PageSize: 10}, 12)
	if page.PageIndex != 0 {
		t.Errorf("Expected page index reset to 0, got %d", page.PageIndex)
	}
	page = ClampPage(PageState{PageIndex: 1, PageSize: 10}, 12)
	if page.PageIndex != 1 {
		t.Errorf("Expected valid page index kept, got %d", page.PageIndex)
	}
}

func TestCapUnpaginated(t *testing.T) {
	records := makeRecords(150)
	capped := CapUnpaginated(records)
	if len(capped) != UnpaginatedCap {
		t.Errorf("Expected %d records, got %d", UnpaginatedCap, len(capped))
	}
}

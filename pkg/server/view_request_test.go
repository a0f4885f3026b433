package server

import (
	"net/url"
	"testing"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func TestParseViewQueryValues(t *testing.T) {
	query := url.Values{
		"query":   []string{"drift"},
		"sort":    []string{"risk_level"},
		"dir":     []string{"desc"},
		"group":   []string{"risk_owner"},
		"page":    []string{"2"},
		"size":    []string{"25"},
		"flt":     []string{"status:In progress", "priority:High"},
		"unknown": []string{"ignored"},
	}
	vr := &ViewRequest{}
	if err := viewQueryFromRequestQuery(query, vr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if vr.Query != "drift" {
		t.Errorf("Expected query drift, got %q", vr.Query)
	}
	if vr.Sort != "risk_level" || vr.Dir != "desc" {
		t.Errorf("Expected sort risk_level desc, got %q %q", vr.Sort, vr.Dir)
	}
	if vr.GroupBy != "risk_owner" {
		t.Errorf("Expected group risk_owner, got %q", vr.GroupBy)
	}
	if vr.Page != 2 || vr.PageSize != 25 {
		t.Errorf("Expected page 2 size 25, got %d %d", vr.Page, vr.PageSize)
	}
	if vr.Filters["status"] != "In progress" || vr.Filters["priority"] != "High" {
		t.Errorf("Expected field filters parsed, got %v", vr.Filters)
	}
	if !vr.HasExplicitSort() || !vr.HasExplicitPageSize() {
		t.Errorf("Expected explicit sort and page size flags set")
	}
}

func TestViewRequestFallsBackToPreference(t *testing.T) {
	vr := &ViewRequest{}
	if err := viewQueryFromRequestQuery(url.Values{"page": []string{"1"}}, vr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pref := types.TablePreference{
		Sort:     types.SortConfig{Key: "name", Direction: types.DirectionDesc},
		PageSize: 50,
	}
	req := vr.ToViewRequest(pref)
	if req.Sort.Key != "name" || req.Sort.Direction != types.DirectionDesc {
		t.Errorf("Expected persisted sort used, got %+v", req.Sort)
	}
	if req.Page.PageSize != 50 || req.Page.PageIndex != 1 {
		t.Errorf("Expected persisted page size with requested page, got %+v", req.Page)
	}
}

func TestViewRequestExplicitSortWins(t *testing.T) {
	vr := &ViewRequest{}
	query := url.Values{"sort": []string{"status"}, "dir": []string{"bogus"}}
	if err := viewQueryFromRequestQuery(query, vr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pref := types.TablePreference{Sort: types.SortConfig{Key: "name", Direction: types.DirectionAsc}, PageSize: 10}
	req := vr.ToViewRequest(pref)
	if req.Sort.Key != "status" {
		t.Errorf("Expected explicit sort key, got %q", req.Sort.Key)
	}
	if req.Sort.Direction != types.DirectionAsc {
		t.Errorf("Expected invalid direction to fall back to asc, got %v", req.Sort.Direction)
	}
}

func TestViewRequestEmptySortClearsOrdering(t *testing.T) {
	vr := &ViewRequest{}
	if err := viewQueryFromRequestQuery(url.Values{"sort": []string{""}}, vr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pref := types.TablePreference{Sort: types.SortConfig{Key: "name", Direction: types.DirectionAsc}, PageSize: 10}
	req := vr.ToViewRequest(pref)
	if req.Sort.Direction != types.DirectionNone {
		t.Errorf("Expected explicit empty sort to clear ordering, got %+v", req.Sort)
	}
}

func TestTableIdDefaultsToEntity(t *testing.T) {
	vr := &ViewRequest{}
	if got := vr.TableId("risks"); got != "risks" {
		t.Errorf("Expected entity as table id, got %q", got)
	}
	vr.Table = "vendor-risks"
	if got := vr.TableId("risks"); got != "vendor-risks" {
		t.Errorf("Expected explicit table id, got %q", got)
	}
}

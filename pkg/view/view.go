package view

import (
	"fmt"
	"strings"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

// Definition is the per-table wiring of the pipeline: which fields the free
// text filter searches, how grouping fields expand to keys and which columns
// carry a rank table instead of lexicographic order.
type Definition struct {
	Entity       string
	SearchFields []string
	Accessor     types.Accessor
	Extractors   map[string]Extractor
	Fallbacks    map[string]string
	Ranks        map[string]types.RankTable
}

// Request is everything one render of a table depends on.
type Request struct {
	Table          string
	Query          string
	Filters        map[string]string
	Sort           types.SortConfig
	GroupBy        string
	GroupOrder     GroupOrder
	Page           PageState
	HidePagination bool
}

// Result is either a flat page of rows or the full set of groups, never both.
type Result struct {
	Rows       []types.Record `json:"rows,omitempty"`
	Groups     []Group        `json:"groups,omitempty"`
	Grouped    bool           `json:"grouped"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalHits  int            `json:"totalHits"`
	RangeLabel string         `json:"rangeLabel"`
}

func (d *Definition) accessor() types.Accessor {
	if d.Accessor != nil {
		return d.Accessor
	}
	return types.MapAccessor
}

func (d *Definition) rankFor(field string) types.RankTable {
	if d.Ranks == nil {
		return nil
	}
	return d.Ranks[field]
}

// ExtractorFor falls back to a single-key extractor over the plain field
// value when the table has no dedicated one.
func (d *Definition) ExtractorFor(field string) Extractor {
	if ex, ok := d.Extractors[field]; ok {
		return ex
	}
	acc := d.accessor()
	return func(r types.Record) []string {
		v, ok := acc(r, field)
		if !ok {
			return nil
		}
		return []string{types.AsString(v)}
	}
}

// Filter applies the free text term and the exact field filters. Both are
// case-insensitive; an empty term and no filters return the input unchanged.
func (d *Definition) Filter(records []types.Record, query string, filters map[string]string) []types.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && len(filters) == 0 {
		return records
	}
	acc := d.accessor()
	out := make([]types.Record, 0, len(records))
next:
	for _, r := range records {
		for field, want := range filters {
			v, ok := acc(r, field)
			if !ok || !strings.EqualFold(types.AsString(v), want) {
				continue next
			}
		}
		if query != "" && !d.matchesQuery(r, query, acc) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (d *Definition) matchesQuery(r types.Record, query string, acc types.Accessor) bool {
	fields := d.SearchFields
	if len(fields) == 0 {
		for field := range r {
			if v, ok := acc(r, field); ok {
				if s, isString := v.(string); isString && strings.Contains(strings.ToLower(s), query) {
					return true
				}
			}
		}
		return false
	}
	for _, field := range fields {
		v, ok := acc(r, field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(types.AsString(v)), query) {
			return true
		}
	}
	return false
}

// Build runs the whole pipeline: filter, optional grouping, sort, paginate.
// Every step is pure and synchronous; the caller re-runs it on any state
// change.
func (d *Definition) Build(records []types.Record, req Request) Result {
	filtered := d.Filter(records, req.Query, req.Filters)
	acc := d.accessor()
	rank := d.rankFor(req.Sort.Key)

	if req.GroupBy != "" {
		fallback := d.Fallbacks[req.GroupBy]
		groups := Classify(filtered, req.GroupBy, d.ExtractorFor(req.GroupBy), fallback, req.GroupOrder)
		for i := range groups {
			Sort(groups[i].Members, req.Sort, acc, rank)
			// groups stay visually coherent: capped, never paginated
			if len(groups[i].Members) > UnpaginatedCap {
				groups[i].Members = groups[i].Members[:UnpaginatedCap]
			}
		}
		return Result{
			Groups:     groups,
			Grouped:    true,
			PageSize:   req.Page.PageSize,
			TotalHits:  len(filtered),
			RangeLabel: fullRangeLabel(len(filtered)),
		}
	}

	sorted := make([]types.Record, len(filtered))
	copy(sorted, filtered)
	Sort(sorted, req.Sort, acc, rank)

	if req.HidePagination {
		rows := CapUnpaginated(sorted)
		return Result{
			Rows:       rows,
			TotalHits:  len(sorted),
			PageSize:   len(rows),
			RangeLabel: fullRangeLabel(len(rows)),
		}
	}

	page := ClampPage(req.Page, len(sorted))
	pr := Slice(sorted, page)
	return Result{
		Rows:       pr.Visible,
		Page:       page.PageIndex,
		PageSize:   page.PageSize,
		TotalHits:  len(sorted),
		RangeLabel: pr.RangeLabel,
	}
}

func fullRangeLabel(count int) string {
	if count == 0 {
		return "0 - 0"
	}
	return fmt.Sprintf("1 - %d", count)
}

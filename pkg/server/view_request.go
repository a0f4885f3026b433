package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
	"github.com/bluewave-labs/verifywise-sub000/pkg/view"
)

// ViewRequest is the wire form of one table render: filters, sort, grouping
// and page state, all optional. Field filters arrive as repeated
// flt=field:value pairs.
type ViewRequest struct {
	Table          string `json:"table" schema:"table"`
	Query          string `json:"query" schema:"query"`
	Sort           string `json:"sort" schema:"sort"`
	Dir            string `json:"dir" schema:"dir"`
	GroupBy        string `json:"groupBy" schema:"group"`
	GroupOrder     string `json:"groupOrder" schema:"groupOrder"`
	Page           int    `json:"page" schema:"page"`
	PageSize       int    `json:"pageSize" schema:"size"`
	HidePagination bool   `json:"hidePagination" schema:"noPager"`

	Filters map[string]string `json:"filters" schema:"-"`

	hasSort     bool
	hasPageSize bool
}

func GetViewQueryFromRequest(r *http.Request, viewRequest *ViewRequest) error {
	return viewQueryFromRequestQuery(r.URL.Query(), viewRequest)
}

func viewQueryFromRequestQuery(query url.Values, result *ViewRequest) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	result.hasSort = query.Has("sort")
	result.hasPageSize = query.Has("size")
	decodeFiltersFromRequest(query, result)
	return nil
}

func decodeFiltersFromRequest(query url.Values, result *ViewRequest) {
	for _, v := range query["flt"] {
		field, value, ok := strings.Cut(v, ":")
		if !ok || field == "" {
			continue
		}
		if result.Filters == nil {
			result.Filters = make(map[string]string)
		}
		result.Filters[field] = value
	}
}

// TableId defaults to the entity name so every table has a preference slot
// even when the client does not name one.
func (v *ViewRequest) TableId(entity string) string {
	if v.Table != "" {
		return v.Table
	}
	return entity
}

// HasExplicitSort reports whether the client asked for a sort in this request
// (as opposed to falling back to the persisted preference).
func (v *ViewRequest) HasExplicitSort() bool {
	return v.hasSort
}

func (v *ViewRequest) HasExplicitPageSize() bool {
	return v.hasPageSize
}

func (v *ViewRequest) sortConfig(pref types.TablePreference) types.SortConfig {
	if !v.hasSort {
		return pref.Sort
	}
	dir := types.Direction(v.Dir)
	if !dir.Valid() {
		dir = types.DirectionAsc
	}
	if v.Sort == "" {
		dir = types.DirectionNone
	}
	return types.SortConfig{Key: v.Sort, Direction: dir}
}

func (v *ViewRequest) pageSize(pref types.TablePreference) int {
	if v.hasPageSize && v.PageSize > 0 {
		return v.PageSize
	}
	return pref.PageSize
}

// ToViewRequest folds the persisted preference into the request: explicit
// query parameters win, everything else falls back to what the table last
// used.
func (v *ViewRequest) ToViewRequest(pref types.TablePreference) view.Request {
	return view.Request{
		Table:          v.Table,
		Query:          v.Query,
		Filters:        v.Filters,
		Sort:           v.sortConfig(pref),
		GroupBy:        v.GroupBy,
		GroupOrder:     view.GroupOrder(v.GroupOrder),
		Page:           view.PageState{PageIndex: v.Page, PageSize: v.pageSize(pref)},
		HidePagination: v.HidePagination,
	}
}

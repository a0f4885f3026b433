package view

import (
	"fmt"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

// UnpaginatedCap bounds how many rows an embedded (hidePagination) table or a
// single group renders.
const UnpaginatedCap = 100

type PageState struct {
	PageIndex int `json:"page"`
	PageSize  int `json:"pageSize"`
}

type PageResult struct {
	Visible    []types.Record `json:"visible"`
	RangeLabel string         `json:"rangeLabel"`
}

// Slice returns the visible window of an ordered record list plus the
// "showing X - Y of N" label text. The label is 1-based and an empty list
// yields exactly "0 - 0".
func Slice(records []types.Record, page PageState) PageResult {
	count := len(records)
	if page.PageSize <= 0 {
		page.PageSize = types.DefaultPageSize
	}
	if page.PageIndex < 0 {
		page.PageIndex = 0
	}
	start := page.PageIndex * page.PageSize
	if start >= count {
		return PageResult{Visible: []types.Record{}, RangeLabel: "0 - 0"}
	}
	end := min(start+page.PageSize, count)
	return PageResult{
		Visible:    records[start:end],
		RangeLabel: fmt.Sprintf("%d - %d", start+1, end),
	}
}

// ClampPage resets the page index to 0 when it no longer points inside the
// current record count, so a shrinking filter never lands on an empty page.
func ClampPage(page PageState, count int) PageState {
	if page.PageSize <= 0 {
		page.PageSize = types.DefaultPageSize
	}
	if page.PageIndex < 0 || page.PageIndex*page.PageSize >= count {
		page.PageIndex = 0
	}
	return page
}

// CapUnpaginated is the hidePagination rendering: everything up to the cap,
// no controls.
func CapUnpaginated(records []types.Record) []types.Record {
	if len(records) > UnpaginatedCap {
		return records[:UnpaginatedCap]
	}
	return records
}

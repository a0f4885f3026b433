package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

// Compare orders two records for the given sort config. Missing and nil
// values always sort after present values, in both directions. That matches
// the console behaviour the tables always had; descending only negates the
// value comparison, never the missing-value placement.
func Compare(a, b types.Record, cfg types.SortConfig, acc types.Accessor, rank types.RankTable) int {
	av, aok := acc(a, cfg.Key)
	bv, bok := acc(b, cfg.Key)
	if !aok && !bok {
		return 0
	}
	if !aok {
		return 1
	}
	if !bok {
		return -1
	}
	c := compareValues(av, bv, rank)
	if cfg.Direction == types.DirectionDesc {
		return -c
	}
	return c
}

func compareValues(av, bv any, rank types.RankTable) int {
	if rank != nil {
		ar, aok := rank.Rank(types.AsString(av))
		br, bok := rank.Rank(types.AsString(bv))
		switch {
		case aok && bok:
			return cmp.Compare(ar, br)
		case aok:
			return -1
		case bok:
			return 1
		}
		// neither value is ranked, fall through to the generic compare
	}
	an, aIsNum := types.AsNumber(av)
	bn, bIsNum := types.AsNumber(bv)
	if aIsNum && bIsNum {
		return cmp.Compare(an, bn)
	}
	return strings.Compare(strings.ToLower(types.AsString(av)), strings.ToLower(types.AsString(bv)))
}

// Sort orders records in place. Direction none keeps the fetched order, and
// the sort is stable so equal values never swap between renders.
func Sort(records []types.Record, cfg types.SortConfig, acc types.Accessor, rank types.RankTable) {
	if !cfg.Active() {
		return
	}
	slices.SortStableFunc(records, func(a, b types.Record) int {
		return Compare(a, b, cfg, acc, rank)
	})
}

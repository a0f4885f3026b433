package server

import (
	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
	"github.com/bluewave-labs/verifywise-sub000/pkg/view"
)

// singleField wraps a plain field lookup into a group key extractor.
func singleField(field string) view.Extractor {
	return func(r types.Record) []string {
		v, ok := types.MapAccessor(r, field)
		if !ok {
			return nil
		}
		s := types.AsString(v)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// multiField fans a list-valued field (tags, linked frameworks) out into one
// key per element.
func multiField(field string) view.Extractor {
	return func(r types.Record) []string {
		v, ok := types.MapAccessor(r, field)
		if !ok {
			return nil
		}
		list, ok := v.([]any)
		if !ok {
			s := types.AsString(v)
			if s == "" {
				return nil
			}
			return []string{s}
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := types.AsString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
}

// DefaultRegistry describes the console's tables: which fields free text
// search covers, how each grouping field expands and which columns order by
// rank instead of text.
func DefaultRegistry() *view.Registry {
	registry := view.NewRegistry()

	registry.Add(&view.Definition{
		Entity:       "models",
		SearchFields: []string{"name", "provider", "version", "approver"},
		Extractors: map[string]view.Extractor{
			"approver":        singleField("approver"),
			"status":          singleField("status"),
			"security_review": singleField("security_review"),
		},
		Fallbacks: map[string]string{"approver": "Unassigned"},
		Ranks: map[string]types.RankTable{
			"status": types.StatusRank,
		},
	})

	registry.Add(&view.Definition{
		Entity:       "datasets",
		SearchFields: []string{"name", "source", "owner"},
		Extractors: map[string]view.Extractor{
			"owner": singleField("owner"),
			"tags":  multiField("tags"),
		},
		Fallbacks: map[string]string{"owner": "No Owner"},
	})

	registry.Add(&view.Definition{
		Entity:       "policies",
		SearchFields: []string{"title", "author", "status"},
		Extractors: map[string]view.Extractor{
			"status": singleField("status"),
			"tags":   multiField("tags"),
		},
		Ranks: map[string]types.RankTable{
			"status": types.StatusRank,
		},
	})

	registry.Add(&view.Definition{
		Entity:       "tasks",
		SearchFields: []string{"title", "description", "creator"},
		Extractors: map[string]view.Extractor{
			"status":     singleField("status"),
			"priority":   singleField("priority"),
			"categories": multiField("categories"),
		},
		Fallbacks: map[string]string{"status": "No Status"},
		Ranks: map[string]types.RankTable{
			"status":   types.StatusRank,
			"priority": types.PriorityRank,
		},
	})

	registry.Add(&view.Definition{
		Entity:       "risks",
		SearchFields: []string{"risk_name", "risk_owner", "mitigation_plan"},
		Extractors: map[string]view.Extractor{
			"risk_owner":        singleField("risk_owner"),
			"risk_level":        singleField("risk_level"),
			"mitigation_status": singleField("mitigation_status"),
		},
		Fallbacks: map[string]string{"risk_owner": "No Owner"},
		Ranks: map[string]types.RankTable{
			"risk_level":          types.RiskLevelRank,
			"current_risk_level":  types.RiskLevelRank,
			"residual_risk_level": types.RiskLevelRank,
			"mitigation_status":   types.StatusRank,
		},
	})

	registry.Add(&view.Definition{
		Entity:       "evidence",
		SearchFields: []string{"name", "description", "uploader"},
		Extractors: map[string]view.Extractor{
			"uploader": singleField("uploader"),
			"type":     singleField("type"),
		},
	})

	return registry
}

// requiredFields drive the pre-submit validation of mutations; missing ones
// block the call with per-field messages instead of a toast.
var requiredFields = map[string][]string{
	"models":   {"name", "provider"},
	"datasets": {"name"},
	"policies": {"title"},
	"tasks":    {"title", "status"},
	"risks":    {"risk_name", "risk_level"},
	"evidence": {"name"},
}

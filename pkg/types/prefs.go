package types

// TablePreference is what survives a reload: the last used sort and page size
// of one table, keyed by the table identity string.
type TablePreference struct {
	Sort     SortConfig `json:"sort"`
	PageSize int        `json:"pageSize"`
}

const DefaultPageSize = 10

// DefaultPreference is returned whenever nothing is stored or the stored
// value cannot be parsed.
func DefaultPreference() TablePreference {
	return TablePreference{
		Sort:     SortConfig{Direction: DirectionNone},
		PageSize: DefaultPageSize,
	}
}

// Sanitize repairs a loaded preference in place so a corrupt or partial
// stored value never leaks invalid state into the pipeline.
func (p *TablePreference) Sanitize() {
	if !p.Sort.Direction.Valid() {
		p.Sort = SortConfig{Direction: DirectionNone}
	}
	if p.Sort.Key == "" {
		p.Sort.Direction = DirectionNone
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
}

package types

// Direction of a column sort. None means no sort is applied and the fetched
// order is kept as-is.
type Direction string

const (
	DirectionNone Direction = "none"
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Next cycles a column sort the way the console header click does:
// asc -> desc -> none -> asc.
func (d Direction) Next() Direction {
	switch d {
	case DirectionAsc:
		return DirectionDesc
	case DirectionDesc:
		return DirectionNone
	default:
		return DirectionAsc
	}
}

func (d Direction) Valid() bool {
	switch d {
	case DirectionNone, DirectionAsc, DirectionDesc:
		return true
	}
	return false
}

// SortConfig is the persisted sort descriptor of one table. Key is ignored
// when Direction is none.
type SortConfig struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Active reports whether the config orders anything at all.
func (c SortConfig) Active() bool {
	return c.Key != "" && (c.Direction == DirectionAsc || c.Direction == DirectionDesc)
}

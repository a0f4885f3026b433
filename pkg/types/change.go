package types

// ChangeKind tells listeners how to apply a record change to their local copy.
type ChangeKind string

const (
	ChangeUpsert ChangeKind = "upsert"
	ChangeDelete ChangeKind = "delete"
)

// RecordChange is the payload broadcast whenever a record is created, updated
// or deleted through the console. Record is omitted on deletes.
type RecordChange struct {
	Entity string     `json:"entity"`
	Id     string     `json:"id"`
	Kind   ChangeKind `json:"kind"`
	Record Record     `json:"record,omitempty"`
}

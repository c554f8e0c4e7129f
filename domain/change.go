package domain

import "time"

const TableCartItems = "cart_items"

type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// ChangeFilter scopes a change feed subscription to the rows of one owner
// in one table.
type ChangeFilter struct {
	Table string
	Owner string
}

// ChangeEvent says a row matching a filter changed. Subscribers re-read the
// store instead of applying the event.
type ChangeEvent struct {
	Table string    `json:"table"`
	Owner string    `json:"owner"`
	Op    ChangeOp  `json:"op"`
	RowID string    `json:"row_id,omitempty"`
	At    time.Time `json:"at"`
}

func (f ChangeFilter) Matches(ev ChangeEvent) bool {
	return f.Table == ev.Table && f.Owner == ev.Owner
}

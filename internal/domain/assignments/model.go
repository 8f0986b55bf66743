package assignments

import "time"

// Assignment is one custody record. At most one row per asset has
// IsCurrent=true at any time; closed rows keep their history forever.
type Assignment struct {
	ID                 int64
	AssetID            int64
	AssignedEmployeeID *int64
	ReasonID           int64
	StartAt            time.Time
	EndAt              *time.Time
	IsCurrent          bool
}

// Params carries one assign/reassign request. AssignedEmployeeID may be nil:
// custody without a named holder (and ending custody is reassignment to nil).
type Params struct {
	AssetID            int64
	ReasonID           int64
	AssignedEmployeeID *int64
	ActorID            *int64
	Note               string
}

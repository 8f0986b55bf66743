package consumables

import "time"

type MovementType string

const (
	MoveIn         MovementType = "IN"
	MoveOut        MovementType = "OUT"
	MoveAdjustment MovementType = "ADJUSTMENT"
)

func (t MovementType) Valid() bool {
	switch t {
	case MoveIn, MoveOut, MoveAdjustment:
		return true
	}
	return false
}

type Item struct {
	ID       int64
	Name     string
	SKU      string
	Unit     string
	MinStock int64
	IsActive bool
}

// Movement is one kardex entry. Quantity is always positive; the type decides
// the sign when summing stock (ADJUSTMENT is summed as stored).
type Movement struct {
	ID        int64
	ItemID    int64
	Type      MovementType
	Quantity  int64
	UnitCost  *float64
	Reason    string
	Reference string
	CreatedAt time.Time
	CreatedBy *int64
}

// ItemWithStock is the listing projection: current stock alongside the item.
type ItemWithStock struct {
	Item
	CurrentStock int64
	LowStock     bool
}

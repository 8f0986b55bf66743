package consumables

import (
	"context"
	"log/slog"

	"github.com/inei-oti/activos-backend/internal/errs"
)

// Store gives the ledger serialized access to one item's movement log.
type Store interface {
	// WithItemLock runs fn while holding an exclusive lock on the item, so the
	// stock check and the movement write see a consistent snapshot. Everything
	// fn does commits atomically or not at all.
	WithItemLock(ctx context.Context, itemID int64, fn func(ops Ops) error) error
	// Item returns nil when the item does not exist.
	Item(ctx context.Context, itemID int64) (*Item, error)
	// Stock is the unlocked read used for display.
	Stock(ctx context.Context, itemID int64) (int64, error)
}

// Ops are the movement operations available inside the locked transaction.
type Ops interface {
	Stock(ctx context.Context, itemID int64) (int64, error)
	Get(ctx context.Context, movementID int64) (*Movement, error)
	Insert(ctx context.Context, m Movement) (*Movement, error)
	Update(ctx context.Context, m Movement) (*Movement, error)
}

// MovementParams carries one record/amend request.
type MovementParams struct {
	ItemID    int64
	Type      MovementType
	Quantity  int64
	UnitCost  *float64
	Reason    string
	Reference string
	ActorID   *int64
}

// Ledger enforces the stock invariants: quantities are strictly positive and
// an OUT movement may never drive stock negative, checked against the ledger
// at the time of write.
type Ledger struct {
	store Store
	log   *slog.Logger
}

func NewLedger(store Store, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{store: store, log: log}
}

func (p MovementParams) validate() errs.FieldErrors {
	fe := errs.FieldErrors{}
	if !p.Type.Valid() {
		fe["movement_type"] = "Unknown movement type."
	}
	if p.Quantity <= 0 {
		fe["quantity"] = "Quantity must be greater than zero."
	}
	if p.Reason == "" {
		fe["reason"] = "Reason is required."
	}
	return fe
}

// Record appends a movement. For OUT movements the overdraft check runs under
// the item lock, so two concurrent OUTs cannot both validate against stale
// stock and both commit.
func (l *Ledger) Record(ctx context.Context, p MovementParams) (*Movement, error) {
	if fe := p.validate(); len(fe) > 0 {
		return nil, fe
	}

	var created *Movement
	err := l.store.WithItemLock(ctx, p.ItemID, func(ops Ops) error {
		if p.Type == MoveOut {
			stock, err := ops.Stock(ctx, p.ItemID)
			if err != nil {
				return err
			}
			if p.Quantity > stock {
				return errs.FieldErrors{"quantity": "Cannot egress more than current stock."}
			}
		}
		var err error
		created, err = ops.Insert(ctx, Movement{
			ItemID:    p.ItemID,
			Type:      p.Type,
			Quantity:  p.Quantity,
			UnitCost:  p.UnitCost,
			Reason:    p.Reason,
			Reference: p.Reference,
			CreatedBy: p.ActorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("movement recorded", "item_id", p.ItemID, "type", string(p.Type), "quantity", p.Quantity)
	return created, nil
}

// Amend replaces an existing movement. When the replaced row was an OUT its
// prior quantity is excluded from the overdraft check, since that stock is
// being given back before being taken again.
func (l *Ledger) Amend(ctx context.Context, movementID int64, p MovementParams) (*Movement, error) {
	if fe := p.validate(); len(fe) > 0 {
		return nil, fe
	}

	var updated *Movement
	err := l.store.WithItemLock(ctx, p.ItemID, func(ops Ops) error {
		prev, err := ops.Get(ctx, movementID)
		if err != nil {
			return err
		}
		if prev == nil || prev.ItemID != p.ItemID {
			return errs.ErrNotFound
		}

		if p.Type == MoveOut {
			stock, err := ops.Stock(ctx, p.ItemID)
			if err != nil {
				return err
			}
			if prev.Type == MoveOut {
				stock += prev.Quantity
			}
			if p.Quantity > stock {
				return errs.FieldErrors{"quantity": "Cannot egress more than current stock."}
			}
		}

		updated, err = ops.Update(ctx, Movement{
			ID:        movementID,
			ItemID:    p.ItemID,
			Type:      p.Type,
			Quantity:  p.Quantity,
			UnitCost:  p.UnitCost,
			Reason:    p.Reason,
			Reference: p.Reference,
			CreatedBy: p.ActorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CurrentStock is the signed sum over the item's movements: IN positive, OUT
// negative, ADJUSTMENT as stored.
func (l *Ledger) CurrentStock(ctx context.Context, itemID int64) (int64, error) {
	return l.store.Stock(ctx, itemID)
}

// LowStock reports whether current stock is at or below the item's minimum.
func (l *Ledger) LowStock(ctx context.Context, itemID int64) (bool, error) {
	item, err := l.store.Item(ctx, itemID)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, errs.ErrNotFound
	}
	stock, err := l.store.Stock(ctx, itemID)
	if err != nil {
		return false, err
	}
	return stock <= item.MinStock, nil
}

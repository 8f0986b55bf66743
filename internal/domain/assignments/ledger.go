package assignments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/errs"
)

// Store gives the ledger serialized, transactional access to one asset's
// custody rows.
type Store interface {
	// WithAssetLock runs fn while holding an exclusive lock scoped to the
	// asset, so concurrent assign/reassign calls for the same asset are
	// linearized. Everything fn does commits atomically or not at all.
	WithAssetLock(ctx context.Context, assetID int64, fn func(ops Ops) error) error
}

// Ops are the row operations available inside the locked transaction.
type Ops interface {
	Current(ctx context.Context, assetID int64) (*Assignment, error)
	Close(ctx context.Context, assignmentID int64, endAt time.Time) error
	Create(ctx context.Context, a Assignment) (*Assignment, error)
	AppendEvent(ctx context.Context, e audit.Event) error
}

// Directory resolves employee ids to display names for event descriptions.
type Directory interface {
	DisplayName(ctx context.Context, id int64) (string, error)
}

// Ledger maintains the single-current-custodian invariant per asset and
// writes the audit trail in the same transaction as the custody change.
type Ledger struct {
	store Store
	dir   Directory
	log   *slog.Logger
}

func NewLedger(store Store, dir Directory, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{store: store, dir: dir, log: log}
}

// Assign creates the first custody record for an asset. It fails with a
// conflict when a current assignment already exists; callers must use
// Reassign for handovers.
func (l *Ledger) Assign(ctx context.Context, p Params) (*Assignment, error) {
	var created *Assignment
	err := l.store.WithAssetLock(ctx, p.AssetID, func(ops Ops) error {
		cur, err := ops.Current(ctx, p.AssetID)
		if err != nil {
			return err
		}
		if cur != nil {
			return errs.Conflictf("asset %d already has a current assignment, use reassign", p.AssetID)
		}

		created, err = ops.Create(ctx, Assignment{
			AssetID:            p.AssetID,
			AssignedEmployeeID: p.AssignedEmployeeID,
			ReasonID:           p.ReasonID,
			IsCurrent:          true,
		})
		if err != nil {
			return err
		}

		desc := p.Note
		if desc == "" {
			if name := l.nameOf(ctx, p.AssignedEmployeeID); name != "" {
				desc = "Assigned to " + name
			} else {
				desc = "Assignment set without assigned employee"
			}
		}
		return ops.AppendEvent(ctx, audit.Event{
			AssetID:     p.AssetID,
			Type:        audit.EventAssigned,
			Description: desc,
			CreatedBy:   p.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("asset assigned", "asset_id", p.AssetID, "assignment_id", created.ID)
	return created, nil
}

// Reassign closes the current custody record, when one exists, and always
// creates a new current one. It is a strict superset of Assign and is also
// how custody ends: reassigning to no employee.
func (l *Ledger) Reassign(ctx context.Context, p Params) (*Assignment, error) {
	var created *Assignment
	err := l.store.WithAssetLock(ctx, p.AssetID, func(ops Ops) error {
		cur, err := ops.Current(ctx, p.AssetID)
		if err != nil {
			return err
		}
		if cur != nil {
			if err := ops.Close(ctx, cur.ID, time.Now()); err != nil {
				return err
			}
		}

		created, err = ops.Create(ctx, Assignment{
			AssetID:            p.AssetID,
			AssignedEmployeeID: p.AssignedEmployeeID,
			ReasonID:           p.ReasonID,
			IsCurrent:          true,
		})
		if err != nil {
			return err
		}

		desc := p.Note
		if desc == "" {
			before := "Unassigned"
			if cur != nil {
				if name := l.nameOf(ctx, cur.AssignedEmployeeID); name != "" {
					before = name
				}
			}
			after := "Unassigned"
			if name := l.nameOf(ctx, p.AssignedEmployeeID); name != "" {
				after = name
			}
			desc = fmt.Sprintf("Reassigned: %s -> %s", before, after)
		}
		return ops.AppendEvent(ctx, audit.Event{
			AssetID:     p.AssetID,
			Type:        audit.EventReassigned,
			Description: desc,
			CreatedBy:   p.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("asset reassigned", "asset_id", p.AssetID, "assignment_id", created.ID)
	return created, nil
}

func (l *Ledger) nameOf(ctx context.Context, id *int64) string {
	if id == nil {
		return ""
	}
	name, err := l.dir.DisplayName(ctx, *id)
	if err != nil {
		l.log.Warn("employee lookup failed", "employee_id", *id, "err", err)
		return ""
	}
	return name
}

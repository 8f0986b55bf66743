package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/db"
)

// PostgresStore backs the ledger with pgx transactions. The per-asset lock is
// a FOR UPDATE on the asset row itself: locking only assignment rows would
// leave nothing to lock for a never-assigned asset, letting two first-time
// assigns race. The partial unique index on (asset_id) WHERE is_current
// remains as the storage-level backstop.
type PostgresStore struct {
	pool   *pgxpool.Pool
	events *audit.Repo
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, events: audit.NewRepo(pool)}
}

func (s *PostgresStore) WithAssetLock(ctx context.Context, assetID int64, fn func(ops Ops) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM assets WHERE id=$1 FOR UPDATE`, assetID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := fn(&pgOps{tx: tx, events: s.events.WithTx(tx)}); err != nil {
		return err
	}
	return db.TranslateConstraint(tx.Commit(ctx))
}

type pgOps struct {
	tx     pgx.Tx
	events *audit.Repo
}

const assignmentColumns = `id, asset_id, assigned_employee_id, reason_id, start_at, end_at, is_current`

func (o *pgOps) Current(ctx context.Context, assetID int64) (*Assignment, error) {
	row := o.tx.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM asset_assignments
		WHERE asset_id=$1 AND is_current
	`, assetID)
	var a Assignment
	err := row.Scan(&a.ID, &a.AssetID, &a.AssignedEmployeeID, &a.ReasonID, &a.StartAt, &a.EndAt, &a.IsCurrent)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (o *pgOps) Close(ctx context.Context, assignmentID int64, endAt time.Time) error {
	_, err := o.tx.Exec(ctx, `
		UPDATE asset_assignments SET is_current=FALSE, end_at=$2 WHERE id=$1
	`, assignmentID, endAt)
	return err
}

func (o *pgOps) Create(ctx context.Context, a Assignment) (*Assignment, error) {
	row := o.tx.QueryRow(ctx, `
		INSERT INTO asset_assignments (asset_id, assigned_employee_id, reason_id, is_current)
		VALUES ($1,$2,$3,TRUE)
		RETURNING `+assignmentColumns+`
	`, a.AssetID, a.AssignedEmployeeID, a.ReasonID)
	var out Assignment
	err := row.Scan(&out.ID, &out.AssetID, &out.AssignedEmployeeID, &out.ReasonID, &out.StartAt, &out.EndAt, &out.IsCurrent)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (o *pgOps) AppendEvent(ctx context.Context, e audit.Event) error {
	_, err := o.events.Append(ctx, e)
	return err
}

// History lists an asset's custody records newest-first, outside any lock.
func (s *PostgresStore) History(ctx context.Context, assetID int64) ([]Assignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM asset_assignments
		WHERE asset_id=$1
		ORDER BY start_at DESC, id DESC
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.AssetID, &a.AssignedEmployeeID, &a.ReasonID, &a.StartAt, &a.EndAt, &a.IsCurrent); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

package operations

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

type Repo struct {
	pool   *pgxpool.Pool
	events *audit.Repo
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, events: audit.NewRepo(pool)}
}

/* Maintenance */

const maintenanceColumns = `id, asset_id, maintenance_type, status, description, opened_at, closed_at, performed_by`

func scanMaintenance(row pgx.Row) (*MaintenanceRecord, error) {
	var m MaintenanceRecord
	err := row.Scan(&m.ID, &m.AssetID, &m.Type, &m.Status, &m.Description, &m.OpenedAt, &m.ClosedAt, &m.PerformedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) OpenMaintenance(ctx context.Context, assetID int64, typ MaintenanceType, description string, performedBy *int64) (*MaintenanceRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO maintenance_records (asset_id, maintenance_type, status, description, performed_by)
		VALUES ($1,$2,'OPEN',$3,$4)
		RETURNING `+maintenanceColumns+`
	`, assetID, typ, description, performedBy)
	m, err := scanMaintenance(row)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return m, nil
}

func (r *Repo) CloseMaintenance(ctx context.Context, id int64) (*MaintenanceRecord, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE maintenance_records SET status='CLOSED', closed_at=now()
		WHERE id=$1
		RETURNING `+maintenanceColumns+`
	`, id)
	m, err := scanMaintenance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return m, err
}

func (r *Repo) ListMaintenance(ctx context.Context, assetID int64) ([]MaintenanceRecord, error) {
	q := `SELECT ` + maintenanceColumns + ` FROM maintenance_records`
	var args []any
	if assetID > 0 {
		q += ` WHERE asset_id=$1`
		args = append(args, assetID)
	}
	q += ` ORDER BY opened_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MaintenanceRecord
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

/* Replacement */

func (r *Repo) CreateReplacement(ctx context.Context, rec ReplacementRecord) (*ReplacementRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO replacement_records (asset_id, replacement_asset_id, reason, replacement_date, approved_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, asset_id, replacement_asset_id, reason, replacement_date, approved_by
	`, rec.AssetID, rec.ReplacementAssetID, rec.Reason, rec.ReplacementDate, rec.ApprovedBy)
	var out ReplacementRecord
	if err := row.Scan(&out.ID, &out.AssetID, &out.ReplacementAssetID, &out.Reason, &out.ReplacementDate, &out.ApprovedBy); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

/* Decommission */

// Decommission flips the asset to the terminal status and creates the single
// decommission record in one transaction, leaving an UPDATED event behind.
// A second call conflicts on the one-record-per-asset constraint.
func (r *Repo) Decommission(ctx context.Context, rec DecommissionRecord, decommissionedStatusID int64) (*DecommissionRecord, error) {
	if rec.Reason == "" {
		return nil, errs.FieldErrors{"reason": "Reason is required."}
	}
	if rec.DecommissionDate.IsZero() {
		rec.DecommissionDate = time.Now()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE assets SET status_id=$2, updated_at=now() WHERE id=$1`, rec.AssetID, decommissionedStatusID)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, errs.ErrNotFound
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO decommission_records (asset_id, reason, decommission_date, disposal_method, certificate_code, approved_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, asset_id, reason, decommission_date, disposal_method, certificate_code, approved_by
	`, rec.AssetID, rec.Reason, rec.DecommissionDate, rec.DisposalMethod, rec.CertificateCode, rec.ApprovedBy)
	var out DecommissionRecord
	if err := row.Scan(&out.ID, &out.AssetID, &out.Reason, &out.DecommissionDate, &out.DisposalMethod, &out.CertificateCode, &out.ApprovedBy); err != nil {
		return nil, db.TranslateConstraint(err)
	}

	if _, err := r.events.WithTx(tx).Append(ctx, audit.Event{
		AssetID:     rec.AssetID,
		Type:        audit.EventUpdated,
		Description: "Decommissioned: " + rec.Reason,
		CreatedBy:   rec.ApprovedBy,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/db"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Identifier fields are stored as NULL when empty so the unique indexes only
// bite on real values.
const assetColumns = `
	id, category_id, location_id, status_id, responsible_employee_id,
	observations, acquisition_date,
	COALESCE(control_patrimonial,''), COALESCE(serial,''), COALESCE(asset_tag_internal,''),
	ownership_type, COALESCE(provider_name,''),
	created_at, updated_at`

func scanAsset(row pgx.Row) (*Asset, error) {
	var a Asset
	err := row.Scan(
		&a.ID, &a.CategoryID, &a.LocationID, &a.StatusID, &a.ResponsibleEmployeeID,
		&a.Observations, &a.AcquisitionDate,
		&a.ControlPatrimonial, &a.Serial, &a.AssetTagInternal,
		&a.OwnershipType, &a.ProviderName,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) Create(ctx context.Context, a Asset) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assets (
			category_id, location_id, status_id, responsible_employee_id,
			observations, acquisition_date,
			control_patrimonial, serial, asset_tag_internal,
			ownership_type, provider_name
		)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),NULLIF($9,''),$10,NULLIF($11,''))
		RETURNING `+assetColumns+`
	`, a.CategoryID, a.LocationID, a.StatusID, a.ResponsibleEmployeeID,
		a.Observations, a.AcquisitionDate,
		a.ControlPatrimonial, a.Serial, a.AssetTagInternal,
		a.OwnershipType, a.ProviderName)
	out, err := scanAsset(row)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, a Asset) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE assets SET
			category_id=$2, location_id=$3, status_id=$4, responsible_employee_id=$5,
			observations=$6, acquisition_date=$7,
			control_patrimonial=NULLIF($8,''), serial=NULLIF($9,''), asset_tag_internal=NULLIF($10,''),
			ownership_type=$11, provider_name=NULLIF($12,''),
			updated_at=now()
		WHERE id=$1
		RETURNING `+assetColumns+`
	`, a.ID, a.CategoryID, a.LocationID, a.StatusID, a.ResponsibleEmployeeID,
		a.Observations, a.AcquisitionDate,
		a.ControlPatrimonial, a.Serial, a.AssetTagInternal,
		a.OwnershipType, a.ProviderName)
	out, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id=$1`, id)
	a, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetDetail joins reference names and the current custody for one asset.
func (r *Repo) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+detailColumns+`
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		JOIN locations l ON l.id = a.location_id
		JOIN statuses s ON s.id = a.status_id
		JOIN employees re ON re.id = a.responsible_employee_id
		LEFT JOIN asset_assignments aa ON aa.asset_id = a.id AND aa.is_current
		LEFT JOIN employees ae ON ae.id = aa.assigned_employee_id
		WHERE a.id=$1
	`, id)
	d, err := scanDetail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

const detailColumns = `
	a.id, a.category_id, a.location_id, a.status_id, a.responsible_employee_id,
	a.observations, a.acquisition_date,
	COALESCE(a.control_patrimonial,''), COALESCE(a.serial,''), COALESCE(a.asset_tag_internal,''),
	a.ownership_type, COALESCE(a.provider_name,''),
	a.created_at, a.updated_at,
	c.name, l.exact_name, s.name,
	TRIM(re.first_name || ' ' || re.last_name),
	aa.assigned_employee_id,
	COALESCE(TRIM(ae.first_name || ' ' || ae.last_name), '')`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.CategoryID, &d.LocationID, &d.StatusID, &d.ResponsibleEmployeeID,
		&d.Observations, &d.AcquisitionDate,
		&d.ControlPatrimonial, &d.Serial, &d.AssetTagInternal,
		&d.OwnershipType, &d.ProviderName,
		&d.CreatedAt, &d.UpdatedAt,
		&d.CategoryName, &d.LocationName, &d.StatusName,
		&d.ResponsibleName,
		&d.CurrentAssigneeID,
		&d.CurrentAssigneeName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns asset details newest-first, optionally filtered by a free-text
// query over identifiers, category and location names.
func (r *Repo) List(ctx context.Context, q string, limit, offset int) ([]Detail, error) {
	base := `
		SELECT ` + detailColumns + `
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		JOIN locations l ON l.id = a.location_id
		JOIN statuses s ON s.id = a.status_id
		JOIN employees re ON re.id = a.responsible_employee_id
		LEFT JOIN asset_assignments aa ON aa.asset_id = a.id AND aa.is_current
		LEFT JOIN employees ae ON ae.id = aa.assigned_employee_id
	`
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		base += `
		WHERE LOWER(COALESCE(a.asset_tag_internal,'')) LIKE $1
		   OR LOWER(COALESCE(a.control_patrimonial,'')) LIKE $1
		   OR LOWER(COALESCE(a.serial,'')) LIKE $1
		   OR LOWER(c.name) LIKE $1
		   OR LOWER(l.exact_name) LIKE $1
		`
	}
	base += ` ORDER BY a.created_at DESC, a.id DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		base += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// SafeRows projects every asset for reporting: presence flags only for the
// secret fields, never the values.
func (r *Repo) SafeRows(ctx context.Context) ([]SafeRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, c.name, l.exact_name, s.name,
			TRIM(re.first_name || ' ' || re.last_name),
			COALESCE(TRIM(ae.first_name || ' ' || ae.last_name), ''),
			COALESCE(a.asset_tag_internal,''), COALESCE(a.control_patrimonial,''), COALESCE(a.serial,''),
			a.ownership_type, COALESCE(a.provider_name,''),
			COALESCE(sd.cpu_padlock_key,'') <> '',
			COALESCE(sd.license_secret,'') <> ''
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		JOIN locations l ON l.id = a.location_id
		JOIN statuses s ON s.id = a.status_id
		JOIN employees re ON re.id = a.responsible_employee_id
		LEFT JOIN asset_assignments aa ON aa.asset_id = a.id AND aa.is_current
		LEFT JOIN employees ae ON ae.id = aa.assigned_employee_id
		LEFT JOIN asset_sensitive_data sd ON sd.asset_id = a.id
		ORDER BY a.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SafeRow
	for rows.Next() {
		var sr SafeRow
		if err := rows.Scan(
			&sr.ID, &sr.Category, &sr.Location, &sr.Status,
			&sr.Responsible, &sr.CurrentAssigned,
			&sr.AssetTagInternal, &sr.ControlPatrimonial, &sr.Serial,
			&sr.OwnershipType, &sr.ProviderName,
			&sr.HasPadlockKey, &sr.HasLicense,
		); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

/* Sensitive data */

func (r *Repo) GetSensitive(ctx context.Context, assetID int64) (*SensitiveData, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, cpu_padlock_key, license_secret, updated_by, updated_at
		FROM asset_sensitive_data WHERE asset_id=$1
	`, assetID)
	var d SensitiveData
	if err := row.Scan(&d.AssetID, &d.CPUPadlockKey, &d.LicenseSecret, &d.UpdatedBy, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repo) UpsertSensitive(ctx context.Context, d SensitiveData) (*SensitiveData, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO asset_sensitive_data (asset_id, cpu_padlock_key, license_secret, updated_by)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (asset_id)
		DO UPDATE SET cpu_padlock_key=EXCLUDED.cpu_padlock_key,
			license_secret=EXCLUDED.license_secret,
			updated_by=EXCLUDED.updated_by,
			updated_at=now()
		RETURNING asset_id, cpu_padlock_key, license_secret, updated_by, updated_at
	`, d.AssetID, d.CPUPadlockKey, d.LicenseSecret, d.UpdatedBy)
	var out SensitiveData
	if err := row.Scan(&out.AssetID, &out.CPUPadlockKey, &out.LicenseSecret, &out.UpdatedBy, &out.UpdatedAt); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

/* Dashboard */

type DashboardCounts struct {
	TotalAssets       int64           `json:"total_assets"`
	OperationalAssets int64           `json:"operational_assets"`
	AssignedAssets    int64           `json:"assigned_assets"`
	CategoryCounts    []CategoryCount `json:"category_counts"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

func (r *Repo) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	var d DashboardCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM assets),
			(SELECT COUNT(*) FROM assets a JOIN statuses s ON s.id=a.status_id WHERE s.name='Operational'),
			(SELECT COUNT(DISTINCT asset_id) FROM asset_assignments WHERE is_current)
	`).Scan(&d.TotalAssets, &d.OperationalAssets, &d.AssignedAssets)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.name, COUNT(a.id)
		FROM assets a JOIN categories c ON c.id = a.category_id
		GROUP BY c.name
		ORDER BY COUNT(a.id) DESC, c.name
		LIMIT 8
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Total); err != nil {
			return nil, err
		}
		d.CategoryCounts = append(d.CategoryCounts, cc)
	}
	return &d, rows.Err()
}

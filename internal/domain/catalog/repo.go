package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inei-oti/activos-backend/internal/infra/db"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Categories */

func (r *Repo) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, is_active)
		VALUES ($1,$2,TRUE)
		RETURNING id, name, description, is_active, created_at, updated_at
	`, name, description)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &c, nil
}

func (r *Repo) CategoryName(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM categories WHERE id=$1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return name, err
}

func (r *Repo) ListCategories(ctx context.Context, onlyActive bool) ([]Category, error) {
	q := `SELECT id, name, description, is_active, created_at, updated_at FROM categories`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

/* Locations */

func (r *Repo) CreateLocation(ctx context.Context, site, floor, typ, exactName string) (*Location, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO locations (site, floor, type, exact_name, is_active)
		VALUES ($1,$2,$3,$4,TRUE)
		RETURNING id, site, floor, type, exact_name, is_active, created_at, updated_at
	`, site, floor, typ, exactName)
	var l Location
	if err := row.Scan(&l.ID, &l.Site, &l.Floor, &l.Type, &l.ExactName, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &l, nil
}

func (r *Repo) ListLocations(ctx context.Context, onlyActive bool) ([]Location, error) {
	q := `SELECT id, site, floor, type, exact_name, is_active, created_at, updated_at FROM locations`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY exact_name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Site, &l.Floor, &l.Type, &l.ExactName, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SafeDeleteLocation deletes the location when nothing references it,
// otherwise deactivates it. Returns true when the row was actually removed.
func (r *Repo) SafeDeleteLocation(ctx context.Context, id int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var referenced bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM assets WHERE location_id=$1)
	`, id).Scan(&referenced); err != nil {
		return false, err
	}

	if referenced {
		if _, err := tx.Exec(ctx, `UPDATE locations SET is_active=FALSE, updated_at=now() WHERE id=$1`, id); err != nil {
			return false, err
		}
		return false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM locations WHERE id=$1`, id); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

/* Statuses */

func (r *Repo) CreateStatus(ctx context.Context, name string) (*Status, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO statuses (name, is_active)
		VALUES ($1,TRUE)
		RETURNING id, name, is_active, created_at, updated_at
	`, name)
	var s Status
	if err := row.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &s, nil
}

func (r *Repo) StatusByName(ctx context.Context, name string) (*Status, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, is_active, created_at, updated_at FROM statuses WHERE name=$1
	`, name)
	var s Status
	if err := row.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListStatuses(ctx context.Context) ([]Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_active, created_at, updated_at FROM statuses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

/* Assignment reasons */

func (r *Repo) CreateAssignmentReason(ctx context.Context, name, description string) (*AssignmentReason, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assignment_reasons (name, description, is_active)
		VALUES ($1,$2,TRUE)
		RETURNING id, name, description, is_active, created_at, updated_at
	`, name, description)
	var ar AssignmentReason
	if err := row.Scan(&ar.ID, &ar.Name, &ar.Description, &ar.IsActive, &ar.CreatedAt, &ar.UpdatedAt); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &ar, nil
}

func (r *Repo) ListAssignmentReasons(ctx context.Context, onlyActive bool) ([]AssignmentReason, error) {
	q := `SELECT id, name, description, is_active, created_at, updated_at FROM assignment_reasons`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssignmentReason
	for rows.Next() {
		var ar AssignmentReason
		if err := rows.Scan(&ar.ID, &ar.Name, &ar.Description, &ar.IsActive, &ar.CreatedAt, &ar.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}

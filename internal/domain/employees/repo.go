package employees

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/db"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const employeeColumns = `id, dni, first_name, last_name, worker_type, email, phone, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.DNI, &e.FirstName, &e.LastName, &e.WorkerType, &e.Email, &e.Phone, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) Create(ctx context.Context, e Employee) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (dni, first_name, last_name, worker_type, email, phone, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,TRUE)
		RETURNING `+employeeColumns+`
	`, e.DNI, e.FirstName, e.LastName, e.WorkerType, e.Email, e.Phone)
	out, err := scanEmployee(row)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// WorkerTypeOf returns the worker type for an employee, or ok=false when the
// employee does not exist.
func (r *Repo) WorkerTypeOf(ctx context.Context, id int64) (WorkerType, bool, error) {
	var wt WorkerType
	err := r.pool.QueryRow(ctx, `SELECT worker_type FROM employees WHERE id=$1`, id).Scan(&wt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return wt, true, nil
}

// DisplayName returns "First Last" for event descriptions; empty when unknown.
func (r *Repo) DisplayName(ctx context.Context, id int64) (string, error) {
	var first, last string
	err := r.pool.QueryRow(ctx, `SELECT first_name, last_name FROM employees WHERE id=$1`, id).Scan(&first, &last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(first + " " + last), nil
}

func (r *Repo) Update(ctx context.Context, e Employee) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees
		SET dni=$2, first_name=$3, last_name=$4, worker_type=$5, email=$6, phone=$7, is_active=$8, updated_at=now()
		WHERE id=$1
		RETURNING `+employeeColumns+`
	`, e.ID, e.DNI, e.FirstName, e.LastName, e.WorkerType, e.Email, e.Phone, e.IsActive)
	out, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return out, nil
}

// Search matches by partial name or dni, case-insensitive. Empty query lists all.
func (r *Repo) Search(ctx context.Context, q string, onlyActive bool) ([]Employee, error) {
	q = strings.TrimSpace(q)

	base := `SELECT ` + employeeColumns + ` FROM employees`
	var conds []string
	var args []any
	if q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		conds = append(conds, `(LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1 OR dni LIKE $1)`)
	}
	if onlyActive {
		conds = append(conds, `is_active`)
	}
	if len(conds) > 0 {
		base += ` WHERE ` + strings.Join(conds, " AND ")
	}
	base += ` ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

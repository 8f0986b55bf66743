package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inei-oti/activos-backend/internal/errs"
)

// TranslateConstraint maps storage-level integrity violations to ErrConflict.
// The application checks the same invariants first; the constraints are
// defense in depth, so a fired constraint surfaces as a generic conflict.
func TranslateConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514", "23503": // unique, check, foreign key
			return errs.Conflictf("constraint %s violated", pgErr.ConstraintName)
		}
	}
	return err
}

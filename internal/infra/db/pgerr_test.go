package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/inei-oti/activos-backend/internal/errs"
)

func TestTranslateConstraintMapsIntegrityViolations(t *testing.T) {
	for _, code := range []string{"23505", "23514", "23503"} {
		err := TranslateConstraint(&pgconn.PgError{Code: code, ConstraintName: "categories_name_key"})
		assert.ErrorIs(t, err, errs.ErrConflict, code)
		assert.Contains(t, err.Error(), "categories_name_key")
	}
}

func TestTranslateConstraintMapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create category: %w", &pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})
	assert.ErrorIs(t, TranslateConstraint(wrapped), errs.ErrConflict)
}

func TestTranslateConstraintPassesOtherErrorsThrough(t *testing.T) {
	sentinel := errors.New("connection reset")
	assert.Equal(t, sentinel, TranslateConstraint(sentinel))
	assert.NoError(t, TranslateConstraint(nil))

	syntaxErr := &pgconn.PgError{Code: "42601"}
	assert.NotErrorIs(t, TranslateConstraint(syntaxErr), errs.ErrConflict)
}

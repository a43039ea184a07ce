package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"jargas/internal/core/apperror"
)

// SQLSTATE codes the ledger reacts to.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// MapError turns constraint violations into application errors. A unique
// violation becomes DUPLICATE_ENTRY carrying the constraint name, which is
// what the number allocation retry loop keys on. Other errors pass through.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation:
		return apperror.NewDuplicate(entity, pgErr.ConstraintName).WithCause(err)
	case foreignKeyViolation:
		return apperror.NewValidation("referenced record does not exist").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case checkViolation:
		return apperror.NewValidation("value violates a table constraint").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	default:
		return apperror.NewDatabase(err)
	}
}

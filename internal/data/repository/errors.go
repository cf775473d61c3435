package repository

import (
	"errors"

	"member-directory/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

// mapPgError turns constraint violations into client-facing errors and
// returns every other error unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == "users_mobile_number_key" {
			return utils.NewConflictError("mobile number already registered")
		}
		return utils.NewConflictError("record already exists")
	case pgForeignKeyViolation:
		return utils.NewNotFoundError("user", "")
	case pgCheckViolation:
		return utils.NewValidationError(map[string]string{pgErr.ColumnName: "Invalid value"})
	case pgStringTooLong:
		// Postgres does not name the column for this code.
		key := pgErr.ColumnName
		if key == "" {
			key = "value"
		}
		return utils.NewValidationError(map[string]string{key: "Value is too long"})
	}
	return err
}

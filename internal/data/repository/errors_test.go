package repository

import (
	"errors"
	"testing"

	"member-directory/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgErrorUniqueMobileNumber(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "users_mobile_number_key"})

	var conflict *utils.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "mobile number already registered", conflict.Message)
}

func TestMapPgErrorForeignKey(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: "23503"})

	var notFound *utils.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMapPgErrorValueTooLong(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: "22001", Message: "value too long for type character varying(255)"})

	var vErr *utils.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "value")
	assert.True(t, utils.IsTyped(err))
}

func TestMapPgErrorPassesThroughOtherErrors(t *testing.T) {
	raw := errors.New("connection reset")
	assert.Same(t, raw, mapPgError(raw))

	deadlock := &pgconn.PgError{Code: "40P01"}
	assert.Same(t, error(deadlock), mapPgError(deadlock))
}

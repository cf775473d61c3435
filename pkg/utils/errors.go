package utils

import (
	"errors"
	"fmt"
)

// ValidationError lists every rejected input field with a readable message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + FormatValidationErrors(e.Fields)
}

// ConflictError reports a uniqueness violation or a state transition that
// is not allowed from the record's current state.
type ConflictError struct {
	Message string
}

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// StorageError wraps a persistence or collaborator failure. Its message is
// logged server side and never sent to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AsStorageError wraps err as a StorageError unless it already carries one
// of the typed errors above, which pass through unchanged.
func AsStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsTyped(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsTyped reports whether err is one of the client-facing error kinds.
func IsTyped(err error) bool {
	var (
		vErr *ValidationError
		cErr *ConflictError
		nErr *NotFoundError
		sErr *StorageError
	)
	return errors.As(err, &vErr) ||
		errors.As(err, &cErr) ||
		errors.As(err, &nErr) ||
		errors.As(err, &sErr) ||
		errors.Is(err, ErrInvalidCredentials)
}

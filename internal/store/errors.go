package store

import (
	"errors"
	"fmt"
)

// Errors shared by every DocumentStore implementation. Backends wrap their
// driver errors in one of these so callers never see driver types.
var (
	// ErrNotFound is the generic absence error. ErrDocumentNotFound wraps it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity reports a value the backend refused to store, such as
	// a check or not-null violation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed reports a transaction that could not begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInternal reports I/O, connection and other unexpected failures.
	ErrInternal = errors.New("internal store error")

	// ErrDocumentNotFound is returned by Get for a key that was never written.
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)
)

// IsNotFoundError reports whether err is any kind of not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which document operation failed.
type StoreError struct {
	Entity    string
	Operation string
	Key       string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Entity, e.Operation)
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the entity, operation and key it concerns.
func NewStoreError(entity, operation, key string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Key: key, Err: err}
}

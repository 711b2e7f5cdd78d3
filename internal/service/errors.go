package service

import (
	"errors"
	"fmt"

	"github.com/tarots-ai/tarots-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError with the failed operation
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrReadingNotFound indicates no saved reading has the requested id.
	// API layer should map this to HTTP 404 Not Found.
	ErrReadingNotFound = errors.New("reading not found")

	// ErrUnsupportedBackupVersion indicates a backup envelope with a version
	// this build cannot import.
	// API layer should map this to HTTP 400 Bad Request.
	ErrUnsupportedBackupVersion = errors.New("unsupported backup version")

	// ErrSpreadComplete indicates a card was requested for a spread whose
	// slots are all filled.
	ErrSpreadComplete = errors.New("every spread position already holds a card")
)

// ServiceError wraps errors from a service with the operation that failed.
type ServiceError struct {
	// Service names the failing service (e.g. "reading", "settings")
	Service string
	// Operation is the operation that failed (e.g. "save_reading")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// sentinels are returned to callers unwrapped.
var sentinels = []error{
	ErrReadingNotFound,
	ErrUnsupportedBackupVersion,
	ErrSpreadComplete,
	domain.ErrDeckNotFound,
	domain.ErrSpreadNotFound,
	domain.ErrCardNotFound,
	domain.ErrInsufficientCards,
	domain.ErrInvalidCount,
	domain.ErrDuplicateSessionID,
	domain.ErrIncompleteReading,
	domain.ErrPositionFilled,
	domain.ErrUnknownPosition,
	domain.ErrDuplicatePositionID,
	domain.ErrDuplicateDrawnCard,
	domain.ErrInvalidThemeMode,
}

// wrapError wraps err in a ServiceError unless it carries one of the
// expected sentinel conditions, which pass through with their detail intact.
func wrapError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err
		}
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}

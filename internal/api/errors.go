package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"github.com/tarots-ai/tarots-api/internal/service"
	"github.com/tarots-ai/tarots-api/internal/service/auth"
	"github.com/tarots-ai/tarots-api/internal/store"
)

// badRequestErrors are caller mistakes: the request is well formed but asks
// for something the domain rejects.
var badRequestErrors = []error{
	domain.ErrValidation,
	domain.ErrInsufficientCards,
	domain.ErrInvalidCount,
	domain.ErrIncompleteReading,
	domain.ErrPositionFilled,
	domain.ErrUnknownPosition,
	domain.ErrDuplicatePositionID,
	domain.ErrDuplicateDrawnCard,
	domain.ErrInvalidThemeMode,
	domain.ErrDrawnCardIDEmpty,
	domain.ErrDrawnPositionEmpty,
	domain.ErrReadingSpreadEmpty,
	domain.ErrReadingDeckEmpty,
	service.ErrSpreadComplete,
	service.ErrUnsupportedBackupVersion,
	interpretation.ErrNoCards,
	shared.ErrEmptyBody,
	errInvalidJSON,
}

// errInvalidJSON marks a body that could not be decoded.
var errInvalidJSON = errors.New("invalid request body")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrDeckNotFound),
		errors.Is(err, domain.ErrSpreadNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, service.ErrReadingNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDuplicateSessionID),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.As(err, &validationErrs), isAny(err, badRequestErrors):
		return http.StatusBadRequest

	case errors.Is(err, interpretation.ErrUnavailable),
		errors.Is(err, interpretation.ErrInvalidConfig):
		return http.StatusServiceUnavailable

	case errors.Is(err, interpretation.ErrInterpretationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, domain.ErrSpreadNotFound):
		return "Spread not found"
	case errors.Is(err, domain.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, service.ErrReadingNotFound):
		return "Reading not found"

	case errors.Is(err, domain.ErrDuplicateSessionID):
		return "Reading already exists"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, errInvalidJSON):
		return "Invalid request format"
	case errors.Is(err, domain.ErrInsufficientCards):
		return "Not enough cards left in the deck"
	case errors.Is(err, domain.ErrInvalidCount):
		return "Card count cannot be negative"
	case errors.Is(err, domain.ErrIncompleteReading):
		return "Every position of the spread needs a card"
	case errors.Is(err, domain.ErrPositionFilled):
		return "That position already holds a card"
	case errors.Is(err, domain.ErrUnknownPosition):
		return "Position is not part of the spread"
	case errors.Is(err, domain.ErrDuplicatePositionID):
		return "A position appears more than once"
	case errors.Is(err, domain.ErrDuplicateDrawnCard):
		return "The same card cannot appear twice in a reading"
	case errors.Is(err, service.ErrSpreadComplete):
		return "Every position of the spread already holds a card"
	case errors.Is(err, domain.ErrInvalidThemeMode):
		return "Theme mode must be light, dark or system"
	case errors.Is(err, service.ErrUnsupportedBackupVersion):
		return "Unsupported backup version"
	case isAny(err, badRequestErrors):
		return "Invalid reading data"

	case errors.Is(err, interpretation.ErrInterpretationFailed),
		errors.Is(err, interpretation.ErrUnavailable),
		errors.Is(err, interpretation.ErrInvalidConfig),
		errors.Is(err, interpretation.ErrNoCards):
		return interpretation.UserMessage(err)

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "Field validation") {
		// Key: 'DrawRequest.SpreadID' Error:Field validation for 'SpreadID' failed on the 'required' tag
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 5 {
				return fmt.Sprintf("Invalid %s: %s", fieldParts[1], getValidationTagMessage(fieldParts[3]))
			}
			if len(fieldParts) >= 3 {
				return fmt.Sprintf("Invalid %s", fieldParts[1])
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid entry"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

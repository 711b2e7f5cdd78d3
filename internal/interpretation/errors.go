package interpretation

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by interpreters
var (
	// ErrInterpretationFailed is returned when the provider call fails for any
	// general reason
	ErrInterpretationFailed = errors.New("failed to interpret reading")

	// ErrInvalidConfig is returned when the provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid interpreter configuration")

	// ErrEmptyResponse is returned when the provider answers without any text
	ErrEmptyResponse = errors.New("empty interpretation from language model")

	// ErrContentBlocked is returned when the provider refuses the content
	ErrContentBlocked = errors.New("interpretation blocked by provider safety filters")

	// ErrUnavailable is returned when no provider is configured
	ErrUnavailable = errors.New("interpretation is not available")

	// ErrNoCards is returned when a prompt is requested for an empty draw
	ErrNoCards = errors.New("no cards to interpret")
)

// ProviderError carries the message a provider returned with a failed call.
// It unwraps to ErrInterpretationFailed.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap makes errors.Is(err, ErrInterpretationFailed) hold.
func (e *ProviderError) Unwrap() error {
	return ErrInterpretationFailed
}

// Transient reports whether retrying the call may succeed.
func (e *ProviderError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// UserMessage converts an interpretation failure into a sentence that can be
// shown to the user. It never exposes credentials or raw transport errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var providerErr *ProviderError
	switch {
	case errors.Is(err, ErrUnavailable):
		return "AI interpretation is not configured."
	case errors.Is(err, ErrInvalidConfig):
		return "AI interpretation is misconfigured. Check the provider settings."
	case errors.Is(err, ErrNoCards):
		return "Draw at least one card before asking for an interpretation."
	case errors.Is(err, context.DeadlineExceeded):
		return "The interpretation took too long. Please try again."
	case errors.Is(err, context.Canceled):
		return "The interpretation was cancelled."
	case errors.Is(err, ErrContentBlocked):
		return "The AI provider declined to interpret this reading."
	case errors.Is(err, ErrEmptyResponse):
		return "The AI returned an empty interpretation. Please try again."
	case errors.As(err, &providerErr) && providerErr.Message != "":
		return "AI Error: " + providerErr.Message
	}
	return "Interpretation failed. The reading can still be saved without it."
}

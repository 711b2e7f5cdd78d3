package interpretation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unavailable", err: interpretation.ErrUnavailable, want: "AI interpretation is not configured."},
		{
			name: "invalid config",
			err:  fmt.Errorf("%w: api key missing", interpretation.ErrInvalidConfig),
			want: "AI interpretation is misconfigured. Check the provider settings.",
		},
		{
			name: "deadline",
			err:  fmt.Errorf("%w: %w", interpretation.ErrInterpretationFailed, context.DeadlineExceeded),
			want: "The interpretation took too long. Please try again.",
		},
		{
			name: "empty response",
			err:  interpretation.ErrEmptyResponse,
			want: "The AI returned an empty interpretation. Please try again.",
		},
		{
			name: "provider message",
			err:  fmt.Errorf("call: %w", &interpretation.ProviderError{Provider: "openrouter", StatusCode: 402, Message: "Insufficient credits"}),
			want: "AI Error: Insufficient credits",
		},
		{
			name: "opaque failure",
			err:  errors.New("dial tcp: connection refused"),
			want: "Interpretation failed. The reading can still be saved without it.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interpretation.UserMessage(tt.err))
		})
	}
}

func TestProviderError(t *testing.T) {
	err := &interpretation.ProviderError{Provider: "gemini", StatusCode: 503, Message: "overloaded"}

	assert.ErrorIs(t, err, interpretation.ErrInterpretationFailed)
	assert.Equal(t, "gemini: status 503: overloaded", err.Error())
	assert.True(t, err.Transient())

	assert.True(t, (&interpretation.ProviderError{StatusCode: 429}).Transient())
	assert.False(t, (&interpretation.ProviderError{StatusCode: 400}).Transient())
	assert.Equal(t, "gemini: bad", (&interpretation.ProviderError{Provider: "gemini", Message: "bad"}).Error())
}

func TestUnavailable(t *testing.T) {
	_, err := interpretation.Unavailable{}.Interpret(context.Background(), interpretation.Request{})
	assert.ErrorIs(t, err, interpretation.ErrUnavailable)
}

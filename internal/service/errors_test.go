package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tarots-ai/tarots-api/internal/domain"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "with underlying error",
			err:      &ServiceError{Service: "reading", Operation: "save_reading", Err: errors.New("disk full")},
			expected: "reading service save_reading operation failed: disk full",
		},
		{
			name:     "without underlying error",
			err:      &ServiceError{Service: "settings", Operation: "get"},
			expected: "settings service get operation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError("reading", "draw", nil))

	t.Run("sentinels pass through with detail", func(t *testing.T) {
		err := fmt.Errorf("%w: tarot-x", domain.ErrDeckNotFound)
		wrapped := wrapError("reading", "draw", err)
		assert.Same(t, err, wrapped)
		assert.ErrorIs(t, wrapped, domain.ErrDeckNotFound)
	})

	t.Run("unexpected errors are wrapped", func(t *testing.T) {
		cause := errors.New("backend down")
		wrapped := wrapError("settings", "update", cause)

		var svcErr *ServiceError
		assert.ErrorAs(t, wrapped, &svcErr)
		assert.Equal(t, "settings", svcErr.Service)
		assert.Equal(t, "update", svcErr.Operation)
		assert.ErrorIs(t, wrapped, cause)
	})
}

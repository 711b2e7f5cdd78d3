package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(TypeInterpretationRequested, InterpretationRequest{
		ReadingID: "r-1",
		Question:  "What now?",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeInterpretationRequested, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)
	assert.JSONEq(t, `{"readingId":"r-1","question":"What now?"}`, string(event.Payload))

	var decoded InterpretationRequest
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, "r-1", decoded.ReadingID)
	assert.Equal(t, "What now?", decoded.Question)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent(TypeReadingAdded, make(chan int))
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	LastEvent    *Event
	HandlerError error
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	handler := HandlerFunc(func(_ context.Context, e *Event) error {
		got = e
		return errors.New("nope")
	})

	event, err := NewEvent(TypeHistoryCleared, HistoryPayload{Count: 3})
	require.NoError(t, err)

	assert.EqualError(t, handler.HandleEvent(context.Background(), event), "nope")
	assert.Same(t, event, got)
}

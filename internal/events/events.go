package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the history store and the reading service.
const (
	TypeReadingAdded                 = "reading.added"
	TypeReadingDeleted               = "reading.deleted"
	TypeReadingNotesUpdated          = "reading.notes_updated"
	TypeReadingInterpretationUpdated = "reading.interpretation_updated"
	TypeHistoryCleared               = "history.cleared"
	TypeHistoryReplaced              = "history.replaced"

	// TypeInterpretationRequested asks for background interpretation of a
	// saved reading. Its payload is an InterpretationRequest.
	TypeInterpretationRequested = "reading.interpretation_requested"
)

// Event is a notification that something happened to the reading history.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// ReadingPayload identifies the reading an event is about.
type ReadingPayload struct {
	ReadingID string `json:"readingId"`
}

// HistoryPayload describes a bulk change of the history.
type HistoryPayload struct {
	Count int `json:"count"`
}

// InterpretationRequest is the payload of TypeInterpretationRequested.
type InterpretationRequest struct {
	ReadingID string `json:"readingId"`
	Question  string `json:"question,omitempty"`
	Model     string `json:"model,omitempty"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler processes events. Handlers that only care about some types
// ignore the rest and return nil.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to whoever is subscribed.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tarots-ai/tarots-api/internal/events"
)

// InterpretationEventHandler implements the events.EventHandler interface.
// It turns interpretation requests into tasks and enqueues them.
type InterpretationEventHandler struct {
	interpreter ReadingInterpreter
	queue       Sink
	logger      *slog.Logger
}

// Ensure InterpretationEventHandler implements events.EventHandler
var _ events.EventHandler = (*InterpretationEventHandler)(nil)

// NewInterpretationEventHandler creates a new event handler that enqueues an
// InterpretationTask for every interpretation request.
func NewInterpretationEventHandler(
	interpreter ReadingInterpreter,
	queue Sink,
	logger *slog.Logger,
) *InterpretationEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InterpretationEventHandler{
		interpreter: interpreter,
		queue:       queue,
		logger:      logger.With(slog.String("component", "interpretation_event_handler")),
	}
}

// HandleEvent ignores every event except events.TypeInterpretationRequested.
func (h *InterpretationEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeInterpretationRequested {
		return nil
	}

	var request events.InterpretationRequest
	if err := event.UnmarshalPayload(&request); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal payload",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	task, err := NewInterpretationTask(request, h.interpreter, h.logger)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create task",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.queue.Enqueue(task); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID().String()),
			slog.String("reading_id", request.ReadingID))
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	h.logger.InfoContext(ctx, "interpretation task enqueued",
		slog.String("task_id", task.ID().String()),
		slog.String("reading_id", request.ReadingID),
		slog.String("event_id", event.ID.String()))
	return nil
}

package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tarots-ai/tarots-api/internal/events"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
)

// Common errors
var (
	ErrNilInterpreter = errors.New("reading interpreter cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyReadingID = errors.New("reading ID cannot be empty")
)

// ReadingInterpreter interprets a saved reading and stores the text on it.
// The reading service implements it.
type ReadingInterpreter interface {
	InterpretReading(ctx context.Context, readingID, question, model string) (interpretation.Result, error)
}

// InterpretationTask implements the Task interface for interpreting a
// saved reading in the background
type InterpretationTask struct {
	id          uuid.UUID
	request     events.InterpretationRequest
	interpreter ReadingInterpreter
	logger      *slog.Logger

	mu     sync.Mutex
	status Status
}

var _ Task = (*InterpretationTask)(nil)

// NewInterpretationTask creates a new interpretation task
func NewInterpretationTask(
	request events.InterpretationRequest,
	interpreter ReadingInterpreter,
	logger *slog.Logger,
) (*InterpretationTask, error) {
	if interpreter == nil {
		return nil, ErrNilInterpreter
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if request.ReadingID == "" {
		return nil, ErrEmptyReadingID
	}

	return &InterpretationTask{
		id:          uuid.New(),
		request:     request,
		interpreter: interpreter,
		logger: logger.With(
			slog.String("task_type", TaskTypeInterpretation),
			slog.String("reading_id", request.ReadingID)),
		status: StatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *InterpretationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *InterpretationTask) Type() string {
	return TaskTypeInterpretation
}

// Payload returns the interpretation request as JSON
func (t *InterpretationTask) Payload() []byte {
	data, err := json.Marshal(t.request)
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *InterpretationTask) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *InterpretationTask) setStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute interprets the reading. A failure leaves the reading saved without
// interpretation.
func (t *InterpretationTask) Execute(ctx context.Context) error {
	t.setStatus(StatusProcessing)
	t.logger.InfoContext(ctx, "starting interpretation task")

	result, err := t.interpreter.InterpretReading(ctx, t.request.ReadingID, t.request.Question, t.request.Model)
	if err != nil {
		t.setStatus(StatusFailed)
		return fmt.Errorf("failed to interpret reading %s: %w", t.request.ReadingID, err)
	}

	t.setStatus(StatusCompleted)
	t.logger.InfoContext(ctx, "interpretation attached",
		slog.String("model", result.Model),
		slog.Int("text_length", len(result.Text)))
	return nil
}

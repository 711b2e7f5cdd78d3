package task

import (
	"context"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// TaskTypeInterpretation interprets a saved reading in the background.
const TaskTypeInterpretation = "reading_interpretation"

// Task is one unit of background work run by the worker pool.
type Task interface {
	ID() uuid.UUID
	Type() string
	// Payload is the JSON form of the task's input, used in logs and
	// error reports.
	Payload() []byte
	Status() Status
	Execute(ctx context.Context) error
}

// Source is the consuming side of a queue. Workers range over Tasks until it
// is closed.
type Source interface {
	Tasks() <-chan Task
}

// Sink is the producing side of a queue.
type Sink interface {
	// Enqueue must not block. It fails with ErrQueueFull or ErrQueueClosed.
	Enqueue(task Task) error
	Close()
}

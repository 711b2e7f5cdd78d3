package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is an in-memory bounded queue. Pending interpretations are not
// persisted; a restart drops whatever is still buffered.
type TaskQueue struct {
	mu     sync.RWMutex
	ch     chan Task
	closed bool
	logger *slog.Logger
}

var (
	_ Source = (*TaskQueue)(nil)
	_ Sink   = (*TaskQueue)(nil)
)

// NewTaskQueue returns a queue buffering up to size tasks (at least one).
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueue{
		ch:     make(chan Task, max(size, 1)),
		logger: logger.With(slog.String("component", "task_queue")),
	}
}

// Enqueue buffers task without blocking.
func (q *TaskQueue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- task:
	default:
		return fmt.Errorf("%w: %d tasks pending", ErrQueueFull, cap(q.ch))
	}

	q.logger.Debug("task enqueued",
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("pending", len(q.ch)))
	return nil
}

// Close stops accepting tasks. Buffered tasks are still delivered, so workers
// can drain the queue before exiting. Calling Close again is a no-op.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
	q.logger.Info("task queue closed", slog.Int("pending", len(q.ch)))
}

func (q *TaskQueue) Tasks() <-chan Task {
	return q.ch
}

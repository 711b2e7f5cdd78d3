package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/events"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/store"
)

// History owns the reading sessions of a single user. All methods are safe
// for concurrent use; mutations are serialised.
type History struct {
	docs    store.DocumentStore
	emitter events.EventEmitter
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions []domain.ReadingSession // newest first
}

// Option configures a History.
type Option func(*History)

// WithEmitter publishes an event after every successful mutation.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(h *History) {
		h.emitter = emitter
	}
}

// New creates a History backed by docs and hydrates it from the persisted
// document. A missing document yields an empty history, as does a corrupt one
// (logged with domain.ErrStorageCorrupt). Only backend failures are returned.
func New(ctx context.Context, docs store.DocumentStore, log *slog.Logger, opts ...Option) (*History, error) {
	if docs == nil {
		return nil, errors.New("document store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	h := &History{
		docs:     docs,
		logger:   log.With(slog.String("component", "history")),
		sessions: []domain.ReadingSession{},
	}
	for _, opt := range opts {
		opt(h)
	}

	if err := h.load(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *History) load(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	data, err := h.docs.Get(ctx, store.HistoryKey)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("no persisted history, starting empty")
			return nil
		}
		return fmt.Errorf("failed to load history: %w", err)
	}

	sessions, err := decode(data)
	if err != nil {
		log.Warn("persisted history is unreadable, starting empty",
			slog.String("error", err.Error()),
			slog.Int("bytes", len(data)))
		return nil
	}

	// Keep the first occurrence of an id so the loaded state honours the
	// uniqueness invariant even if an older version wrote duplicates.
	seen := make(map[string]struct{}, len(sessions))
	kept := sessions[:0]
	for _, s := range sessions {
		if _, dup := seen[s.ID]; dup {
			log.Warn("dropping duplicate reading from persisted history",
				slog.String("reading_id", s.ID))
			continue
		}
		seen[s.ID] = struct{}{}
		kept = append(kept, s)
	}

	h.sessions = kept
	log.Debug("history loaded", slog.Int("readings", len(kept)))
	return nil
}

func decode(data []byte) ([]domain.ReadingSession, error) {
	var sessions []domain.ReadingSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageCorrupt, err)
	}
	if sessions == nil {
		sessions = []domain.ReadingSession{}
	}
	return sessions, nil
}

// persist writes next as the whole history document. The caller holds mu.
func (h *History) persist(ctx context.Context, next []domain.ReadingSession) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := h.docs.Put(ctx, store.HistoryKey, data); err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Error("failed to persist history",
			slog.String("error", err.Error()),
			slog.Int("readings", len(next)))
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

// commit persists next and, on success, makes it the visible state.
// The caller holds mu.
func (h *History) commit(ctx context.Context, next []domain.ReadingSession) error {
	if err := h.persist(ctx, next); err != nil {
		return err
	}
	h.sessions = next
	return nil
}

func (h *History) emit(ctx context.Context, eventType string, payload interface{}) {
	if h.emitter == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err == nil {
		err = h.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Warn("failed to emit history event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func (h *History) indexOf(id string) int {
	for i := range h.sessions {
		if h.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// AddReading inserts session at the front of the history.
// Returns domain.ErrDuplicateSessionID if a reading with the same id exists.
func (h *History) AddReading(ctx context.Context, session domain.ReadingSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid reading: %w", err)
	}

	h.mu.Lock()
	if h.indexOf(session.ID) >= 0 {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateSessionID, session.ID)
	}

	next := make([]domain.ReadingSession, 0, len(h.sessions)+1)
	next = append(next, clone(session))
	next = append(next, h.sessions...)
	err := h.commit(ctx, next)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	h.emit(ctx, events.TypeReadingAdded, events.ReadingPayload{ReadingID: session.ID})
	return nil
}

// DeleteReading removes the reading with the given id. Deleting an unknown id
// is a no-op and does not touch the persisted document.
func (h *History) DeleteReading(ctx context.Context, id string) error {
	h.mu.Lock()
	i := h.indexOf(id)
	if i < 0 {
		h.mu.Unlock()
		return nil
	}

	next := make([]domain.ReadingSession, 0, len(h.sessions)-1)
	next = append(next, h.sessions[:i]...)
	next = append(next, h.sessions[i+1:]...)
	err := h.commit(ctx, next)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	h.emit(ctx, events.TypeReadingDeleted, events.ReadingPayload{ReadingID: id})
	return nil
}

// UpdateUserNotes replaces the notes of a reading. No-op for an unknown id.
func (h *History) UpdateUserNotes(ctx context.Context, id, text string) error {
	return h.update(ctx, id, events.TypeReadingNotesUpdated, func(s *domain.ReadingSession) {
		s.UserNotes = text
	})
}

// UpdateReadingInterpretation replaces the AI interpretation of a reading.
// No-op for an unknown id.
func (h *History) UpdateReadingInterpretation(ctx context.Context, id, text string) error {
	return h.update(ctx, id, events.TypeReadingInterpretationUpdated, func(s *domain.ReadingSession) {
		s.AIInterpretation = text
	})
}

// SetInterpretation attaches interpretation text together with the model that
// produced it. No-op for an unknown id.
func (h *History) SetInterpretation(ctx context.Context, id, text, model string) error {
	return h.update(ctx, id, events.TypeReadingInterpretationUpdated, func(s *domain.ReadingSession) {
		s.AIInterpretation = text
		s.ModelUsed = model
	})
}

func (h *History) update(ctx context.Context, id, eventType string, apply func(*domain.ReadingSession)) error {
	h.mu.Lock()
	i := h.indexOf(id)
	if i < 0 {
		h.mu.Unlock()
		logger.FromContextOrDefault(ctx, h.logger).Debug("update of unknown reading ignored",
			slog.String("reading_id", id))
		return nil
	}

	next := append([]domain.ReadingSession(nil), h.sessions...)
	updated := clone(next[i])
	apply(&updated)
	next[i] = updated
	err := h.commit(ctx, next)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	h.emit(ctx, eventType, events.ReadingPayload{ReadingID: id})
	return nil
}

// ClearHistory removes every reading.
func (h *History) ClearHistory(ctx context.Context) error {
	h.mu.Lock()
	count := len(h.sessions)
	err := h.commit(ctx, []domain.ReadingSession{})
	h.mu.Unlock()
	if err != nil {
		return err
	}

	h.emit(ctx, events.TypeHistoryCleared, events.HistoryPayload{Count: count})
	return nil
}

// ReplaceAll swaps the whole history for sessions, kept in the given order.
// It is the bulk-set used by backup import. Every session must be valid and
// ids must be unique, otherwise nothing changes.
func (h *History) ReplaceAll(ctx context.Context, sessions []domain.ReadingSession) error {
	next := make([]domain.ReadingSession, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid reading %q: %w", s.ID, err)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSessionID, s.ID)
		}
		seen[s.ID] = struct{}{}
		next = append(next, clone(s))
	}

	h.mu.Lock()
	err := h.commit(ctx, next)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	h.emit(ctx, events.TypeHistoryReplaced, events.HistoryPayload{Count: len(next)})
	return nil
}

// List returns a copy of every reading, newest first in insertion order.
// Callers wanting timestamp order sort the copy themselves.
func (h *History) List() []domain.ReadingSession {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.ReadingSession, len(h.sessions))
	for i, s := range h.sessions {
		out[i] = clone(s)
	}
	return out
}

// Get returns the reading with the given id.
func (h *History) Get(id string) (domain.ReadingSession, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i := h.indexOf(id); i >= 0 {
		return clone(h.sessions[i]), true
	}
	return domain.ReadingSession{}, false
}

// Len returns the number of stored readings.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func clone(s domain.ReadingSession) domain.ReadingSession {
	cards := make([]domain.DrawnCard, len(s.Cards))
	copy(cards, s.Cards)
	s.Cards = cards
	return s
}

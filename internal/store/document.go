package store

import "context"

// Fixed document keys.
const (
	// HistoryKey stores the JSON array of reading sessions.
	HistoryKey = "tarots-history"

	// SettingsKey stores the JSON settings object.
	SettingsKey = "tarots-settings"
)

// UpdateFn computes the next value of a document from its current value.
// exists is false when the document has never been written, in which case
// current is nil. Returning an error aborts the update without writing.
type UpdateFn func(current []byte, exists bool) ([]byte, error)

// DocumentStore persists opaque documents by key.
//
// Implementations must make every Put atomic with respect to readers: a
// reader observes either the previous document or the new one, never a mix.
type DocumentStore interface {
	// Get returns the document stored under key.
	// Returns ErrDocumentNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, data []byte) error

	// Update atomically reads, transforms and writes the document under key.
	// Concurrent Updates of the same key are serialised.
	Update(ctx context.Context, key string, fn UpdateFn) error

	// Delete removes the document. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

package mocks

import (
	"context"
	"sync"

	"github.com/tarots-ai/tarots-api/internal/store"
)

// MockDocumentStore is an in-memory store.DocumentStore. The Fn fields, when
// set, replace the default behaviour of the corresponding method.
type MockDocumentStore struct {
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	PutFn    func(ctx context.Context, key string, data []byte) error
	DeleteFn func(ctx context.Context, key string) error

	mu   sync.Mutex
	docs map[string][]byte

	// PutCalls counts Put and successful Update writes per key.
	PutCalls map[string]int
}

var _ store.DocumentStore = (*MockDocumentStore)(nil)

// NewMockDocumentStore creates an empty MockDocumentStore.
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		docs:     make(map[string][]byte),
		PutCalls: make(map[string]int),
	}
}

// Seed stores data under key without counting it as a Put.
func (m *MockDocumentStore) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), data...)
}

// Raw returns the stored bytes for key and whether the key exists.
func (m *MockDocumentStore) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	return append([]byte(nil), data...), ok
}

// Puts returns how many writes reached key.
func (m *MockDocumentStore) Puts(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PutCalls[key]
}

// Get implements store.DocumentStore.
func (m *MockDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put implements store.DocumentStore.
func (m *MockDocumentStore) Put(ctx context.Context, key string, data []byte) error {
	if m.PutFn != nil {
		if err := m.PutFn(ctx, key, data); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), data...)
	m.PutCalls[key]++
	return nil
}

// Update implements store.DocumentStore. It goes through Get and Put so the
// Fn overrides apply.
func (m *MockDocumentStore) Update(ctx context.Context, key string, fn store.UpdateFn) error {
	current, err := m.Get(ctx, key)
	exists := err == nil
	if err != nil && !store.IsNotFoundError(err) {
		return err
	}
	next, err := fn(current, exists)
	if err != nil {
		return err
	}
	return m.Put(ctx, key, next)
}

// Delete implements store.DocumentStore.
func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/store"
)

const (
	fileExt  = ".json"
	dirPerm  = 0o700
	filePerm = 0o600
)

// ErrInvalidKey is returned for keys that are empty or would escape the
// store directory.
var ErrInvalidKey = errors.New("invalid document key")

// Store is a directory of JSON documents.
type Store struct {
	dir    string
	logger *slog.Logger
	// mu serialises writers inside this process; there is no cross-process lock.
	mu sync.Mutex
}

var _ store.DocumentStore = (*Store)(nil)

// New creates the directory if needed and returns a store rooted at it.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: directory cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("filestore: logger cannot be nil")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With(slog.String("component", "file_store")),
	}, nil
}

// Dir returns the directory holding the documents.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// Get implements store.DocumentStore.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrDocumentNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("document", "get", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	return data, nil
}

// Put implements store.DocumentStore.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, key, data)
}

// Update implements store.DocumentStore.
func (s *Store) Update(ctx context.Context, key string, fn store.UpdateFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx, key)
	exists := true
	if err != nil {
		if !store.IsNotFoundError(err) {
			return err
		}
		exists = false
	}

	next, err := fn(current, exists)
	if err != nil {
		return err
	}
	return s.write(ctx, key, next)
}

// Delete implements store.DocumentStore.
func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return store.NewStoreError("document", "delete", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	return nil
}

// write must be called with mu held.
func (s *Store) write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return store.NewStoreError("document", "put", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return store.NewStoreError("document", "put", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return store.NewStoreError("document", "put", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	if err := tmp.Close(); err != nil {
		return store.NewStoreError("document", "put", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return store.NewStoreError("document", "put", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		log.Error("failed to replace document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError("document", "put", key, fmt.Errorf("%w: %w", store.ErrInternal, err))
	}
	committed = true

	log.Debug("document written", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

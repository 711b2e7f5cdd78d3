package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/store"
)

const (
	selectDocumentQuery = `SELECT data FROM documents WHERE key = $1`

	selectDocumentForUpdateQuery = `SELECT data FROM documents WHERE key = $1 FOR UPDATE`

	upsertDocumentQuery = `
		INSERT INTO documents (key, data, revision, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data,
		    revision = documents.revision + 1,
		    updated_at = now()`

	deleteDocumentQuery = `DELETE FROM documents WHERE key = $1`
)

// PostgresDocumentStore implements the store.DocumentStore interface
// using a PostgreSQL table as the storage backend. Each document is one row;
// every write bumps the row revision.
type PostgresDocumentStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure PostgresDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*PostgresDocumentStore)(nil)

// NewPostgresDocumentStore creates a new PostgreSQL implementation of the
// DocumentStore interface. The connection pool is owned by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDocumentStore(db *sql.DB, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Get implements store.DocumentStore.Get.
// Returns store.ErrDocumentNotFound if no row exists for key.
func (s *PostgresDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, s.db, selectDocumentQuery, key)
}

func (s *PostgresDocumentStore) get(ctx context.Context, db store.DBTX, query, key string) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var data []byte
	err := db.QueryRowContext(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("key", key))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to read document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("document", "get", key, MapError(err))
	}
	return data, nil
}

// Put implements store.DocumentStore.Put.
func (s *PostgresDocumentStore) Put(ctx context.Context, key string, data []byte) error {
	return s.put(ctx, s.db, key, data)
}

func (s *PostgresDocumentStore) put(ctx context.Context, db store.DBTX, key string, data []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := db.ExecContext(ctx, upsertDocumentQuery, key, data); err != nil {
		log.Error("failed to write document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError("document", "put", key, MapError(err))
	}

	log.Debug("document written", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

// Update implements store.DocumentStore.Update.
// The current row is locked with SELECT ... FOR UPDATE for the duration of
// the transaction, serialising concurrent updates across processes.
func (s *PostgresDocumentStore) Update(ctx context.Context, key string, fn store.UpdateFn) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.get(ctx, tx, selectDocumentForUpdateQuery, key)
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
		return s.put(ctx, tx, key, next)
	})
}

// Delete implements store.DocumentStore.Delete.
func (s *PostgresDocumentStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteDocumentQuery, key); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError("document", "delete", key, MapError(err))
	}
	return nil
}

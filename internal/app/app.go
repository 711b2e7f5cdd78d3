// Package app assembles the reading core from configuration: the document
// store backend, the deck catalog, the history, the services and the
// interpretation provider. The HTTP server and the CLI share it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/decks"
	"github.com/tarots-ai/tarots-api/internal/events"
	"github.com/tarots-ai/tarots-api/internal/history"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"github.com/tarots-ai/tarots-api/internal/platform/filestore"
	"github.com/tarots-ai/tarots-api/internal/platform/gemini"
	"github.com/tarots-ai/tarots-api/internal/platform/openrouter"
	"github.com/tarots-ai/tarots-api/internal/platform/postgres"
	"github.com/tarots-ai/tarots-api/internal/service"
	"github.com/tarots-ai/tarots-api/internal/service/auth"
	"github.com/tarots-ai/tarots-api/internal/store"
	"github.com/tarots-ai/tarots-api/internal/task"
)

// App holds the wired dependencies.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Docs        store.DocumentStore
	Registry    *decks.Registry
	History     *history.History
	Emitter     *events.InMemoryEventEmitter
	Interpreter interpretation.Interpreter
	Settings    *service.SettingsService
	Readings    *service.ReadingService
	Backup      *service.BackupService
	// JWT is nil when authentication is disabled.
	JWT auth.JWTService

	db      *sql.DB
	queue   *task.TaskQueue
	workers *task.WorkerPool
}

// New builds the application from cfg. The returned App must be closed.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	var err error
	if a.Docs, err = a.openStore(ctx); err != nil {
		return nil, err
	}

	if a.Registry, err = decks.New(logger, cfg.Decks.LibraryDir); err != nil {
		return nil, fmt.Errorf("failed to load deck catalog: %w", err)
	}

	a.Emitter = events.NewInMemoryEventEmitter(logger)

	if a.History, err = history.New(ctx, a.Docs, logger, history.WithEmitter(a.Emitter)); err != nil {
		return nil, fmt.Errorf("failed to load reading history: %w", err)
	}

	if a.Settings, err = service.NewSettingsService(a.Docs, a.Registry, logger); err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}

	if a.Interpreter, err = NewInterpreter(ctx, cfg.LLM, logger); err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	a.Readings, err = service.NewReadingService(a.Registry, a.History, a.Settings, a.Interpreter, a.Emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reading service: %w", err)
	}

	if a.Backup, err = service.NewBackupService(a.History, logger); err != nil {
		return nil, fmt.Errorf("failed to create backup service: %w", err)
	}

	if cfg.AuthEnabled() {
		if a.JWT, err = auth.NewJWTService(cfg.Auth); err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("JWT authentication enabled",
			slog.Duration("token_lifetime", cfg.Auth.TokenLifetime))
	}

	logger.Info("application initialized",
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Int("decks", len(a.Registry.AvailableDecks())),
		slog.Int("readings", a.History.Len()))

	ok = true
	return a, nil
}

func (a *App) openStore(ctx context.Context) (store.DocumentStore, error) {
	switch a.Config.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, a.Config.Storage.DatabaseURL, a.Logger)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := postgres.Migrate(ctx, db, a.Logger); err != nil {
			return nil, err
		}
		return postgres.NewPostgresDocumentStore(db, a.Logger), nil

	case config.BackendFile, "":
		fs, err := filestore.New(a.Config.Storage.Dir, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		return fs, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.Config.Storage.Backend)
	}
}

// NewInterpreter returns the interpretation provider selected by cfg.
// Provider "none" yields interpretation.Unavailable.
func NewInterpreter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (interpretation.Interpreter, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		interpreter, err := gemini.NewInterpreter(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		return interpreter, nil
	case config.ProviderOpenRouter:
		client, err := openrouter.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderNone, "":
		return interpretation.Unavailable{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", interpretation.ErrInvalidConfig, cfg.Provider)
	}
}

// StartWorkers starts the background interpretation pool and subscribes it
// to interpretation requests. Without it, requests are logged and dropped.
func (a *App) StartWorkers() {
	if a.workers != nil {
		return
	}
	a.queue = task.NewTaskQueue(a.Config.Tasks.QueueSize, a.Logger)
	a.workers = task.NewWorkerPool(a.queue, task.WorkerPoolConfig{
		WorkerCount: a.Config.Tasks.WorkerCount,
	}, a.Logger)
	a.workers.SetErrorHandler(func(t task.Task, err error) {
		a.Logger.Warn("background task failed",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
	})
	a.Emitter.RegisterHandler(task.NewInterpretationEventHandler(a.Readings, a.queue, a.Logger))
	a.workers.Start()

	a.Logger.Info("background workers started",
		slog.Int("workers", a.Config.Tasks.WorkerCount),
		slog.Int("queue_size", a.Config.Tasks.QueueSize))
}

// DrainWorkers stops accepting tasks and waits up to timeout for queued
// interpretations to finish before cancelling the rest.
func (a *App) DrainWorkers(timeout time.Duration) {
	if a.workers == nil {
		return
	}
	a.queue.Close()

	done := make(chan struct{})
	go func() {
		a.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.Logger.Info("background workers drained")
	case <-time.After(timeout):
		a.Logger.Warn("background workers did not drain in time, cancelling",
			slog.Duration("timeout", timeout))
	}
	a.workers.Stop()
	a.workers = nil
}

// Close releases the resources held by the application.
func (a *App) Close() {
	a.DrainWorkers(5 * time.Second)
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
		a.db = nil
	}
}

package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tarots-ai/tarots-api/internal/decks"
	"github.com/tarots-ai/tarots-api/internal/history"
	"github.com/tarots-ai/tarots-api/internal/mocks"
)

var fixedNow = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires the services over in-memory fakes and the built-in catalog.
type fixture struct {
	docs        *mocks.MockDocumentStore
	registry    *decks.Registry
	history     *history.History
	settings    *SettingsService
	interpreter *mocks.MockInterpreter
	emitter     *mocks.MockEventEmitter
	readings    *ReadingService
	backup      *BackupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := quietLogger()

	f := &fixture{
		docs:        mocks.NewMockDocumentStore(),
		interpreter: &mocks.MockInterpreter{},
		emitter:     &mocks.MockEventEmitter{},
	}

	var err error
	f.registry, err = decks.New(log, "")
	require.NoError(t, err)

	f.history, err = history.New(ctx, f.docs, log)
	require.NoError(t, err)

	f.settings, err = NewSettingsService(f.docs, f.registry, log)
	require.NoError(t, err)

	f.readings, err = NewReadingService(f.registry, f.history, f.settings, f.interpreter, f.emitter, log)
	require.NoError(t, err)
	f.readings.now = func() time.Time { return fixedNow }

	f.backup, err = NewBackupService(f.history, log)
	require.NoError(t, err)

	return f
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

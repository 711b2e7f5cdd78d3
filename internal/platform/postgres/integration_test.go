package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/platform/postgres"
	"github.com/tarots-ai/tarots-api/internal/store"
)

// testDatabaseURLEnv names the database used by the integration tests.
const testDatabaseURLEnv = "TAROT_TEST_DATABASE_URL"

func TestDocumentStoreIntegration(t *testing.T) {
	dbURL := os.Getenv(testDatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("%s not set, skipping integration test", testDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log, _ := logger.GetTestLogger(t)
	db, err := postgres.Open(ctx, dbURL, log)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, postgres.Migrate(ctx, db, log))

	s := postgres.NewPostgresDocumentStore(db, log)
	key := "integration-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	require.NoError(t, s.Put(ctx, key, []byte(`["a"]`)))
	require.NoError(t, s.Update(ctx, key, func(current []byte, exists bool) ([]byte, error) {
		assert.True(t, exists)
		return append(current[:len(current)-1], []byte(`,"b"]`)...), nil
	}))

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarots-ai/tarots-api/internal/api"
	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/decks"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/domain/celestial"
	"github.com/tarots-ai/tarots-api/internal/domain/stats"
	"github.com/tarots-ai/tarots-api/internal/events"
	"github.com/tarots-ai/tarots-api/internal/history"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"github.com/tarots-ai/tarots-api/internal/mocks"
	"github.com/tarots-ai/tarots-api/internal/service"
	"github.com/tarots-ai/tarots-api/internal/service/auth"
	"github.com/tarots-ai/tarots-api/internal/store"
)

type testServer struct {
	handler     http.Handler
	docs        *mocks.MockDocumentStore
	interpreter *mocks.MockInterpreter
	emitter     *mocks.MockEventEmitter
}

func newTestServer(t *testing.T, jwt auth.JWTService) *testServer {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{
		docs:        mocks.NewMockDocumentStore(),
		interpreter: &mocks.MockInterpreter{},
		emitter:     &mocks.MockEventEmitter{},
	}

	registry, err := decks.New(log, "")
	require.NoError(t, err)
	hist, err := history.New(ctx, ts.docs, log)
	require.NoError(t, err)
	settings, err := service.NewSettingsService(ts.docs, registry, log)
	require.NoError(t, err)
	readings, err := service.NewReadingService(registry, hist, settings, ts.interpreter, ts.emitter, log)
	require.NoError(t, err)
	backup, err := service.NewBackupService(hist, log)
	require.NoError(t, err)

	ts.handler = api.NewRouter(api.Dependencies{
		Readings: readings,
		Settings: settings,
		Backup:   backup,
		JWT:      jwt,
		Logger:   log,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[shared.ErrorResponse](t, rr).Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[api.HealthResponse](t, rr).Status)
}

func TestCatalogRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(t, http.MethodGet, "/api/decks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	infos := decode[[]domain.DeckInfo](t, rr)
	require.NotEmpty(t, infos)

	rr = ts.do(t, http.MethodGet, "/api/decks/rider-waite", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	deck := decode[domain.Deck](t, rr)
	assert.Len(t, deck.Cards, 78)

	rr = ts.do(t, http.MethodGet, "/api/decks/thoth", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Deck not found", errorMessage(t, rr))

	rr = ts.do(t, http.MethodGet, "/api/spreads", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, s := range decode[[]domain.Spread](t, rr) {
		assert.NotEqual(t, decks.DailySpreadID, s.ID)
	}

	rr = ts.do(t, http.MethodGet, "/api/spreads/celtic-cross", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[domain.Spread](t, rr).Slots, 10)

	rr = ts.do(t, http.MethodGet, "/api/spreads/horseshoe", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDrawRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("seeded spread is reproducible", func(t *testing.T) {
		body := map[string]string{"spreadId": "three-card", "seed": "equinox"}
		first := ts.do(t, http.MethodPost, "/api/draw/spread", body)
		second := ts.do(t, http.MethodPost, "/api/draw/spread", body)

		require.Equal(t, http.StatusOK, first.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Len(t, decode[service.SpreadDraw](t, first).Cards, 3)
	})

	t.Run("one card at a time", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/draw", map[string]interface{}{
			"spreadId": "three-card",
			"drawn": []map[string]interface{}{
				{"cardId": "maj_00", "positionId": "past"},
			},
		})
		require.Equal(t, http.StatusOK, rr.Code)
		draw := decode[service.CardDraw](t, rr)
		assert.Equal(t, "present", draw.PositionID)
		assert.NotEqual(t, "maj_00", draw.CardID)
		assert.Equal(t, draw.CardID, draw.Card.ID)
	})

	t.Run("filled position", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/draw", map[string]interface{}{
			"spreadId":   "three-card",
			"positionId": "past",
			"drawn":      []map[string]interface{}{{"cardId": "maj_00", "positionId": "past"}},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "That position already holds a card", errorMessage(t, rr))
	})

	t.Run("missing spread id", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/draw/spread", map[string]string{"seed": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid SpreadID: required field", errorMessage(t, rr))
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/draw/spread", `{"spreadId":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request format", errorMessage(t, rr))
	})

	t.Run("unknown deck", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/draw/spread", map[string]string{"spreadId": "daily", "deckId": "nope"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDailyAndMoon(t *testing.T) {
	ts := newTestServer(t, nil)

	first := ts.do(t, http.MethodGet, "/api/daily?date=2025-06-01", nil)
	second := ts.do(t, http.MethodGet, "/api/daily?date=2025-06-01", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	daily := decode[service.DailyDraw](t, first)
	assert.Equal(t, "2025-06-01", daily.Date)
	assert.Equal(t, "card", daily.Card.PositionID)

	rr := ts.do(t, http.MethodGet, "/api/daily?date=first-of-june", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/moon?date=2024-01-11T11:57:00Z", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, celestial.NewMoon, decode[celestial.Moon](t, rr).Phase)
}

func TestInterpretRoute(t *testing.T) {
	ts := newTestServer(t, nil)
	cards := []map[string]interface{}{{"cardId": "maj_17", "positionId": "card"}}

	ts.interpreter.Result = interpretation.Result{Text: "Hope returns.", Model: "gemini-test"}
	rr := ts.do(t, http.MethodPost, "/api/interpret", map[string]interface{}{
		"spreadId": "daily",
		"cards":    cards,
		"question": "What should I focus on?",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Hope returns.", decode[interpretation.Result](t, rr).Text)

	ts.interpreter.Result = interpretation.Result{}
	ts.interpreter.Err = &interpretation.ProviderError{Provider: "openrouter", StatusCode: 503, Message: "upstream overloaded"}
	rr = ts.do(t, http.MethodPost, "/api/interpret", map[string]interface{}{"spreadId": "daily", "cards": cards})
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/interpret", map[string]interface{}{"spreadId": "daily", "cards": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPatch, "/api/settings/ai", map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.do(t, http.MethodPost, "/api/interpret", map[string]interface{}{"spreadId": "daily", "cards": cards})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, interpretation.UserMessage(interpretation.ErrUnavailable), errorMessage(t, rr))
}

func threeCardReading() map[string]interface{} {
	return map[string]interface{}{
		"spreadId": "three-card",
		"question": "Where is this heading?",
		"cards": []map[string]interface{}{
			{"cardId": "maj_01", "positionId": "past"},
			{"cardId": "cups_03", "positionId": "present", "isReversed": true},
			{"cardId": "maj_19", "positionId": "future"},
		},
	}
}

func TestReadingLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(t, http.MethodPost, "/api/readings", threeCardReading())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	saved := decode[domain.ReadingSession](t, rr)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.DefaultDeckID, saved.DeckID)

	rr = ts.do(t, http.MethodGet, "/api/readings", nil)
	list := decode[api.ReadingListResponse](t, rr)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, saved.ID, list.Readings[0].ID)

	rr = ts.do(t, http.MethodPut, "/api/readings/"+saved.ID+"/notes", map[string]string{"notes": "Felt accurate."})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Felt accurate.", decode[domain.ReadingSession](t, rr).UserNotes)

	rr = ts.do(t, http.MethodPut, "/api/readings/"+saved.ID+"/interpretation", map[string]string{"text": "My own reading."})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "My own reading.", decode[domain.ReadingSession](t, rr).AIInterpretation)

	ts.interpreter.Result = interpretation.Result{Text: "The sun rises.", Model: "m-1"}
	rr = ts.do(t, http.MethodPost, "/api/readings/"+saved.ID+"/interpret", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	interpreted := decode[domain.ReadingSession](t, rr)
	assert.Equal(t, "The sun rises.", interpreted.AIInterpretation)
	assert.Equal(t, "m-1", interpreted.ModelUsed)

	rr = ts.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[stats.Stats](t, rr)
	assert.Equal(t, 1, summary.TotalReadings)
	assert.Equal(t, 3, summary.TotalCards)
	assert.Equal(t, 2, summary.SuitCounts["major"])
	assert.Equal(t, 1, summary.SuitCounts["cups"])

	rr = ts.do(t, http.MethodDelete, "/api/readings/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.do(t, http.MethodGet, "/api/readings/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Reading not found", errorMessage(t, rr))

	rr = ts.do(t, http.MethodDelete, "/api/readings/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.do(t, http.MethodPut, "/api/readings/missing/notes", map[string]string{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSaveReadingValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	incomplete := threeCardReading()
	incomplete["cards"] = []map[string]interface{}{{"cardId": "maj_01", "positionId": "past"}}
	rr := ts.do(t, http.MethodPost, "/api/readings", incomplete)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Every position of the spread needs a card", errorMessage(t, rr))

	unknownCard := threeCardReading()
	unknownCard["cards"] = []map[string]interface{}{
		{"cardId": "maj_01", "positionId": "past"},
		{"cardId": "maj_99", "positionId": "present"},
		{"cardId": "maj_19", "positionId": "future"},
	}
	rr = ts.do(t, http.MethodPost, "/api/readings", unknownCard)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	sameCard := threeCardReading()
	sameCard["cards"] = []map[string]interface{}{
		{"cardId": "maj_00", "positionId": "past"},
		{"cardId": "maj_00", "positionId": "present"},
		{"cardId": "maj_00", "positionId": "future"},
	}
	rr = ts.do(t, http.MethodPost, "/api/readings", sameCard)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "The same card cannot appear twice in a reading", errorMessage(t, rr))

	unknownDeck := threeCardReading()
	unknownDeck["cards"] = []map[string]interface{}{
		{"cardId": "maj_01", "positionId": "past"},
		{"cardId": "bogus-1", "deckId": "nope", "positionId": "present"},
		{"cardId": "maj_19", "positionId": "future"},
	}
	rr = ts.do(t, http.MethodPost, "/api/readings", unknownDeck)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Deck not found", errorMessage(t, rr))

	rr = ts.do(t, http.MethodPost, "/api/readings", map[string]interface{}{"spreadId": "daily"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSaveReadingRequestsBackgroundInterpretation(t *testing.T) {
	ts := newTestServer(t, nil)

	body := threeCardReading()
	body["interpret"] = true
	rr := ts.do(t, http.MethodPost, "/api/readings", body)

	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Contains(t, ts.emitter.Types(), events.TypeInterpretationRequested)
}

func TestSaveReadingStorageFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.docs.PutFn = func(context.Context, string, []byte) error {
		return store.NewStoreError("document", "put", store.HistoryKey, errors.New("open /var/lib/tarots/history.json: read-only file system"))
	}

	rr := ts.do(t, http.MethodPost, "/api/readings", threeCardReading())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to save reading", errorMessage(t, rr))
	assert.NotContains(t, rr.Body.String(), "/var/lib")
}

func TestBackupRoundTrip(t *testing.T) {
	source := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, source.do(t, http.MethodPost, "/api/readings", threeCardReading()).Code)

	rr := source.do(t, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "tarots-backup-")
	backup := decode[service.Backup](t, rr)
	assert.Equal(t, service.BackupVersion, backup.Version)
	require.Len(t, backup.Readings, 1)

	target := newTestServer(t, nil)
	rr = target.do(t, http.MethodPost, "/api/backup", backup)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, decode[map[string]int](t, rr)["imported"])

	list := decode[api.ReadingListResponse](t, target.do(t, http.MethodGet, "/api/readings", nil))
	assert.Equal(t, backup.Readings, list.Readings)

	backup.Version = 99
	rr = target.do(t, http.MethodPost, "/api/backup", backup)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Unsupported backup version", errorMessage(t, rr))

	rr = target.do(t, http.MethodDelete, "/api/readings", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, decode[api.ReadingListResponse](t, target.do(t, http.MethodGet, "/api/readings", nil)).Count)
}

func TestSettingsRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.DefaultSettings(), decode[domain.Settings](t, rr))

	rr = ts.do(t, http.MethodPatch, "/api/settings/preferences", map[string]bool{"onlyMajorArcana": true})
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[domain.Settings](t, rr)
	assert.True(t, got.Preferences.OnlyMajorArcana)
	assert.True(t, got.Preferences.AllowReversed)

	rr = ts.do(t, http.MethodPatch, "/api/settings/appearance", map[string]string{"themeMode": "sepia"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPatch, "/api/settings/appearance", map[string]string{"themeMode": "dark", "language": "pl"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.ThemeDark, decode[domain.Settings](t, rr).Appearance.ThemeMode)

	rr = ts.do(t, http.MethodPut, "/api/settings/active-deck", map[string]string{"deckId": "lunar-oracle"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "lunar-oracle", decode[domain.Settings](t, rr).ActiveDeckID)

	rr = ts.do(t, http.MethodPut, "/api/settings/active-deck", map[string]string{"deckId": "missing"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/settings/onboarding", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[domain.Settings](t, rr).OnboardingCompleted)

	rr = ts.do(t, http.MethodDelete, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.DefaultSettings(), decode[domain.Settings](t, rr))

	rr = ts.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.DefaultSettings(), decode[domain.Settings](t, rr))
}

func TestAuthenticatedRouter(t *testing.T) {
	jwt := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if token == "good" {
				return &auth.Claims{Subject: "tarot-cli"}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}
	ts := newTestServer(t, jwt)

	rr := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/decks", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.do(t, http.MethodGet, "/api/tarot-of-marseille", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Route not found", errorMessage(t, rr))

	rr = ts.do(t, http.MethodPatch, "/api/decks", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/store"
)

func TestNewSettingsService(t *testing.T) {
	f := newFixture(t)

	_, err := NewSettingsService(nil, f.registry, nil)
	assert.Error(t, err)
	_, err = NewSettingsService(f.docs, nil, nil)
	assert.Error(t, err)
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults before the first write", func(t *testing.T) {
		f := newFixture(t)
		settings, err := f.settings.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), settings)
	})

	t.Run("missing fields keep their defaults", func(t *testing.T) {
		f := newFixture(t)
		f.docs.Seed(store.SettingsKey, []byte(`{"activeDeckId":"lunar-oracle"}`))

		settings, err := f.settings.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "lunar-oracle", settings.ActiveDeckID)
		assert.True(t, settings.Preferences.AllowReversed)
		assert.Equal(t, domain.ThemeSystem, settings.Appearance.ThemeMode)
	})

	t.Run("corrupt document reads as defaults", func(t *testing.T) {
		f := newFixture(t)
		f.docs.Seed(store.SettingsKey, []byte(`{not json`))

		settings, err := f.settings.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), settings)
	})

	t.Run("backend failure", func(t *testing.T) {
		f := newFixture(t)
		f.docs.GetFn = func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("connection reset")
		}

		_, err := f.settings.Get(ctx)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "settings", svcErr.Service)
	})
}

func TestSettingsService_SetActiveDeck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	settings, err := f.settings.SetActiveDeck(ctx, "lunar-oracle")
	require.NoError(t, err)
	assert.Equal(t, "lunar-oracle", settings.ActiveDeckID)

	_, err = f.settings.SetActiveDeck(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDeckNotFound)
	assert.Equal(t, 1, f.docs.Puts(store.SettingsKey))

	stored, ok := f.docs.Raw(store.SettingsKey)
	require.True(t, ok)
	var persisted domain.Settings
	require.NoError(t, json.Unmarshal(stored, &persisted))
	assert.Equal(t, "lunar-oracle", persisted.ActiveDeckID)
}

func TestSettingsService_Patches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	settings, err := f.settings.UpdatePreferences(ctx, domain.PreferencesPatch{OnlyMajorArcana: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, settings.Preferences.OnlyMajorArcana)
	assert.True(t, settings.Preferences.AllowReversed, "nil fields are unchanged")
	assert.True(t, settings.Preferences.AnimationEnabled)

	settings, err = f.settings.UpdateAIConfig(ctx, domain.AIConfigPatch{ModelID: strPtr("gemini-2.0-flash")})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", settings.AI.ModelID)
	assert.True(t, settings.AI.Enabled)
	assert.True(t, settings.Preferences.OnlyMajorArcana, "earlier patches survive")

	dark := domain.ThemeDark
	settings, err = f.settings.UpdateAppearance(ctx, domain.AppearancePatch{ThemeMode: &dark})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, settings.Appearance.ThemeMode)
	assert.Equal(t, "en", settings.Appearance.Language)

	settings, err = f.settings.CompleteOnboarding(ctx)
	require.NoError(t, err)
	assert.True(t, settings.OnboardingCompleted)

	writes := f.docs.Puts(store.SettingsKey)
	neon := domain.ThemeMode("neon")
	_, err = f.settings.UpdateAppearance(ctx, domain.AppearancePatch{ThemeMode: &neon})
	assert.ErrorIs(t, err, domain.ErrInvalidThemeMode)
	assert.Equal(t, writes, f.docs.Puts(store.SettingsKey), "rejected patch does not write")

	current, err := f.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings, current)
}

func TestSettingsService_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("restores defaults", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.settings.SetActiveDeck(ctx, "lunar-oracle")
		require.NoError(t, err)
		_, err = f.settings.CompleteOnboarding(ctx)
		require.NoError(t, err)

		settings, err := f.settings.Reset(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), settings)

		_, ok := f.docs.Raw(store.SettingsKey)
		assert.False(t, ok, "settings document is removed")

		current, err := f.settings.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), current)
	})

	t.Run("nothing saved yet", func(t *testing.T) {
		f := newFixture(t)

		settings, err := f.settings.Reset(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), settings)
	})

	t.Run("backend failure", func(t *testing.T) {
		f := newFixture(t)
		f.docs.DeleteFn = func(ctx context.Context, key string) error {
			return errors.New("connection reset")
		}

		_, err := f.settings.Reset(ctx)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "reset", svcErr.Operation)
	})
}

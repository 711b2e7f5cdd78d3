package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/store"
)

// DeckLookup resolves decks by id. The deck registry satisfies it.
type DeckLookup interface {
	GetDeck(id string) (domain.Deck, error)
}

// SettingsService reads and patches the persisted user settings. Every change
// is a read-modify-write of the settings document through store.DocumentStore
// Update, so concurrent patches of different fields do not lose each other.
type SettingsService struct {
	docs   store.DocumentStore
	decks  DeckLookup
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService.
// It returns an error if any of the required dependencies are nil.
func NewSettingsService(docs store.DocumentStore, decks DeckLookup, log *slog.Logger) (*SettingsService, error) {
	if docs == nil {
		return nil, &ServiceError{Service: "settings", Operation: "create_service", Err: errors.New("document store cannot be nil")}
	}
	if decks == nil {
		return nil, &ServiceError{Service: "settings", Operation: "create_service", Err: errors.New("deck lookup cannot be nil")}
	}
	if log == nil {
		log = slog.Default()
	}
	return &SettingsService{
		docs:   docs,
		decks:  decks,
		logger: log.With(slog.String("component", "settings_service")),
	}, nil
}

// decodeSettings overlays the stored document on the defaults so fields added
// after the document was written keep their default values.
func (s *SettingsService) decodeSettings(ctx context.Context, data []byte) domain.Settings {
	settings := domain.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("persisted settings are unreadable, using defaults",
			slog.String("error", err.Error()))
		return domain.DefaultSettings()
	}
	return settings
}

// Get returns the current settings, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	data, err := s.docs.Get(ctx, store.SettingsKey)
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, wrapError("settings", "get", err)
	}
	return s.decodeSettings(ctx, data), nil
}

func (s *SettingsService) update(ctx context.Context, op string, apply func(*domain.Settings) error) (domain.Settings, error) {
	var next domain.Settings
	err := s.docs.Update(ctx, store.SettingsKey, func(current []byte, exists bool) ([]byte, error) {
		next = domain.DefaultSettings()
		if exists {
			next = s.decodeSettings(ctx, current)
		}
		if err := apply(&next); err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
	if err != nil {
		return domain.Settings{}, wrapError("settings", op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("settings updated", slog.String("operation", op))
	return next, nil
}

// SetActiveDeck selects the deck used for new readings.
// Returns domain.ErrDeckNotFound if the deck is not in the registry.
func (s *SettingsService) SetActiveDeck(ctx context.Context, deckID string) (domain.Settings, error) {
	if _, err := s.decks.GetDeck(deckID); err != nil {
		return domain.Settings{}, wrapError("settings", "set_active_deck", err)
	}
	return s.update(ctx, "set_active_deck", func(settings *domain.Settings) error {
		settings.ActiveDeckID = deckID
		return nil
	})
}

// CompleteOnboarding records that the user finished the introduction.
func (s *SettingsService) CompleteOnboarding(ctx context.Context) (domain.Settings, error) {
	return s.update(ctx, "complete_onboarding", func(settings *domain.Settings) error {
		settings.OnboardingCompleted = true
		return nil
	})
}

// UpdatePreferences applies a partial update of the reading preferences.
func (s *SettingsService) UpdatePreferences(ctx context.Context, patch domain.PreferencesPatch) (domain.Settings, error) {
	return s.update(ctx, "update_preferences", func(settings *domain.Settings) error {
		settings.Preferences = settings.Preferences.Apply(patch)
		return nil
	})
}

// UpdateAIConfig applies a partial update of the interpretation preferences.
func (s *SettingsService) UpdateAIConfig(ctx context.Context, patch domain.AIConfigPatch) (domain.Settings, error) {
	return s.update(ctx, "update_ai_config", func(settings *domain.Settings) error {
		settings.AI = settings.AI.Apply(patch)
		return nil
	})
}

// UpdateAppearance applies a partial update of the display preferences.
// Returns domain.ErrInvalidThemeMode for an unknown theme.
func (s *SettingsService) UpdateAppearance(ctx context.Context, patch domain.AppearancePatch) (domain.Settings, error) {
	return s.update(ctx, "update_appearance", func(settings *domain.Settings) error {
		appearance, err := settings.Appearance.Apply(patch)
		if err != nil {
			return err
		}
		settings.Appearance = appearance
		return nil
	})
}

// Reset removes the persisted settings document and returns the defaults.
func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	if err := s.docs.Delete(ctx, store.SettingsKey); err != nil {
		return domain.Settings{}, wrapError("settings", "reset", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("settings reset to defaults")
	return domain.DefaultSettings(), nil
}

package domain

import (
	"errors"
	"fmt"
)

// ThemeMode selects the application colour scheme.
type ThemeMode string

// Possible theme modes
const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// DefaultDeckID is the deck selected on first start.
const DefaultDeckID = "rider-waite"

// ErrInvalidThemeMode is returned when a theme patch carries an unknown mode.
var ErrInvalidThemeMode = errors.New("invalid theme mode")

// ReadingPreferences control how cards are drawn.
type ReadingPreferences struct {
	AllowReversed    bool `json:"allowReversed"`
	OnlyMajorArcana  bool `json:"onlyMajorArcana"`
	AnimationEnabled bool `json:"animationEnabled"`
}

// AIConfig holds the user's interpretation preferences. Provider credentials
// belong to the server configuration, not to user settings.
type AIConfig struct {
	Enabled bool   `json:"enabled"`
	ModelID string `json:"modelId,omitempty"`
}

// Appearance holds display preferences.
type Appearance struct {
	ThemeMode ThemeMode `json:"themeMode"`
	Language  string    `json:"language"`
}

// Settings is the persisted per-user state.
type Settings struct {
	ActiveDeckID        string             `json:"activeDeckId"`
	OnboardingCompleted bool               `json:"onboardingCompleted"`
	Preferences         ReadingPreferences `json:"preferences"`
	AI                  AIConfig           `json:"ai"`
	Appearance          Appearance         `json:"appearance"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		ActiveDeckID: DefaultDeckID,
		Preferences: ReadingPreferences{
			AllowReversed:    true,
			AnimationEnabled: true,
		},
		AI: AIConfig{
			Enabled: true,
		},
		Appearance: Appearance{
			ThemeMode: ThemeSystem,
			Language:  "en",
		},
	}
}

// PreferencesPatch is a partial update of ReadingPreferences; nil fields are
// left unchanged.
type PreferencesPatch struct {
	AllowReversed    *bool `json:"allowReversed,omitempty"`
	OnlyMajorArcana  *bool `json:"onlyMajorArcana,omitempty"`
	AnimationEnabled *bool `json:"animationEnabled,omitempty"`
}

// Apply returns p with the non-nil patch fields applied.
func (p ReadingPreferences) Apply(patch PreferencesPatch) ReadingPreferences {
	if patch.AllowReversed != nil {
		p.AllowReversed = *patch.AllowReversed
	}
	if patch.OnlyMajorArcana != nil {
		p.OnlyMajorArcana = *patch.OnlyMajorArcana
	}
	if patch.AnimationEnabled != nil {
		p.AnimationEnabled = *patch.AnimationEnabled
	}
	return p
}

// AIConfigPatch is a partial update of AIConfig.
type AIConfigPatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	ModelID *string `json:"modelId,omitempty"`
}

// Apply returns c with the non-nil patch fields applied.
func (c AIConfig) Apply(patch AIConfigPatch) AIConfig {
	if patch.Enabled != nil {
		c.Enabled = *patch.Enabled
	}
	if patch.ModelID != nil {
		c.ModelID = *patch.ModelID
	}
	return c
}

// AppearancePatch is a partial update of Appearance.
type AppearancePatch struct {
	ThemeMode *ThemeMode `json:"themeMode,omitempty"`
	Language  *string    `json:"language,omitempty"`
}

// Apply returns a with the non-nil patch fields applied, rejecting unknown
// theme modes.
func (a Appearance) Apply(patch AppearancePatch) (Appearance, error) {
	if patch.ThemeMode != nil {
		switch *patch.ThemeMode {
		case ThemeLight, ThemeDark, ThemeSystem:
			a.ThemeMode = *patch.ThemeMode
		default:
			return a, fmt.Errorf("%w: %q", ErrInvalidThemeMode, *patch.ThemeMode)
		}
	}
	if patch.Language != nil {
		a.Language = *patch.Language
	}
	return a, nil
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/service"
)

// SettingsHandler reads and patches the user settings.
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_handler")),
	}
}

func (h *SettingsHandler) respond(w http.ResponseWriter, r *http.Request, settings domain.Settings, err error) {
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// UpdatePreferences handles PATCH /api/settings/preferences
func (h *SettingsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch domain.PreferencesPatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}
	settings, err := h.settings.UpdatePreferences(r.Context(), patch)
	h.respond(w, r, settings, err)
}

// UpdateAI handles PATCH /api/settings/ai
func (h *SettingsHandler) UpdateAI(w http.ResponseWriter, r *http.Request) {
	var patch domain.AIConfigPatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}
	settings, err := h.settings.UpdateAIConfig(r.Context(), patch)
	h.respond(w, r, settings, err)
}

// UpdateAppearance handles PATCH /api/settings/appearance
func (h *SettingsHandler) UpdateAppearance(w http.ResponseWriter, r *http.Request) {
	var patch domain.AppearancePatch
	if !decodeAndValidate(w, r, &patch) {
		return
	}
	settings, err := h.settings.UpdateAppearance(r.Context(), patch)
	h.respond(w, r, settings, err)
}

// SetActiveDeck handles PUT /api/settings/active-deck
func (h *SettingsHandler) SetActiveDeck(w http.ResponseWriter, r *http.Request) {
	var req ActiveDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	settings, err := h.settings.SetActiveDeck(r.Context(), req.DeckID)
	h.respond(w, r, settings, err)
}

// CompleteOnboarding handles POST /api/settings/onboarding
func (h *SettingsHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.CompleteOnboarding(r.Context())
	h.respond(w, r, settings, err)
}

// ResetSettings handles DELETE /api/settings
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Reset(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

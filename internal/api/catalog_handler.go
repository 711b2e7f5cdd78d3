package api

import (
	"log/slog"
	"net/http"

	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/service"
)

// CatalogHandler serves the deck and spread catalog.
type CatalogHandler struct {
	readings *service.ReadingService
	logger   *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(readings *service.ReadingService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		readings: readings,
		logger:   logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListDecks handles GET /api/decks
func (h *CatalogHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.readings.Decks())
}

// GetDeck handles GET /api/decks/{id}
func (h *CatalogHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	deck, err := h.readings.Deck(id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// ListSpreads handles GET /api/spreads
func (h *CatalogHandler) ListSpreads(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.readings.Spreads())
}

// GetSpread handles GET /api/spreads/{id}
func (h *CatalogHandler) GetSpread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	spread, err := h.readings.Spread(id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load spread")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, spread)
}

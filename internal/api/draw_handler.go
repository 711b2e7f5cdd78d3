package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/service"
)

// DrawHandler handles drawing cards, the daily card, the moon phase and
// interpretation of unsaved readings.
type DrawHandler struct {
	readings *service.ReadingService
	logger   *slog.Logger
	now      func() time.Time
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(readings *service.ReadingService, logger *slog.Logger) *DrawHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DrawHandler{
		readings: readings,
		logger:   logger.With(slog.String("component", "draw_handler")),
		now:      time.Now,
	}
}

// DrawCard handles POST /api/draw. It draws one card for the next open (or
// the requested) position of a spread in progress.
func (h *DrawHandler) DrawCard(w http.ResponseWriter, r *http.Request) {
	var req DrawCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	draw, err := h.readings.DrawCard(r.Context(), service.DrawCardRequest{
		DeckID:     req.DeckID,
		SpreadID:   req.SpreadID,
		Drawn:      toDrawnCards(req.Drawn),
		PositionID: req.PositionID,
		Seed:       req.Seed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to draw card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, draw)
}

// DrawSpread handles POST /api/draw/spread
func (h *DrawHandler) DrawSpread(w http.ResponseWriter, r *http.Request) {
	var req DrawSpreadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	spread, err := h.readings.DrawSpread(r.Context(), service.DrawSpreadRequest{
		DeckID:   req.DeckID,
		SpreadID: req.SpreadID,
		Seed:     req.Seed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to draw spread")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, spread)
}

// Daily handles GET /api/daily[?date=YYYY-MM-DD]
func (h *DrawHandler) Daily(w http.ResponseWriter, r *http.Request) {
	at, err := queryTime(r, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	daily, err := h.readings.DailyCard(r.Context(), at)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to draw the daily card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, daily)
}

// Moon handles GET /api/moon[?date=...]
func (h *DrawHandler) Moon(w http.ResponseWriter, r *http.Request) {
	at, err := queryTime(r, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.readings.Moon(at))
}

// Interpret handles POST /api/interpret. The call blocks until the provider
// answers or the request context ends.
func (h *DrawHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req InterpretRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("interpretation requested",
		slog.String("spread_id", req.SpreadID),
		slog.Int("cards", len(req.Cards)))

	result, err := h.readings.Interpret(r.Context(), service.InterpretRequest{
		DeckID:   req.DeckID,
		SpreadID: req.SpreadID,
		Cards:    toDrawnCards(req.Cards),
		Question: req.Question,
		Model:    req.Model,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to interpret reading")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

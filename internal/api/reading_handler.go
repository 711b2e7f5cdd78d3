package api

import (
	"log/slog"
	"net/http"

	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/service"
)

// ReadingHandler handles the saved reading history and its statistics.
type ReadingHandler struct {
	readings *service.ReadingService
	logger   *slog.Logger
}

// NewReadingHandler creates a new ReadingHandler
func NewReadingHandler(readings *service.ReadingService, logger *slog.Logger) *ReadingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadingHandler{
		readings: readings,
		logger:   logger.With(slog.String("component", "reading_handler")),
	}
}

// ListReadings handles GET /api/readings
func (h *ReadingHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	readings := h.readings.ListReadings()
	shared.RespondWithJSON(w, r, http.StatusOK, ReadingListResponse{
		Readings: readings,
		Count:    len(readings),
	})
}

// SaveReading handles POST /api/readings
func (h *ReadingHandler) SaveReading(w http.ResponseWriter, r *http.Request) {
	var req SaveReadingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.readings.SaveReading(r.Context(), service.SaveReadingRequest{
		DeckID:         req.DeckID,
		SpreadID:       req.SpreadID,
		Cards:          toDrawnCards(req.Cards),
		Question:       req.Question,
		Seed:           req.Seed,
		Interpretation: req.Interpretation,
		ModelUsed:      req.ModelUsed,
		Interpret:      req.Interpret,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save reading")
		return
	}

	status := http.StatusCreated
	if req.Interpret && req.Interpretation == "" {
		status = http.StatusAccepted
	}
	shared.RespondWithJSON(w, r, status, session)
}

// ClearHistory handles DELETE /api/readings
func (h *ReadingHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.readings.ClearHistory(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to clear history")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("history cleared")
	w.WriteHeader(http.StatusNoContent)
}

// GetReading handles GET /api/readings/{id}
func (h *ReadingHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	session, err := h.readings.GetReading(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// DeleteReading handles DELETE /api/readings/{id}. Deleting an unknown id
// succeeds.
func (h *ReadingHandler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.readings.DeleteReading(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete reading")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotes handles PUT /api/readings/{id}/notes
func (h *ReadingHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req NotesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.readings.UpdateNotes(r.Context(), id, req.Notes); err != nil {
		HandleAPIError(w, r, err, "Failed to update notes")
		return
	}
	h.respondWithReading(w, r, id)
}

// UpdateInterpretation handles PUT /api/readings/{id}/interpretation
func (h *ReadingHandler) UpdateInterpretation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req InterpretationTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.readings.UpdateInterpretation(r.Context(), id, req.Text); err != nil {
		HandleAPIError(w, r, err, "Failed to update interpretation")
		return
	}
	h.respondWithReading(w, r, id)
}

// InterpretReading handles POST /api/readings/{id}/interpret. The result is
// attached to the saved reading.
func (h *ReadingHandler) InterpretReading(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req InterpretSavedRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	if _, err := h.readings.InterpretReading(r.Context(), id, req.Question, req.Model); err != nil {
		HandleAPIError(w, r, err, "Failed to interpret reading")
		return
	}
	h.respondWithReading(w, r, id)
}

func (h *ReadingHandler) respondWithReading(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.readings.GetReading(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// Stats handles GET /api/stats[?deckId=...]
func (h *ReadingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.readings.Stats(r.Context(), r.URL.Query().Get("deckId"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

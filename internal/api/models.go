package api

import (
	"github.com/tarots-ai/tarots-api/internal/domain"
)

// DrawnCardRequest is a card already placed in a spread.
type DrawnCardRequest struct {
	CardID     string `json:"cardId"     validate:"required,max=64"`
	DeckID     string `json:"deckId"     validate:"max=64"`
	PositionID string `json:"positionId" validate:"required,max=64"`
	IsReversed bool   `json:"isReversed"`
}

func toDrawnCards(in []DrawnCardRequest) []domain.DrawnCard {
	out := make([]domain.DrawnCard, len(in))
	for i, c := range in {
		out[i] = domain.DrawnCard{
			CardID:     c.CardID,
			DeckID:     c.DeckID,
			PositionID: c.PositionID,
			IsReversed: c.IsReversed,
		}
	}
	return out
}

// DrawCardRequest defines the payload for POST /api/draw.
type DrawCardRequest struct {
	DeckID     string             `json:"deckId"     validate:"max=64"`
	SpreadID   string             `json:"spreadId"   validate:"required,max=64"`
	Drawn      []DrawnCardRequest `json:"drawn"      validate:"max=78,dive"`
	PositionID string             `json:"positionId" validate:"max=64"`
	Seed       string             `json:"seed"       validate:"max=256"`
}

// DrawSpreadRequest defines the payload for POST /api/draw/spread.
type DrawSpreadRequest struct {
	DeckID   string `json:"deckId"   validate:"max=64"`
	SpreadID string `json:"spreadId" validate:"required,max=64"`
	Seed     string `json:"seed"     validate:"max=256"`
}

// InterpretRequest defines the payload for POST /api/interpret.
type InterpretRequest struct {
	DeckID   string             `json:"deckId"   validate:"max=64"`
	SpreadID string             `json:"spreadId" validate:"required,max=64"`
	Cards    []DrawnCardRequest `json:"cards"    validate:"required,min=1,max=78,dive"`
	Question string             `json:"question" validate:"max=2000"`
	Model    string             `json:"model"    validate:"max=128"`
}

// SaveReadingRequest defines the payload for POST /api/readings.
type SaveReadingRequest struct {
	DeckID         string             `json:"deckId"         validate:"max=64"`
	SpreadID       string             `json:"spreadId"       validate:"required,max=64"`
	Cards          []DrawnCardRequest `json:"cards"          validate:"required,min=1,max=78,dive"`
	Question       string             `json:"question"       validate:"max=2000"`
	Seed           string             `json:"seed"           validate:"max=256"`
	Interpretation string             `json:"interpretation" validate:"max=50000"`
	ModelUsed      string             `json:"modelUsed"      validate:"max=128"`
	Interpret      bool               `json:"interpret"`
}

// NotesRequest defines the payload for PUT /api/readings/{id}/notes.
type NotesRequest struct {
	Notes string `json:"notes" validate:"max=20000"`
}

// InterpretationTextRequest defines the payload for
// PUT /api/readings/{id}/interpretation.
type InterpretationTextRequest struct {
	Text string `json:"text" validate:"max=50000"`
}

// InterpretSavedRequest defines the payload for POST /api/readings/{id}/interpret.
// Both fields are optional.
type InterpretSavedRequest struct {
	Question string `json:"question" validate:"max=2000"`
	Model    string `json:"model"    validate:"max=128"`
}

// ActiveDeckRequest defines the payload for PUT /api/settings/active-deck.
type ActiveDeckRequest struct {
	DeckID string `json:"deckId" validate:"required,max=64"`
}

// ReadingListResponse wraps the saved readings, newest first.
type ReadingListResponse struct {
	Readings []domain.ReadingSession `json:"readings"`
	Count    int                     `json:"count"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reading validation errors
var (
	ErrReadingIDEmpty      = errors.New("reading ID cannot be empty")
	ErrReadingSpreadEmpty  = errors.New("reading spread ID cannot be empty")
	ErrReadingDeckEmpty    = errors.New("reading deck ID cannot be empty")
	ErrDrawnCardIDEmpty    = errors.New("drawn card ID cannot be empty")
	ErrDrawnPositionEmpty  = errors.New("drawn card position ID cannot be empty")
	ErrReadingTimestampBad = errors.New("reading timestamp cannot be negative")
	ErrDuplicateDrawnCard  = errors.New("card drawn more than once in reading")
)

// DrawnCard is one card placed in one slot of a reading.
type DrawnCard struct {
	CardID     string `json:"cardId"`
	DeckID     string `json:"deckId"`
	PositionID string `json:"positionId"`
	IsReversed bool   `json:"isReversed"`
}

// ReadingSession is a completed reading: every slot of its spread filled,
// optionally annotated with AI text and the user's own notes.
type ReadingSession struct {
	ID               string      `json:"id"`
	Timestamp        int64       `json:"timestamp"` // unix milliseconds
	SpreadID         string      `json:"spreadId"`
	DeckID           string      `json:"deckId"`
	Cards            []DrawnCard `json:"cards"`
	AIInterpretation string      `json:"aiInterpretation,omitempty"`
	UserNotes        string      `json:"userNotes,omitempty"`
	Question         string      `json:"question,omitempty"`
	Seed             string      `json:"seed,omitempty"`
	ModelUsed        string      `json:"modelUsed,omitempty"`
}

// NewReadingSession creates a session for the given spread, deck and cards.
// The id is a time-ordered UUIDv7 and the timestamp is taken from now.
// Returns an error if validation fails.
func NewReadingSession(spreadID, deckID string, cards []DrawnCard, now time.Time) (*ReadingSession, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reading id: %w", err)
	}

	session := &ReadingSession{
		ID:        id.String(),
		Timestamp: now.UnixMilli(),
		SpreadID:  spreadID,
		DeckID:    deckID,
		Cards:     append([]DrawnCard(nil), cards...),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Time returns the session timestamp as a time.Time.
func (r ReadingSession) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Validate checks the structural invariants of a session: identifiers are
// present, every drawn card occupies a distinct position and no card is
// drawn twice. A zero timestamp is accepted so that exports stamped at the
// epoch still import.
func (r ReadingSession) Validate() error {
	if r.ID == "" {
		return ErrReadingIDEmpty
	}
	if r.SpreadID == "" {
		return ErrReadingSpreadEmpty
	}
	if r.DeckID == "" {
		return ErrReadingDeckEmpty
	}
	if r.Timestamp < 0 {
		return ErrReadingTimestampBad
	}

	positions := make(map[string]struct{}, len(r.Cards))
	drawn := make(map[string]struct{}, len(r.Cards))
	for _, c := range r.Cards {
		if c.CardID == "" {
			return ErrDrawnCardIDEmpty
		}
		if c.PositionID == "" {
			return ErrDrawnPositionEmpty
		}
		if _, dup := positions[c.PositionID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePositionID, c.PositionID)
		}
		positions[c.PositionID] = struct{}{}

		key := drawnKey(r.DeckID, c)
		if _, dup := drawn[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateDrawnCard, c.CardID)
		}
		drawn[key] = struct{}{}
	}
	return nil
}

// drawnKey identifies a physical card. Cards without a deck id belong to
// the session deck.
func drawnKey(sessionDeck string, c DrawnCard) string {
	deck := c.DeckID
	if deck == "" {
		deck = sessionDeck
	}
	return deck + "/" + c.CardID
}

// ValidateAgainst checks that the cards fill the spread exactly: one card per
// slot, no card outside the spread and no card drawn twice. Cards are
// expected to carry their deck id.
func ValidateAgainst(spread Spread, cards []DrawnCard) error {
	positions := make(map[string]struct{}, len(cards))
	drawn := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		if !spread.HasSlot(c.PositionID) {
			return fmt.Errorf("%w: %s in spread %s", ErrUnknownPosition, c.PositionID, spread.ID)
		}
		if _, dup := positions[c.PositionID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePositionID, c.PositionID)
		}
		positions[c.PositionID] = struct{}{}

		key := drawnKey("", c)
		if _, dup := drawn[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateDrawnCard, c.CardID)
		}
		drawn[key] = struct{}{}
	}

	if len(positions) != len(spread.Slots) {
		return fmt.Errorf("%w: %d of %d slots filled in spread %s",
			ErrIncompleteReading, len(positions), len(spread.Slots), spread.ID)
	}
	return nil
}

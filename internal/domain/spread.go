package domain

import (
	"errors"
	"fmt"
)

// Spread validation errors
var (
	ErrSpreadIDEmpty       = errors.New("spread ID cannot be empty")
	ErrSpreadNoSlots       = errors.New("spread has no slots")
	ErrSlotIDEmpty         = errors.New("spread slot ID cannot be empty")
	ErrDuplicateSlotID     = errors.New("duplicate slot ID in spread")
	ErrDuplicatePositionID = errors.New("duplicate position ID in reading")
)

// SlotLayout positions a slot on the reading table.
type SlotLayout struct {
	X        float64  `json:"x"                  toml:"x"`
	Y        float64  `json:"y"                  toml:"y"`
	Rotation *float64 `json:"rotation,omitempty" toml:"rotation"`
	ZIndex   *int     `json:"zIndex,omitempty"   toml:"z_index"`
}

// SpreadSlot is one position of a spread (e.g. "past", "obstacle").
type SpreadSlot struct {
	ID     string      `json:"id"               toml:"id"`
	Layout *SlotLayout `json:"layout,omitempty" toml:"layout"`
}

// Spread is a named, fixed layout of slots filled by a reading.
type Spread struct {
	ID                 string       `json:"id"                           toml:"id"`
	Slots              []SpreadSlot `json:"slots"                        toml:"slots"`
	DefaultQuestionKey string       `json:"defaultQuestionKey,omitempty" toml:"default_question_key"`
}

// Validate checks that the spread has an id and at least one uniquely
// identified slot.
func (s Spread) Validate() error {
	if s.ID == "" {
		return ErrSpreadIDEmpty
	}
	if len(s.Slots) == 0 {
		return fmt.Errorf("%w: %s", ErrSpreadNoSlots, s.ID)
	}

	seen := make(map[string]struct{}, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.ID == "" {
			return fmt.Errorf("%w: spread %s", ErrSlotIDEmpty, s.ID)
		}
		if _, dup := seen[slot.ID]; dup {
			return fmt.Errorf("%w: %s in spread %s", ErrDuplicateSlotID, slot.ID, s.ID)
		}
		seen[slot.ID] = struct{}{}
	}
	return nil
}

// HasSlot reports whether the spread defines a slot with the given id.
func (s Spread) HasSlot(id string) bool {
	for _, slot := range s.Slots {
		if slot.ID == id {
			return true
		}
	}
	return false
}

// NextOpenSlot returns the first slot, in spread order, without a drawn card.
func (s Spread) NextOpenSlot(drawn []DrawnCard) (SpreadSlot, bool) {
	filled := make(map[string]struct{}, len(drawn))
	for _, d := range drawn {
		filled[d.PositionID] = struct{}{}
	}
	for _, slot := range s.Slots {
		if _, ok := filled[slot.ID]; !ok {
			return slot, true
		}
	}
	return SpreadSlot{}, false
}

package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrDeckNotFound is returned when a requested deck id is absent from the
	// registry. Callers treat it as a recoverable empty state.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrSpreadNotFound is returned when a requested spread id is unknown.
	ErrSpreadNotFound = errors.New("spread not found")

	// ErrCardNotFound is returned when a card id is not part of a deck.
	ErrCardNotFound = errors.New("card not found")

	// ErrInsufficientCards is returned when a draw asks for more cards than
	// the (already pre-filtered) deck holds.
	ErrInsufficientCards = errors.New("not enough cards available to draw")

	// ErrInvalidCount is returned when a negative number of cards is requested.
	ErrInvalidCount = errors.New("card count cannot be negative")

	// ErrDuplicateSessionID is returned when a reading with the same id is
	// already stored. It indicates a programming error in id generation.
	ErrDuplicateSessionID = errors.New("reading session id already exists")

	// ErrStorageCorrupt is reported when the persisted history document cannot
	// be parsed. The history recovers by starting empty.
	ErrStorageCorrupt = errors.New("persisted history is corrupt")

	// ErrIncompleteReading is returned when a reading is saved before every
	// slot of its spread holds a card.
	ErrIncompleteReading = errors.New("reading does not fill every spread slot")

	// ErrPositionFilled is returned when a second card is drawn for a slot.
	ErrPositionFilled = errors.New("spread position already holds a card")

	// ErrUnknownPosition is returned when a drawn card references a slot the
	// spread does not define.
	ErrUnknownPosition = errors.New("position is not part of the spread")
)

// Package stats derives summary figures from the reading history.
package stats

import "github.com/tarots-ai/tarots-api/internal/domain"

// DeckSource resolves decks by id. The deck registry satisfies it.
type DeckSource interface {
	GetDeck(id string) (domain.Deck, error)
}

// Stats summarises a reading history.
type Stats struct {
	TotalReadings int            `json:"totalReadings"`
	TotalCards    int            `json:"totalCards"`
	TopCardID     *string        `json:"topCardId"`
	TopCardCount  int            `json:"topCardCount"`
	SuitCounts    map[string]int `json:"suitCounts"`
}

// Compute aggregates readings for display against the active deck deckID.
//
// Card metadata is resolved through the deck each reading was drawn from,
// falling back to deckID for readings that carry none. Bucket labels start
// from the active deck's groups; a historical deck with a group the active
// deck lacks adds that bucket. Cards whose deck or metadata cannot be found
// count toward TotalCards only.
//
// The top card is the one with the strictly highest count. Ties go to the
// card encountered first while iterating the history.
func Compute(readings []domain.ReadingSession, deckID string, decks DeckSource) Stats {
	s := Stats{
		TotalReadings: len(readings),
		SuitCounts:    make(map[string]int),
	}

	for _, label := range activeGroups(deckID, decks) {
		s.SuitCounts[label] = 0
	}

	resolved := make(map[string]*domain.Deck)
	lookup := func(id string) *domain.Deck {
		if d, ok := resolved[id]; ok {
			return d
		}
		var d *domain.Deck
		if decks != nil {
			if deck, err := decks.GetDeck(id); err == nil {
				d = &deck
			}
		}
		resolved[id] = d
		return d
	}

	counts := make(map[string]int)
	var order []string

	for _, r := range readings {
		sessionDeck := r.DeckID
		if sessionDeck == "" {
			sessionDeck = deckID
		}

		for _, drawn := range r.Cards {
			s.TotalCards++

			deck := lookup(sessionDeck)
			if deck == nil {
				continue
			}
			card, ok := deck.Card(drawn.CardID)
			if !ok {
				continue
			}

			if _, seen := counts[card.ID]; !seen {
				order = append(order, card.ID)
			}
			counts[card.ID]++

			if group := card.Group(); group != "" {
				s.SuitCounts[group]++
			}
		}
	}

	for _, id := range order {
		if counts[id] > s.TopCardCount {
			s.TopCardCount = counts[id]
			top := id
			s.TopCardID = &top
		}
	}

	return s
}

func activeGroups(deckID string, decks DeckSource) []string {
	if decks != nil {
		if deck, err := decks.GetDeck(deckID); err == nil {
			if groups := deck.Groups(); len(groups) > 0 {
				return groups
			}
		}
	}
	return domain.StandardGroups()
}

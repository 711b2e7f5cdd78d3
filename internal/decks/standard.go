package decks

import (
	"fmt"
	"strings"

	"github.com/tarots-ai/tarots-api/internal/domain"
)

var majorArcanaNames = [...]string{
	"The Fool", "The Magician", "The High Priestess", "The Empress",
	"The Emperor", "The Hierophant", "The Lovers", "The Chariot",
	"Strength", "The Hermit", "Wheel of Fortune", "Justice",
	"The Hanged Man", "Death", "Temperance", "The Devil",
	"The Tower", "The Star", "The Moon", "The Sun",
	"Judgement", "The World",
}

var rankNames = [...]string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Page", "Knight", "Queen", "King",
}

var suitElements = map[domain.Suit]string{
	domain.SuitWands:     "fire",
	domain.SuitCups:      "water",
	domain.SuitSwords:    "air",
	domain.SuitPentacles: "earth",
}

// StandardCards returns the 78 cards of a Rider–Waite–Smith deck in
// canonical order. Image names follow the card ids with a .jpg extension.
func StandardCards() []domain.Card {
	cards := make([]domain.Card, 0, 78)

	for i, name := range majorArcanaNames {
		number := i
		id := fmt.Sprintf("maj_%02d", i)
		cards = append(cards, domain.Card{
			ID:        id,
			Name:      name,
			SortIndex: len(cards),
			Image:     id + ".jpg",
			Meta: domain.CardMeta{
				Type:   domain.CardTypeMajor,
				Number: &number,
			},
		})
	}

	for _, suit := range domain.StandardSuits {
		title := strings.ToUpper(string(suit[:1])) + string(suit[1:])
		for i, rank := range rankNames {
			number := i + 1
			id := fmt.Sprintf("%s_%02d", suit, number)
			cards = append(cards, domain.Card{
				ID:        id,
				Name:      rank + " of " + title,
				SortIndex: len(cards),
				Image:     id + ".jpg",
				Meta: domain.CardMeta{
					Type:    domain.CardTypeMinor,
					Suit:    suit,
					Number:  &number,
					Element: suitElements[suit],
				},
			})
		}
	}

	return cards
}

package domain

import (
	"errors"
	"fmt"
)

// CardType classifies a card within its deck.
type CardType string

// Possible card types
const (
	CardTypeMajor  CardType = "major"
	CardTypeMinor  CardType = "minor"
	CardTypeOracle CardType = "oracle"
	CardTypeOther  CardType = "other"
)

// Suit is the minor arcana suit a card belongs to.
type Suit string

// Possible suit values
const (
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
	SuitNone      Suit = "none"
)

// GroupMajor is the statistics bucket used for major arcana cards.
const GroupMajor = "major"

// StandardSuits lists the four minor arcana suits in canonical order.
var StandardSuits = []Suit{SuitWands, SuitCups, SuitSwords, SuitPentacles}

// Card validation errors
var (
	ErrCardIDEmpty       = errors.New("card ID cannot be empty")
	ErrCardTypeInvalid   = errors.New("invalid card type")
	ErrCardSuitInvalid   = errors.New("invalid card suit")
	ErrDeckIDEmpty       = errors.New("deck ID cannot be empty")
	ErrDeckEmpty         = errors.New("deck has no cards")
	ErrDuplicateCardID   = errors.New("duplicate card ID in deck")
	ErrDeckTotalMismatch = errors.New("deck total does not match its card count")
)

// CardMeta carries the esoteric metadata used for grouping and prompts.
type CardMeta struct {
	Type    CardType `json:"type"              toml:"type"`
	Suit    Suit     `json:"suit,omitempty"    toml:"suit"`
	Number  *int     `json:"number,omitempty"  toml:"number"`
	Element string   `json:"element,omitempty" toml:"element"`
	Zodiac  string   `json:"zodiac,omitempty"  toml:"zodiac"`
}

// Card is a single, immutable card of a deck.
type Card struct {
	ID        string   `json:"id"             toml:"id"`
	Name      string   `json:"name,omitempty" toml:"name"`
	SortIndex int      `json:"sortIndex"      toml:"sort_index"`
	Image     string   `json:"image"          toml:"image"`
	Meta      CardMeta `json:"meta"           toml:"meta"`
}

// Group returns the statistics bucket of the card: "major" for major arcana,
// the suit for suited cards, and "" when the card belongs to neither.
func (c Card) Group() string {
	if c.Meta.Type == CardTypeMajor {
		return GroupMajor
	}
	if c.Meta.Suit != "" && c.Meta.Suit != SuitNone {
		return string(c.Meta.Suit)
	}
	return ""
}

// DisplayName returns the card name, falling back to its id.
func (c Card) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Validate checks if the Card has valid data.
func (c Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	switch c.Meta.Type {
	case CardTypeMajor, CardTypeMinor, CardTypeOracle, CardTypeOther:
	default:
		return fmt.Errorf("%w: %q on card %s", ErrCardTypeInvalid, c.Meta.Type, c.ID)
	}

	switch c.Meta.Suit {
	case "", SuitWands, SuitCups, SuitSwords, SuitPentacles, SuitNone:
	default:
		return fmt.Errorf("%w: %q on card %s", ErrCardSuitInvalid, c.Meta.Suit, c.ID)
	}

	return nil
}

// DeckInfo describes a deck without its cards.
type DeckInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	TotalCards  int    `json:"totalCards"`
}

// Deck is an ordered, immutable catalog of cards.
type Deck struct {
	Info  DeckInfo `json:"info"`
	Cards []Card   `json:"cards"`
}

// NewDeck builds a deck from its info and cards, filling in the total and
// validating that every card is well formed and unique.
func NewDeck(info DeckInfo, cards []Card) (Deck, error) {
	info.TotalCards = len(cards)
	d := Deck{Info: info, Cards: cards}
	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// ID returns the deck id.
func (d Deck) ID() string {
	return d.Info.ID
}

// Validate checks the deck invariants: an id, at least one card, valid and
// unique card ids, and a total matching the catalog.
func (d Deck) Validate() error {
	if d.Info.ID == "" {
		return ErrDeckIDEmpty
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("%w: %s", ErrDeckEmpty, d.Info.ID)
	}
	if d.Info.TotalCards != len(d.Cards) {
		return fmt.Errorf("%w: %s declares %d, has %d",
			ErrDeckTotalMismatch, d.Info.ID, d.Info.TotalCards, len(d.Cards))
	}

	seen := make(map[string]struct{}, len(d.Cards))
	for _, c := range d.Cards {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: %s in deck %s", ErrDuplicateCardID, c.ID, d.Info.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return nil
}

// Card looks up a card by id.
func (d Deck) Card(id string) (Card, bool) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Filter returns a new deck holding only the cards accepted by keep, in
// their original order. The receiver is never modified.
func (d Deck) Filter(keep func(Card) bool) Deck {
	cards := make([]Card, 0, len(d.Cards))
	for _, c := range d.Cards {
		if keep(c) {
			cards = append(cards, c)
		}
	}
	info := d.Info
	info.TotalCards = len(cards)
	return Deck{Info: info, Cards: cards}
}

// Groups returns the statistics bucket labels the deck defines: "major"
// first when the deck holds major arcana, then every suit in card order.
func (d Deck) Groups() []string {
	var groups []string
	seen := make(map[string]struct{})
	hasMajor := false
	for _, c := range d.Cards {
		if c.Meta.Type == CardTypeMajor {
			hasMajor = true
		}
	}
	if hasMajor {
		groups = append(groups, GroupMajor)
		seen[GroupMajor] = struct{}{}
	}
	for _, c := range d.Cards {
		g := c.Group()
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	return groups
}

// StandardGroups returns the bucket labels of a standard tarot deck.
func StandardGroups() []string {
	groups := []string{GroupMajor}
	for _, s := range StandardSuits {
		groups = append(groups, string(s))
	}
	return groups
}

package shuffle

import (
	"crypto/sha256"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tarots-ai/tarots-api/internal/domain"
)

// DailySeedLayout is the calendar-day format of DailySeed.
const DailySeedLayout = "2006-01-02"

// reversalThreshold is the coin flip boundary: values below it are reversed.
const reversalThreshold = 0.5

// RNG is the random stream a draw consumes.
type RNG interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// Result is a single drawn card and its orientation.
type Result struct {
	Card       domain.Card `json:"card"`
	IsReversed bool        `json:"isReversed"`
}

// Draw selects count cards from deck. An empty seed draws from system
// randomness; any other seed makes the result fully reproducible.
func Draw(deck domain.Deck, count int, seed string, allowReversed bool) ([]Result, error) {
	return DrawWith(deck, count, NewRNG(seed), allowReversed)
}

// DrawWith is Draw over a caller supplied random stream.
//
// The whole deck copy is shuffled before any orientation is assigned, so the
// number of values consumed by the permutation does not depend on count.
func DrawWith(deck domain.Deck, count int, rng RNG, allowReversed bool) ([]Result, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidCount, count)
	}
	if count > len(deck.Cards) {
		return nil, fmt.Errorf("%w: requested %d, deck %s has %d",
			domain.ErrInsufficientCards, count, deck.ID(), len(deck.Cards))
	}
	if count == 0 {
		return []Result{}, nil
	}

	cards := make([]domain.Card, len(deck.Cards))
	copy(cards, deck.Cards)

	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	results := make([]Result, count)
	for i := range results {
		results[i] = Result{Card: cards[i]}
	}
	if allowReversed {
		for i := range results {
			results[i].IsReversed = rng.Float64() < reversalThreshold
		}
	}

	return results, nil
}

// NewRNG returns the stream used for seed. The empty seed maps to the
// process-wide system generator.
func NewRNG(seed string) RNG {
	if seed == "" {
		return systemRNG{}
	}
	return rand.New(rand.NewChaCha8(sha256.Sum256([]byte(seed))))
}

type systemRNG struct{}

func (systemRNG) IntN(n int) int   { return rand.IntN(n) }
func (systemRNG) Float64() float64 { return rand.Float64() }

// DailySeed returns the calendar day of now, in now's location, formatted as
// YYYY-MM-DD. Seeding a draw with it yields the same card all day.
func DailySeed(now time.Time) string {
	return now.Format(DailySeedLayout)
}

// Available returns the part of deck that can still be drawn: cards already
// placed in drawn are removed and, when onlyMajor is set, so is every card
// that is not major arcana. The input deck is not modified.
func Available(deck domain.Deck, drawn []domain.DrawnCard, onlyMajor bool) domain.Deck {
	used := make(map[string]struct{}, len(drawn))
	for _, d := range drawn {
		used[d.CardID] = struct{}{}
	}
	return deck.Filter(func(c domain.Card) bool {
		if _, ok := used[c.ID]; ok {
			return false
		}
		return !onlyMajor || c.Meta.Type == domain.CardTypeMajor
	})
}

package decks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarots-ai/tarots-api/internal/domain"
)

func TestParseDeck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
		cards   int
	}{
		{
			name:  "standard deck",
			data:  "[deck]\nid = \"std\"\nstandard = true\n",
			cards: 78,
		},
		{
			name:  "standard plus extra card",
			data:  "[deck]\nid = \"std\"\nstandard = true\n[[cards]]\nid = \"blank\"\n[cards.meta]\ntype = \"other\"\n",
			cards: 79,
		},
		{
			name:    "syntax error",
			data:    "[deck\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "missing id",
			data:    "[deck]\nstandard = true\n",
			wantErr: domain.ErrDeckIDEmpty,
		},
		{
			name:    "no cards",
			data:    "[deck]\nid = \"empty\"\n",
			wantErr: domain.ErrDeckEmpty,
		},
		{
			name:    "duplicate standard id",
			data:    "[deck]\nid = \"dup\"\nstandard = true\n[[cards]]\nid = \"maj_00\"\n[cards.meta]\ntype = \"major\"\n",
			wantErr: domain.ErrDuplicateCardID,
		},
		{
			name:    "bad suit",
			data:    "[deck]\nid = \"bad\"\n[[cards]]\nid = \"x\"\n[cards.meta]\ntype = \"minor\"\nsuit = \"coins\"\n",
			wantErr: domain.ErrCardSuitInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deck, err := ParseDeck(tc.name, []byte(tc.data))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, deck.Cards, tc.cards)
		})
	}
}

func TestParseSpreads(t *testing.T) {
	t.Parallel()

	spreads, err := ParseSpreads("ok", []byte(`
[[spreads]]
id = "two"
[[spreads.slots]]
id = "left"
[[spreads.slots]]
id = "right"
`))
	require.NoError(t, err)
	require.Len(t, spreads, 1)
	assert.Len(t, spreads[0].Slots, 2)

	_, err = ParseSpreads("dup-slot", []byte(`
[[spreads]]
id = "two"
[[spreads.slots]]
id = "left"
[[spreads.slots]]
id = "left"
`))
	assert.ErrorIs(t, err, domain.ErrDuplicateSlotID)

	_, err = ParseSpreads("dup-spread", []byte(`
[[spreads]]
id = "one"
[[spreads.slots]]
id = "a"
[[spreads]]
id = "one"
[[spreads.slots]]
id = "a"
`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestStandardCards(t *testing.T) {
	t.Parallel()

	cards := StandardCards()
	require.Len(t, cards, 78)

	for i, c := range cards {
		assert.Equal(t, i, c.SortIndex)
		require.NoError(t, c.Validate())
	}
	assert.Equal(t, "maj_21", cards[21].ID)
	assert.Equal(t, "The World", cards[21].Name)
	assert.Equal(t, "wands_01", cards[22].ID)
	assert.Equal(t, "Ace of Wands", cards[22].Name)
	assert.Equal(t, "cups_11", cards[22+14+10].ID)
	assert.Equal(t, "Page of Cups", cards[22+14+10].Name)
}

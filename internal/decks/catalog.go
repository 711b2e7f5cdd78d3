package decks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tarots-ai/tarots-api/internal/domain"
)

// DeckFileName is the catalog file expected in every deck library folder.
const DeckFileName = "deck.toml"

// ErrInvalidCatalog is returned when a deck or spread catalog cannot be
// decoded or contains keys the decoder does not understand.
var ErrInvalidCatalog = errors.New("invalid catalog")

// deckFile is the on-disk layout of deck.toml.
type deckFile struct {
	Deck  deckSection   `toml:"deck"`
	Cards []domain.Card `toml:"cards"`
}

type deckSection struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Author      string `toml:"author"`
	Description string `toml:"description"`
	// Standard prepends the 78 Rider–Waite–Smith cards to any explicit cards.
	Standard bool `toml:"standard"`
}

type spreadsFile struct {
	Spreads []domain.Spread `toml:"spreads"`
}

// ParseDeck decodes a deck catalog. source names the document in errors.
func ParseDeck(source string, data []byte) (domain.Deck, error) {
	var f deckFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, source, err)
	}
	if err := checkUndecoded(source, md); err != nil {
		return domain.Deck{}, err
	}

	var cards []domain.Card
	if f.Deck.Standard {
		cards = StandardCards()
	}
	cards = append(cards, f.Cards...)

	deck, err := domain.NewDeck(domain.DeckInfo{
		ID:          f.Deck.ID,
		Name:        f.Deck.Name,
		Author:      f.Deck.Author,
		Description: f.Deck.Description,
	}, cards)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, source, err)
	}
	return deck, nil
}

// LoadDeckFile reads a deck catalog from path. path may be the deck.toml file
// itself or the folder containing it.
func LoadDeckFile(path string) (domain.Deck, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DeckFileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to read deck catalog: %w", err)
	}
	return ParseDeck(path, data)
}

// ParseSpreads decodes a spread catalog and validates every spread.
func ParseSpreads(source string, data []byte) ([]domain.Spread, error) {
	var f spreadsFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, source, err)
	}
	if err := checkUndecoded(source, md); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(f.Spreads))
	for _, s := range f.Spreads {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, source, err)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate spread %s", ErrInvalidCatalog, source, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return f.Spreads, nil
}

func checkUndecoded(source string, md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidCatalog, source, strings.Join(keys, ", "))
}

func readAll(fsys fs.FS, pattern string) (map[string][]byte, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}

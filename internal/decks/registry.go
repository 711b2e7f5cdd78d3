package decks

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tarots-ai/tarots-api/internal/domain"
)

//go:embed data/decks/*.toml data/spreads.toml
var builtin embed.FS

// DailySpreadID is the single-slot spread used for the card of the day. It is
// not offered for regular readings.
const DailySpreadID = "daily"

// Registry holds every deck and spread known to the process.
type Registry struct {
	decks       map[string]domain.Deck
	deckOrder   []string
	spreads     map[string]domain.Spread
	spreadOrder []string
}

// New loads the built-in catalogs and then every deck found in libraryDir.
// An empty or missing libraryDir is not an error. A library deck that fails
// to parse, or reuses the id of an earlier deck, is logged and skipped.
func New(logger *slog.Logger, libraryDir string) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "deck_registry"))

	r := &Registry{
		decks:   make(map[string]domain.Deck),
		spreads: make(map[string]domain.Spread),
	}

	files, err := readAll(builtin, "data/decks/*.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in decks: %w", err)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	// rider-waite first so it heads AvailableDecks.
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case filepath.Base(a) == "rider-waite.toml":
			return -1
		case filepath.Base(b) == "rider-waite.toml":
			return 1
		}
		return strings.Compare(a, b)
	})
	for _, name := range names {
		deck, err := ParseDeck(name, files[name])
		if err != nil {
			return nil, err
		}
		if err := r.addDeck(deck); err != nil {
			return nil, err
		}
	}

	spreadData, err := builtin.ReadFile("data/spreads.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in spreads: %w", err)
	}
	spreads, err := ParseSpreads("data/spreads.toml", spreadData)
	if err != nil {
		return nil, err
	}
	for _, s := range spreads {
		r.spreads[s.ID] = s
		r.spreadOrder = append(r.spreadOrder, s.ID)
	}

	if libraryDir != "" {
		r.loadLibrary(logger, libraryDir)
	}

	logger.Debug("deck registry loaded",
		slog.Int("decks", len(r.deckOrder)),
		slog.Int("spreads", len(r.spreadOrder)))

	return r, nil
}

func (r *Registry) loadLibrary(logger *slog.Logger, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("deck library not found", slog.String("dir", dir))
		} else {
			logger.Warn("failed to read deck library",
				slog.String("dir", dir), slog.String("error", err.Error()))
		}
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), DeckFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		deck, err := LoadDeckFile(path)
		if err == nil {
			err = r.addDeck(deck)
		}
		if err != nil {
			logger.Warn("skipping library deck",
				slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		logger.Info("library deck loaded",
			slog.String("deck_id", deck.ID()), slog.Int("cards", len(deck.Cards)))
	}
}

func (r *Registry) addDeck(deck domain.Deck) error {
	if _, exists := r.decks[deck.ID()]; exists {
		return fmt.Errorf("%w: duplicate deck %s", ErrInvalidCatalog, deck.ID())
	}
	r.decks[deck.ID()] = deck
	r.deckOrder = append(r.deckOrder, deck.ID())
	return nil
}

// GetDeck returns the deck with the given id or domain.ErrDeckNotFound.
func (r *Registry) GetDeck(id string) (domain.Deck, error) {
	deck, ok := r.decks[id]
	if !ok {
		return domain.Deck{}, fmt.Errorf("%w: %s", domain.ErrDeckNotFound, id)
	}
	deck.Cards = slices.Clone(deck.Cards)
	return deck, nil
}

// AvailableDecks lists the info of every deck in load order.
func (r *Registry) AvailableDecks() []domain.DeckInfo {
	infos := make([]domain.DeckInfo, 0, len(r.deckOrder))
	for _, id := range r.deckOrder {
		infos = append(infos, r.decks[id].Info)
	}
	return infos
}

// GetSpread returns the spread with the given id or domain.ErrSpreadNotFound.
func (r *Registry) GetSpread(id string) (domain.Spread, error) {
	s, ok := r.spreads[id]
	if !ok {
		return domain.Spread{}, fmt.Errorf("%w: %s", domain.ErrSpreadNotFound, id)
	}
	s.Slots = slices.Clone(s.Slots)
	return s, nil
}

// Spreads lists the spreads offered for readings, excluding the daily spread.
func (r *Registry) Spreads() []domain.Spread {
	out := make([]domain.Spread, 0, len(r.spreadOrder))
	for _, id := range r.spreadOrder {
		if id == DailySpreadID {
			continue
		}
		s := r.spreads[id]
		s.Slots = slices.Clone(s.Slots)
		out = append(out, s)
	}
	return out
}

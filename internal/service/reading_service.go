package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tarots-ai/tarots-api/internal/decks"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/domain/celestial"
	"github.com/tarots-ai/tarots-api/internal/domain/shuffle"
	"github.com/tarots-ai/tarots-api/internal/domain/stats"
	"github.com/tarots-ai/tarots-api/internal/events"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/task"
)

// Catalog exposes the decks and spreads known to the process.
// The deck registry satisfies it.
type Catalog interface {
	GetDeck(id string) (domain.Deck, error)
	AvailableDecks() []domain.DeckInfo
	GetSpread(id string) (domain.Spread, error)
	Spreads() []domain.Spread
}

// ReadingHistory is the persisted collection of saved readings.
// history.History satisfies it.
type ReadingHistory interface {
	AddReading(ctx context.Context, session domain.ReadingSession) error
	DeleteReading(ctx context.Context, id string) error
	UpdateUserNotes(ctx context.Context, id, text string) error
	UpdateReadingInterpretation(ctx context.Context, id, text string) error
	SetInterpretation(ctx context.Context, id, text, model string) error
	ClearHistory(ctx context.Context) error
	ReplaceAll(ctx context.Context, sessions []domain.ReadingSession) error
	List() []domain.ReadingSession
	Get(id string) (domain.ReadingSession, bool)
}

// SettingsReader provides the settings that shape draws and interpretation.
type SettingsReader interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// CardDraw is a drawn card together with the card it refers to.
type CardDraw struct {
	domain.DrawnCard
	Card domain.Card `json:"card"`
}

// DrawCardRequest asks for one card for one position of a spread in progress.
type DrawCardRequest struct {
	// DeckID defaults to the active deck.
	DeckID   string
	SpreadID string
	// Drawn holds the cards already placed. They are excluded from the draw.
	Drawn []domain.DrawnCard
	// PositionID defaults to the first open slot of the spread.
	PositionID string
	Seed       string
}

// DrawSpreadRequest asks for every slot of a spread to be filled at once.
type DrawSpreadRequest struct {
	DeckID   string
	SpreadID string
	Seed     string
}

// SpreadDraw is a fully drawn spread, cards in slot order.
type SpreadDraw struct {
	DeckID   string     `json:"deckId"`
	SpreadID string     `json:"spreadId"`
	Seed     string     `json:"seed,omitempty"`
	Cards    []CardDraw `json:"cards"`
}

// DailyDraw is the card of the day.
type DailyDraw struct {
	Date string         `json:"date"`
	Card CardDraw       `json:"card"`
	Moon celestial.Moon `json:"moon"`
}

// InterpretRequest asks for an interpretation of drawn cards.
type InterpretRequest struct {
	DeckID   string
	SpreadID string
	Cards    []domain.DrawnCard
	Question string
	// Model overrides the model from the settings.
	Model string
}

// SaveReadingRequest describes a completed reading to persist.
type SaveReadingRequest struct {
	DeckID         string
	SpreadID       string
	Cards          []domain.DrawnCard
	Question       string
	Seed           string
	Interpretation string
	ModelUsed      string
	// Interpret requests a background interpretation when no text is given.
	Interpret bool
}

// ReadingService draws cards, interprets them and manages the saved history.
type ReadingService struct {
	catalog     Catalog
	history     ReadingHistory
	settings    SettingsReader
	interpreter interpretation.Interpreter
	emitter     events.EventEmitter
	logger      *slog.Logger
	now         func() time.Time
}

var _ task.ReadingInterpreter = (*ReadingService)(nil)

// NewReadingService creates a ReadingService.
// A nil interpreter disables interpretation and a nil emitter disables
// background interpretation requests. It returns an error if any of the other
// dependencies are nil.
func NewReadingService(
	catalog Catalog,
	history ReadingHistory,
	settings SettingsReader,
	interpreter interpretation.Interpreter,
	emitter events.EventEmitter,
	log *slog.Logger,
) (*ReadingService, error) {
	if catalog == nil {
		return nil, &ServiceError{Service: "reading", Operation: "create_service", Err: errors.New("catalog cannot be nil")}
	}
	if history == nil {
		return nil, &ServiceError{Service: "reading", Operation: "create_service", Err: errors.New("history cannot be nil")}
	}
	if settings == nil {
		return nil, &ServiceError{Service: "reading", Operation: "create_service", Err: errors.New("settings cannot be nil")}
	}
	if interpreter == nil {
		interpreter = interpretation.Unavailable{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &ReadingService{
		catalog:     catalog,
		history:     history,
		settings:    settings,
		interpreter: interpreter,
		emitter:     emitter,
		logger:      log.With(slog.String("component", "reading_service")),
		now:         time.Now,
	}, nil
}

// Decks lists the available decks.
func (s *ReadingService) Decks() []domain.DeckInfo {
	return s.catalog.AvailableDecks()
}

// Deck returns a deck with its cards.
func (s *ReadingService) Deck(id string) (domain.Deck, error) {
	return s.catalog.GetDeck(id)
}

// Spreads lists the spreads offered for readings.
func (s *ReadingService) Spreads() []domain.Spread {
	return s.catalog.Spreads()
}

// Spread returns one spread.
func (s *ReadingService) Spread(id string) (domain.Spread, error) {
	return s.catalog.GetSpread(id)
}

// Moon returns the moon phase at t.
func (s *ReadingService) Moon(t time.Time) celestial.Moon {
	return celestial.MoonAt(t)
}

// resolve loads the settings together with the requested deck and spread,
// defaulting the deck to the active one.
func (s *ReadingService) resolve(ctx context.Context, deckID, spreadID string) (domain.Settings, domain.Deck, domain.Spread, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Settings{}, domain.Deck{}, domain.Spread{}, err
	}
	if deckID == "" {
		deckID = settings.ActiveDeckID
	}
	deck, err := s.catalog.GetDeck(deckID)
	if err != nil {
		return domain.Settings{}, domain.Deck{}, domain.Spread{}, err
	}
	spread, err := s.catalog.GetSpread(spreadID)
	if err != nil {
		return domain.Settings{}, domain.Deck{}, domain.Spread{}, err
	}
	return settings, deck, spread, nil
}

func toDraws(deck domain.Deck, slots []domain.SpreadSlot, results []shuffle.Result) []CardDraw {
	draws := make([]CardDraw, len(results))
	for i, r := range results {
		draws[i] = CardDraw{
			DrawnCard: domain.DrawnCard{
				CardID:     r.Card.ID,
				DeckID:     deck.ID(),
				PositionID: slots[i].ID,
				IsReversed: r.IsReversed,
			},
			Card: r.Card,
		}
	}
	return draws
}

// checkPlaced verifies that the already placed cards belong to the spread and
// occupy distinct positions.
func checkPlaced(spread domain.Spread, drawn []domain.DrawnCard) error {
	seen := make(map[string]struct{}, len(drawn))
	for _, d := range drawn {
		if !spread.HasSlot(d.PositionID) {
			return fmt.Errorf("%w: %s in spread %s", domain.ErrUnknownPosition, d.PositionID, spread.ID)
		}
		if _, dup := seen[d.PositionID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicatePositionID, d.PositionID)
		}
		seen[d.PositionID] = struct{}{}
	}
	return nil
}

// DrawCard draws one card for one position of a spread in progress. Cards
// already placed are excluded and, when the user only reads the major arcana,
// so is every minor card.
func (s *ReadingService) DrawCard(ctx context.Context, req DrawCardRequest) (CardDraw, error) {
	settings, deck, spread, err := s.resolve(ctx, req.DeckID, req.SpreadID)
	if err != nil {
		return CardDraw{}, wrapError("reading", "draw_card", err)
	}
	if err := checkPlaced(spread, req.Drawn); err != nil {
		return CardDraw{}, err
	}

	var slot domain.SpreadSlot
	if req.PositionID == "" {
		open, ok := spread.NextOpenSlot(req.Drawn)
		if !ok {
			return CardDraw{}, fmt.Errorf("%w: %s", ErrSpreadComplete, spread.ID)
		}
		slot = open
	} else {
		if !spread.HasSlot(req.PositionID) {
			return CardDraw{}, fmt.Errorf("%w: %s in spread %s", domain.ErrUnknownPosition, req.PositionID, spread.ID)
		}
		for _, d := range req.Drawn {
			if d.PositionID == req.PositionID {
				return CardDraw{}, fmt.Errorf("%w: %s", domain.ErrPositionFilled, req.PositionID)
			}
		}
		slot = domain.SpreadSlot{ID: req.PositionID}
	}

	available := shuffle.Available(deck, req.Drawn, settings.Preferences.OnlyMajorArcana)
	results, err := shuffle.Draw(available, 1, req.Seed, settings.Preferences.AllowReversed)
	if err != nil {
		return CardDraw{}, wrapError("reading", "draw_card", err)
	}

	draw := toDraws(deck, []domain.SpreadSlot{slot}, results)[0]
	logger.FromContextOrDefault(ctx, s.logger).Debug("card drawn",
		slog.String("deck_id", deck.ID()),
		slog.String("spread_id", spread.ID),
		slog.String("position_id", slot.ID),
		slog.Bool("seeded", req.Seed != ""))
	return draw, nil
}

// DrawSpread fills every slot of a spread in one draw, cards assigned in slot
// order. The same seed over the same deck always yields the same spread.
func (s *ReadingService) DrawSpread(ctx context.Context, req DrawSpreadRequest) (SpreadDraw, error) {
	settings, deck, spread, err := s.resolve(ctx, req.DeckID, req.SpreadID)
	if err != nil {
		return SpreadDraw{}, wrapError("reading", "draw_spread", err)
	}

	available := shuffle.Available(deck, nil, settings.Preferences.OnlyMajorArcana)
	results, err := shuffle.Draw(available, len(spread.Slots), req.Seed, settings.Preferences.AllowReversed)
	if err != nil {
		return SpreadDraw{}, wrapError("reading", "draw_spread", err)
	}

	return SpreadDraw{
		DeckID:   deck.ID(),
		SpreadID: spread.ID,
		Seed:     req.Seed,
		Cards:    toDraws(deck, spread.Slots, results),
	}, nil
}

// DailyCard draws the card of the day. The draw is seeded with the calendar
// date of now, so every call on the same day returns the same card.
func (s *ReadingService) DailyCard(ctx context.Context, now time.Time) (DailyDraw, error) {
	seed := shuffle.DailySeed(now)
	spread, err := s.DrawSpread(ctx, DrawSpreadRequest{SpreadID: decks.DailySpreadID, Seed: seed})
	if err != nil {
		return DailyDraw{}, err
	}
	if len(spread.Cards) == 0 {
		return DailyDraw{}, fmt.Errorf("%w: daily spread has no slots", domain.ErrInsufficientCards)
	}
	return DailyDraw{
		Date: seed,
		Card: spread.Cards[0],
		Moon: celestial.MoonAt(now),
	}, nil
}

// Interpret asks the interpreter for a reading of the drawn cards. Failures
// are returned as they are; interpretation.UserMessage turns them into text
// for display.
func (s *ReadingService) Interpret(ctx context.Context, req InterpretRequest) (interpretation.Result, error) {
	settings, deck, spread, err := s.resolve(ctx, req.DeckID, req.SpreadID)
	if err != nil {
		return interpretation.Result{}, wrapError("reading", "interpret", err)
	}
	if !settings.AI.Enabled {
		return interpretation.Result{}, interpretation.ErrUnavailable
	}

	messages, err := interpretation.BuildPrompt(deck, spread, req.Cards, req.Question)
	if err != nil {
		return interpretation.Result{}, err
	}

	model := req.Model
	if model == "" {
		model = settings.AI.ModelID
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	result, err := s.interpreter.Interpret(ctx, interpretation.Request{Messages: messages, Model: model})
	if err != nil {
		log.Warn("interpretation failed",
			slog.String("deck_id", deck.ID()),
			slog.String("spread_id", spread.ID),
			slog.String("error", err.Error()))
		return interpretation.Result{}, err
	}

	log.Info("interpretation received",
		slog.String("model", result.Model),
		slog.Int("cards", len(req.Cards)))
	return result, nil
}

// SaveReading validates a completed reading against its spread and deck and
// appends it to the history. When Interpret is set and no interpretation text
// was supplied, a background interpretation is requested; a failure to request
// it is logged and does not fail the save.
func (s *ReadingService) SaveReading(ctx context.Context, req SaveReadingRequest) (domain.ReadingSession, error) {
	_, deck, spread, err := s.resolve(ctx, req.DeckID, req.SpreadID)
	if err != nil {
		return domain.ReadingSession{}, wrapError("reading", "save_reading", err)
	}

	cards, err := s.checkCards(deck, req.Cards)
	if err != nil {
		return domain.ReadingSession{}, wrapError("reading", "save_reading", err)
	}
	if err := domain.ValidateAgainst(spread, cards); err != nil {
		return domain.ReadingSession{}, err
	}

	session, err := domain.NewReadingSession(spread.ID, deck.ID(), cards, s.now())
	if err != nil {
		return domain.ReadingSession{}, wrapError("reading", "save_reading", err)
	}
	session.Question = strings.TrimSpace(req.Question)
	session.Seed = req.Seed
	session.AIInterpretation = req.Interpretation
	if req.Interpretation != "" {
		session.ModelUsed = req.ModelUsed
	}

	if err := s.history.AddReading(ctx, *session); err != nil {
		return domain.ReadingSession{}, wrapError("reading", "save_reading", err)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("reading saved",
		slog.String("reading_id", session.ID),
		slog.String("spread_id", session.SpreadID),
		slog.String("deck_id", session.DeckID))

	if req.Interpret && req.Interpretation == "" {
		s.requestInterpretation(ctx, log, session.ID, session.Question)
	}
	return *session, nil
}

// checkCards resolves every drawn card against its own deck. A card without a
// deck id belongs to the session deck.
func (s *ReadingService) checkCards(deck domain.Deck, drawn []domain.DrawnCard) ([]domain.DrawnCard, error) {
	decks := map[string]domain.Deck{deck.ID(): deck}
	cards := make([]domain.DrawnCard, len(drawn))
	for i, c := range drawn {
		if c.DeckID == "" {
			c.DeckID = deck.ID()
		}
		d, ok := decks[c.DeckID]
		if !ok {
			var err error
			d, err = s.catalog.GetDeck(c.DeckID)
			if err != nil {
				return nil, err
			}
			decks[c.DeckID] = d
		}
		if _, ok := d.Card(c.CardID); !ok {
			return nil, fmt.Errorf("%w: %s in deck %s", domain.ErrCardNotFound, c.CardID, c.DeckID)
		}
		cards[i] = c
	}
	return cards, nil
}

func (s *ReadingService) requestInterpretation(ctx context.Context, log *slog.Logger, readingID, question string) {
	if s.emitter == nil {
		log.Warn("background interpretation requested but no emitter is configured",
			slog.String("reading_id", readingID))
		return
	}

	event, err := events.NewEvent(events.TypeInterpretationRequested, events.InterpretationRequest{
		ReadingID: readingID,
		Question:  question,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Error("failed to request background interpretation",
			slog.String("reading_id", readingID),
			slog.String("error", err.Error()))
	}
}

// InterpretReading interprets a saved reading and attaches the text and model
// to it. An empty question falls back to the one saved with the reading.
func (s *ReadingService) InterpretReading(ctx context.Context, readingID, question, model string) (interpretation.Result, error) {
	session, ok := s.history.Get(readingID)
	if !ok {
		return interpretation.Result{}, fmt.Errorf("%w: %s", ErrReadingNotFound, readingID)
	}
	if strings.TrimSpace(question) == "" {
		question = session.Question
	}

	result, err := s.Interpret(ctx, InterpretRequest{
		DeckID:   session.DeckID,
		SpreadID: session.SpreadID,
		Cards:    session.Cards,
		Question: question,
		Model:    model,
	})
	if err != nil {
		return interpretation.Result{}, err
	}

	if err := s.history.SetInterpretation(ctx, readingID, result.Text, result.Model); err != nil {
		return interpretation.Result{}, wrapError("reading", "interpret_reading", err)
	}
	return result, nil
}

// Stats summarises the history against deckID, defaulting to the active deck.
func (s *ReadingService) Stats(ctx context.Context, deckID string) (stats.Stats, error) {
	if deckID == "" {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return stats.Stats{}, wrapError("reading", "stats", err)
		}
		deckID = settings.ActiveDeckID
	}
	return stats.Compute(s.history.List(), deckID, s.catalog), nil
}

// ListReadings returns the saved readings, newest first.
func (s *ReadingService) ListReadings() []domain.ReadingSession {
	return s.history.List()
}

// GetReading returns one saved reading or ErrReadingNotFound.
func (s *ReadingService) GetReading(id string) (domain.ReadingSession, error) {
	session, ok := s.history.Get(id)
	if !ok {
		return domain.ReadingSession{}, fmt.Errorf("%w: %s", ErrReadingNotFound, id)
	}
	return session, nil
}

// DeleteReading removes a saved reading. Deleting an unknown id succeeds.
func (s *ReadingService) DeleteReading(ctx context.Context, id string) error {
	return wrapError("reading", "delete_reading", s.history.DeleteReading(ctx, id))
}

// UpdateNotes replaces the user's notes on a saved reading.
func (s *ReadingService) UpdateNotes(ctx context.Context, id, notes string) error {
	if _, ok := s.history.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrReadingNotFound, id)
	}
	return wrapError("reading", "update_notes", s.history.UpdateUserNotes(ctx, id, notes))
}

// UpdateInterpretation replaces the interpretation text of a saved reading.
func (s *ReadingService) UpdateInterpretation(ctx context.Context, id, text string) error {
	if _, ok := s.history.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrReadingNotFound, id)
	}
	return wrapError("reading", "update_interpretation", s.history.UpdateReadingInterpretation(ctx, id, text))
}

// ClearHistory removes every saved reading.
func (s *ReadingService) ClearHistory(ctx context.Context) error {
	return wrapError("reading", "clear_history", s.history.ClearHistory(ctx))
}

package interpretation

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/tarots-ai/tarots-api/internal/domain"
)

// DefaultQuestion is asked when the user gives none.
const DefaultQuestion = "What guidance do the cards offer right now?"

const systemPrompt = `You are an experienced, compassionate tarot reader.
Interpret the cards in the positions they were drawn, taking orientation into account.
Speak directly to the querent, avoid fatalistic predictions, and keep the reading under 400 words.`

var readingTemplate = template.Must(template.New("reading").Parse(
	`Deck: {{.Deck}}
Spread: {{.Spread}}
Question: {{.Question}}

Cards:
{{range .Cards}}{{.Index}}. {{.Position}}: {{.Name}}{{if .Reversed}} (reversed){{end}}{{with .Details}} [{{.}}]{{end}}
{{end}}
Interpret each card in its position, then close with an overall message that answers the question.`))

type promptCard struct {
	Index    int
	Position string
	Name     string
	Reversed bool
	Details  string
}

type promptData struct {
	Deck     string
	Spread   string
	Question string
	Cards    []promptCard
}

// BuildPrompt builds the messages for interpreting drawn cards. The output is
// fully determined by its inputs: cards are listed in spread slot order, with
// any card outside the spread appended in draw order. Cards the deck does not
// know are listed by id.
func BuildPrompt(deck domain.Deck, spread domain.Spread, drawn []domain.DrawnCard, question string) ([]Message, error) {
	if len(drawn) == 0 {
		return nil, ErrNoCards
	}

	question = strings.TrimSpace(question)
	if question == "" {
		question = DefaultQuestion
	}

	deckName := deck.Info.Name
	if deckName == "" {
		deckName = deck.Info.ID
	}

	data := promptData{
		Deck:     deckName,
		Spread:   humanize(spread.ID),
		Question: question,
	}

	for _, d := range orderBySlots(spread, drawn) {
		pc := promptCard{
			Index:    len(data.Cards) + 1,
			Position: humanize(d.PositionID),
			Name:     d.CardID,
			Reversed: d.IsReversed,
		}
		if card, ok := deck.Card(d.CardID); ok {
			pc.Name = CardName(card)
			pc.Details = details(card.Meta)
		}
		data.Cards = append(data.Cards, pc)
	}

	var buf bytes.Buffer
	if err := readingTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: buf.String()},
	}, nil
}

// CardName returns the card's display name, deriving one from its metadata
// when the catalog has none.
func CardName(c domain.Card) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Meta.Number != nil {
		switch {
		case c.Meta.Type == domain.CardTypeMajor:
			return fmt.Sprintf("Major Arcana %d", *c.Meta.Number)
		case c.Group() != "":
			return fmt.Sprintf("%d of %s", *c.Meta.Number, capitalize(c.Group()))
		}
	}
	return c.ID
}

func orderBySlots(spread domain.Spread, drawn []domain.DrawnCard) []domain.DrawnCard {
	ordered := make([]domain.DrawnCard, 0, len(drawn))
	used := make([]bool, len(drawn))
	for _, slot := range spread.Slots {
		for i, d := range drawn {
			if !used[i] && d.PositionID == slot.ID {
				ordered = append(ordered, d)
				used[i] = true
				break
			}
		}
	}
	for i, d := range drawn {
		if !used[i] {
			ordered = append(ordered, d)
		}
	}
	return ordered
}

func details(m domain.CardMeta) string {
	var parts []string
	if m.Type != "" {
		parts = append(parts, string(m.Type))
	}
	if m.Suit != "" && m.Suit != domain.SuitNone {
		parts = append(parts, string(m.Suit))
	}
	if m.Element != "" {
		parts = append(parts, m.Element)
	}
	if m.Zodiac != "" {
		parts = append(parts, m.Zodiac)
	}
	return strings.Join(parts, ", ")
}

func humanize(id string) string {
	return capitalize(strings.NewReplacer("_", " ", "-", " ").Replace(id))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package main

import (
	"fmt"
	"io"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"github.com/tarots-ai/tarots-api/internal/service"
)

var (
	headingStyle  = colorize.New(colorize.Bold)
	positionStyle = colorize.New(colorize.FgCyan)
	reversedStyle = colorize.New(colorize.FgMagenta)
	mutedStyle    = colorize.New(colorize.Faint)
)

// positionLabel turns a slot id such as "near-future" into "Near future".
func positionLabel(id string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func cardLabel(card domain.Card, reversed bool) string {
	name := interpretation.CardName(card)
	if reversed {
		return reversedStyle.Sprintf("%s (reversed)", name)
	}
	return name
}

func printDraws(w io.Writer, draws []service.CardDraw) {
	width := 0
	for _, d := range draws {
		width = max(width, len(positionLabel(d.PositionID)))
	}
	for _, d := range draws {
		label := fmt.Sprintf("%-*s", width, positionLabel(d.PositionID))
		fmt.Fprintf(w, "  %s  %s\n", positionStyle.Sprint(label), cardLabel(d.Card, d.IsReversed))
	}
}

// printReading renders a saved reading, resolving card names through deck
// when it is known.
func printReading(w io.Writer, r domain.ReadingSession, deck *domain.Deck) {
	headingStyle.Fprintf(w, "%s  %s\n", r.Time().Local().Format("2006-01-02 15:04"), r.SpreadID)
	fmt.Fprintf(w, "%s %s\n", mutedStyle.Sprint("id:  "), r.ID)
	fmt.Fprintf(w, "%s %s\n", mutedStyle.Sprint("deck:"), r.DeckID)
	if r.Question != "" {
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Sprint("asked:"), r.Question)
	}
	fmt.Fprintln(w)

	draws := make([]service.CardDraw, 0, len(r.Cards))
	for _, c := range r.Cards {
		card := domain.Card{ID: c.CardID}
		if deck != nil {
			if found, ok := deck.Card(c.CardID); ok {
				card = found
			}
		}
		draws = append(draws, service.CardDraw{DrawnCard: c, Card: card})
	}
	printDraws(w, draws)

	if r.AIInterpretation != "" {
		fmt.Fprintln(w)
		printInterpretation(w, r.AIInterpretation, r.ModelUsed)
	}
	if r.UserNotes != "" {
		fmt.Fprintln(w)
		headingStyle.Fprintln(w, "Notes")
		fmt.Fprintln(w, r.UserNotes)
	}
}

func printInterpretation(w io.Writer, text, model string) {
	if model != "" {
		headingStyle.Fprintf(w, "Interpretation %s\n", mutedStyle.Sprintf("(%s)", model))
	} else {
		headingStyle.Fprintln(w, "Interpretation")
	}
	fmt.Fprintln(w, strings.TrimSpace(text))
}

// summary is the one-line form of a reading used by history ls.
func summary(r domain.ReadingSession) string {
	line := fmt.Sprintf("%s  %s  %-12s %d cards", r.ID, r.Time().Local().Format("2006-01-02 15:04"), r.SpreadID, len(r.Cards))
	if r.Question != "" {
		line += "  " + mutedStyle.Sprintf("%q", r.Question)
	}
	return line
}

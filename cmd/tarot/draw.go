package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/interpretation"
	"github.com/tarots-ai/tarots-api/internal/service"
)

const defaultSpread = "three-card"

type drawOptions struct {
	deck      string
	seed      string
	question  string
	model     string
	save      bool
	interpret bool
}

func newDrawCmd(c *cli) *cobra.Command {
	opts := drawOptions{}
	cmd := &cobra.Command{
		Use:   "draw [spread]",
		Short: "Draw a full spread",
		Long: `Draw every position of a spread, three-card by default.

With --seed the draw is reproducible: the same seed, deck and spread always
produce the same cards. --interpret asks the configured AI provider to read
the cards and --save records the reading in your history.`,
		Example: `  tarot draw
  tarot draw celtic-cross --question "What should I focus on?" --interpret --save
  tarot draw --seed 2025-06-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spreadID := defaultSpread
			if len(args) == 1 {
				spreadID = args[0]
			}
			return c.runDraw(cmd, spreadID, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.deck, "deck", "", "deck to draw from (default: the active deck)")
	flags.StringVar(&opts.seed, "seed", "", "seed for a reproducible draw")
	flags.StringVarP(&opts.question, "question", "q", "", "question to ask the cards")
	flags.StringVar(&opts.model, "model", "", "model to interpret with (default: from settings)")
	flags.BoolVar(&opts.save, "save", false, "save the reading to the history")
	flags.BoolVarP(&opts.interpret, "interpret", "i", false, "ask the AI provider for an interpretation")
	return cmd
}

func (c *cli) runDraw(cmd *cobra.Command, spreadID string, opts drawOptions) error {
	a, err := c.application(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	draw, err := a.Readings.DrawSpread(ctx, service.DrawSpreadRequest{
		DeckID:   opts.deck,
		SpreadID: spreadID,
		Seed:     opts.seed,
	})
	if err != nil {
		return err
	}

	headingStyle.Fprintf(out, "%s  %s\n", draw.SpreadID, mutedStyle.Sprint(draw.DeckID))
	if opts.question != "" {
		fmt.Fprintf(out, "%s %s\n", mutedStyle.Sprint("asked:"), opts.question)
	}
	fmt.Fprintln(out)
	printDraws(out, draw.Cards)

	cards := make([]domain.DrawnCard, 0, len(draw.Cards))
	for _, d := range draw.Cards {
		cards = append(cards, d.DrawnCard)
	}

	var result interpretation.Result
	if opts.interpret {
		result, err = a.Readings.Interpret(ctx, service.InterpretRequest{
			DeckID:   draw.DeckID,
			SpreadID: draw.SpreadID,
			Cards:    cards,
			Question: opts.question,
			Model:    opts.model,
		})
		if err != nil {
			// The draw itself stands; report the failure and carry on.
			fmt.Fprintf(cmd.ErrOrStderr(), "Interpretation failed: %s\n", interpretation.UserMessage(err))
		} else {
			fmt.Fprintln(out)
			printInterpretation(out, result.Text, result.Model)
		}
	}

	if !opts.save {
		return nil
	}
	session, err := a.Readings.SaveReading(ctx, service.SaveReadingRequest{
		DeckID:         draw.DeckID,
		SpreadID:       draw.SpreadID,
		Cards:          cards,
		Question:       opts.question,
		Seed:           draw.Seed,
		Interpretation: result.Text,
		ModelUsed:      result.Model,
	})
	if err != nil {
		return fmt.Errorf("save reading: %w", err)
	}
	fmt.Fprintf(out, "\nSaved reading %s\n", session.ID)
	return nil
}

func newDailyCmd(c *cli) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the card of the day and the moon phase",
		Long: `Show the card of the day. Everyone drawing from the same deck on the same
date gets the same card.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if date != "" {
				day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				now = day.Add(12 * time.Hour)
			}

			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			daily, err := a.Readings.DailyCard(cmd.Context(), now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			headingStyle.Fprintf(out, "Card of the day, %s\n\n", daily.Date)
			fmt.Fprintf(out, "  %s\n\n", cardLabel(daily.Card.Card, daily.Card.IsReversed))
			fmt.Fprintf(out, "%s %s\n", mutedStyle.Sprint("moon:"), daily.Moon.Phase)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date to draw for, as YYYY-MM-DD (default: today)")
	return cmd
}

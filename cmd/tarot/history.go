package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/service"
)

func newHistoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Browse and edit saved readings",
	}
	cmd.AddCommand(
		newHistoryListCmd(c),
		newHistoryShowCmd(c),
		newHistoryRemoveCmd(c),
		newHistoryNotesCmd(c),
		newHistoryInterpretCmd(c),
		newHistoryClearCmd(c),
	)
	return cmd
}

func newHistoryListCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List saved readings, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			readings := a.Readings.ListReadings()
			out := cmd.OutOrStdout()
			if len(readings) == 0 {
				fmt.Fprintln(out, "No saved readings.")
				return nil
			}
			if limit > 0 && len(readings) > limit {
				readings = readings[:limit]
			}
			for _, r := range readings {
				fmt.Fprintln(out, summary(r))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n readings")
	return cmd
}

func newHistoryShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			r, err := a.Readings.GetReading(args[0])
			if err != nil {
				return err
			}
			var deck *domain.Deck
			if d, err := a.Readings.Deck(r.DeckID); err == nil {
				deck = &d
			}
			printReading(cmd.OutOrStdout(), r, deck)
			return nil
		},
	}
}

func newHistoryRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete saved readings",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			for _, id := range args {
				if _, err := a.Readings.GetReading(id); err != nil {
					return err
				}
				if err := a.Readings.DeleteReading(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}

func newHistoryNotesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id> <text>...",
		Short: "Replace the notes on a saved reading",
		Long:  "Replace the notes on a saved reading. An empty text clears them.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			notes := strings.Join(args[1:], " ")
			if err := a.Readings.UpdateNotes(cmd.Context(), args[0], notes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated notes on %s\n", args[0])
			return nil
		},
	}
}

func newHistoryInterpretCmd(c *cli) *cobra.Command {
	var question, model string
	cmd := &cobra.Command{
		Use:   "interpret <id>",
		Short: "Interpret a saved reading and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			result, err := a.Readings.InterpretReading(cmd.Context(), args[0], question, model)
			if err != nil {
				return err
			}
			printInterpretation(cmd.OutOrStdout(), result.Text, result.Model)
			return nil
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "question to ask (default: the reading's own)")
	cmd.Flags().StringVar(&model, "model", "", "model to interpret with (default: from settings)")
	return cmd
}

func newHistoryClearCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the history without --yes")
			}
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			n := len(a.Readings.ListReadings())
			if err := a.Readings.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d readings\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting the whole history")
	return cmd
}

func newStatsCmd(c *cli) *cobra.Command {
	var deck string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the saved readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			if deck == "" {
				settings, err := a.Settings.Get(cmd.Context())
				if err != nil {
					return err
				}
				deck = settings.ActiveDeckID
			}
			st, err := a.Readings.Stats(cmd.Context(), deck)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Readings:  %d\n", st.TotalReadings)
			fmt.Fprintf(out, "Cards:     %d\n", st.TotalCards)
			if st.TopCardID != nil {
				fmt.Fprintf(out, "Top card:  %s (%d times)\n", topCardName(a.Readings, deck, *st.TopCardID), st.TopCardCount)
			}
			if len(st.SuitCounts) == 0 {
				return nil
			}
			suits := make([]string, 0, len(st.SuitCounts))
			for s := range st.SuitCounts {
				suits = append(suits, s)
			}
			sort.Strings(suits)
			fmt.Fprintln(out)
			headingStyle.Fprintln(out, "By suit")
			for _, s := range suits {
				fmt.Fprintf(out, "  %-10s %d\n", s, st.SuitCounts[s])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&deck, "deck", "", "deck whose cards are counted by suit (default: the active deck)")
	return cmd
}

// topCardName resolves a card id to its name in deckID. The id is returned
// as is when it cannot be found.
func topCardName(readings *service.ReadingService, deckID, cardID string) string {
	deck, err := readings.Deck(deckID)
	if err != nil {
		return cardID
	}
	if card, ok := deck.Card(cardID); ok {
		return card.DisplayName()
	}
	return cardID
}

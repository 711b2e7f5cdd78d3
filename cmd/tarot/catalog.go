package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDecksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List the available decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			settings, err := a.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range a.Readings.Decks() {
				marker := " "
				if d.ID == settings.ActiveDeckID {
					marker = "*"
				}
				name := d.Name
				if name == "" {
					name = d.ID
				}
				fmt.Fprintf(out, "%s %-24s %s %s\n", marker, d.ID, name, mutedStyle.Sprintf("(%d cards)", d.TotalCards))
			}
			return nil
		},
	}
}

func newSpreadsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "spreads",
		Short: "List the available spreads and their positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range a.Readings.Spreads() {
				positions := make([]string, 0, len(s.Slots))
				for _, slot := range s.Slots {
					positions = append(positions, slot.ID)
				}
				fmt.Fprintf(out, "%-16s %s\n", s.ID, mutedStyle.Sprint(strings.Join(positions, ", ")))
			}
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/platform/postgres"
)

func newTokenCmd(c *cli) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the HTTP API",
		Long: `Issue a bearer token for the HTTP API. Only available when auth.jwt_secret
is configured; the server must share the same secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			if a.JWT == nil {
				return errors.New("authentication is disabled: set auth.jwt_secret (TAROT_AUTH_JWT_SECRET)")
			}
			token, err := a.JWT.GenerateToken(cmd.Context(), subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "tarot-cli", "client name recorded in the token")
	return cmd
}

func newMigrateCmd(c *cli) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema migrations",
		Long: `Apply pending schema migrations to the PostgreSQL document store. The
server migrates on start as well; this command is for running them ahead of
a deploy. With --status only the current schema version is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage.Backend != config.BackendPostgres {
				return fmt.Errorf("migrate needs the postgres storage backend, configured backend is %q", cfg.Storage.Backend)
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Storage.DatabaseURL, c.log)
			if err != nil {
				return err
			}
			defer db.Close()

			if !status {
				if err := postgres.Migrate(ctx, db, c.log); err != nil {
					return err
				}
			}
			version, err := postgres.SchemaVersion(ctx, db, c.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print the schema version without migrating")
	return cmd
}

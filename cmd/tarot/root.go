package main

import (
	"io"
	"log/slog"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tarots-ai/tarots-api/internal/app"
	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"golang.org/x/term"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	configFile string
	verbose    bool
	noColor    bool

	cfg *config.Config
	app *app.App
	log *slog.Logger
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "tarot",
		Short: "Draw, interpret and keep a journal of tarot readings",
		Long: `tarot draws cards from the built-in Rider-Waite-Smith deck (or any deck in
your deck library), asks an AI provider for an interpretation when one is
configured, and keeps a history of your readings.

Configuration is read from config.yaml and TAROT_* environment variables,
e.g. TAROT_LLM_PROVIDER=openrouter TAROT_LLM_API_KEY=...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			colorize.NoColor = c.noColor || !isTerminal(cmd.OutOrStdout())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/tarots/config.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")
	flags.BoolVar(&c.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newDecksCmd(c),
		newSpreadsCmd(c),
		newDrawCmd(c),
		newDailyCmd(c),
		newHistoryCmd(c),
		newStatsCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newTokenCmd(c),
		newMigrateCmd(c),
	)
	return root
}

// config loads the configuration once per invocation and sets up logging to
// stderr. The CLI only logs warnings unless --verbose is given.
func (c *cli) config(cmd *cobra.Command) (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadFile(c.configFile)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Server
	logCfg.LogLevel = "warn"
	if c.verbose {
		logCfg.LogLevel = "debug"
	}
	log, err := logger.SetupWithWriter(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	c.cfg, c.log = cfg, log
	return cfg, nil
}

// application builds the reading core on first use. It is released by close.
func (c *cli) application(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := c.config(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmd.Context(), cfg, c.log)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Package main implements the entry point for the tarots API server, which
// serves the deck catalog, card draws, interpretations and the reading
// history over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/tarots-ai/tarots-api/internal/api"
	"github.com/tarots-ai/tarots-api/internal/app"
	"github.com/tarots-ai/tarots-api/internal/config"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
)

// configFileEnv names an explicit config file. Without it config.yaml is
// looked up in the working directory and the user config directory.
const configFileEnv = "TAROT_CONFIG_FILE"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadFile(os.Getenv(configFileEnv))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("auth_enabled", cfg.AuthEnabled()))

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	application.StartWorkers()

	handler := api.NewRouter(api.Dependencies{
		Readings:  application.Readings,
		Settings:  application.Settings,
		Backup:    application.Backup,
		JWT:       application.JWT,
		Logger:    log,
		AccessLog: cfg.Server.LogLevel == "debug",
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", cfg.Server.Port, err)
	}

	return serve(ctx, newHTTPServer(handler), listener, log, func() {
		application.DrainWorkers(cfg.Server.ShutdownTimeout)
	}, cfg.Server.ShutdownTimeout)
}

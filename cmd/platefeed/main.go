package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matt-dz/platefeed/internal/api"
	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/log"
	"github.com/matt-dz/platefeed/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	fs, err := setup.FileStore(conf)
	if err != nil {
		logger.Error("failed to setup file store", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	environment := env.New(logger, db, fs, conf)

	logger.DebugContext(ctx, "setting up admin")
	if err := setup.Admin(setupCtx, environment); err != nil {
		logger.Error("failed to setup admin", slog.Any("error", err))
		os.Exit(1)
	}

	if err := api.Start(environment); err != nil {
		environment.Logger.Error("API Failed", slog.Any("error", err))
		os.Exit(1)
	}
}

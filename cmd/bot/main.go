// Package main запускает Telegram-бота listening party.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lpbot/internal/app"
	"lpbot/internal/config"
	"lpbot/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	log := logger.New(logger.FromEnv())
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewBotWithFactory(cfg, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	runErr := bot.Start(ctx)
	if ctx.Err() != nil {
		log.Info("Shutdown signal received")
	}

	if err := bot.Stop(); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	if runErr != nil {
		log.Error("Bot stopped with error", zap.Error(runErr))
		os.Exit(1)
	}

	log.Info("Bot stopped successfully")
}

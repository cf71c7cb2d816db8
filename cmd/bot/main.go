package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"blackjack-coach/internal/bot"
	"blackjack-coach/internal/config"
	"blackjack-coach/internal/database"
	"blackjack-coach/internal/logging"
	"blackjack-coach/internal/player"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.New("info").Fatal("failed to load config", "err", err)
	}
	logger := logging.New(cfg.LogLevel)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database", "err", err)
	}
	defer db.Close()

	logger.Info("database ready", "path", cfg.DatabasePath)

	playerRepo := player.NewRepository(db.DB)

	b, err := bot.New(cfg, playerRepo, logger)
	if err != nil {
		logger.Fatal("failed to create bot", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil {
		logger.Error("bot error", "err", err)
	}
}

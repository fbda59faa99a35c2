package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bradykim7/recipebot/internal/bot"
	"github.com/bradykim7/recipebot/pkg/config"
	"github.com/bradykim7/recipebot/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New("recipebot", cfg.LogDir, cfg.LogLevel)
	defer log.Sync()

	log.Infow("Starting recipe bot",
		"environment", cfg.Environment,
		"prefix", cfg.CommandPrefix,
		"cookbook", cfg.CookbookEnabled())

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sc := make(chan os.Signal, 1)
		signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
		<-sc
		log.Info("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize and run the bot
	discordBot, err := bot.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize bot", "error", err)
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Errorw("Bot error", "error", err)
	}

	log.Info("Discord bot shut down successfully")
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ergognome/discord-digest-bot/internal/app"
	"github.com/ergognome/discord-digest-bot/internal/platform/config"
	"github.com/ergognome/discord-digest-bot/internal/storage"
)

func main() {
	mode := flag.String("mode", "run", "Service mode (run, serve)")
	dryRun := flag.Bool("dry-run", false, "Print the digest instead of publishing it")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.SQLitePath, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer store.Close()

	application := app.New(cfg, store, &logger)

	if err := runMode(ctx, application, *mode, *dryRun); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")

			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode string, dryRun bool) error {
	switch mode {
	case "run":
		return application.RunOnce(ctx, dryRun)
	case "serve":
		return application.RunServe(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[run|serve]", os.Args[0])

		return nil
	}
}

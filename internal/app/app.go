// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Run mode: process the latest chat export once and exit
//   - Serve mode: generate digests on a fixed interval with health and
//     metrics endpoints
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ergognome/discord-digest-bot/internal/ingest"
	"github.com/ergognome/discord-digest-bot/internal/llm"
	"github.com/ergognome/discord-digest-bot/internal/output/discord"
	"github.com/ergognome/discord-digest-bot/internal/pipeline"
	"github.com/ergognome/discord-digest-bot/internal/platform/config"
	"github.com/ergognome/discord-digest-bot/internal/platform/observability"
	"github.com/ergognome/discord-digest-bot/internal/platform/schedule"
	"github.com/ergognome/discord-digest-bot/internal/process/extract"
	"github.com/ergognome/discord-digest-bot/internal/process/links"
	"github.com/ergognome/discord-digest-bot/internal/process/validate"
	"github.com/ergognome/discord-digest-bot/internal/storage"
)

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg       *config.Config
	store     *storage.Store
	loader    *ingest.Loader
	pipeline  *pipeline.Pipeline
	publisher *discord.Publisher
	logger    *zerolog.Logger
}

func New(cfg *config.Config, store *storage.Store, logger *zerolog.Logger) *App {
	client := llm.New(cfg, logger)
	validator := validate.New(cfg.ServerID, cfg.MinBulletLength)
	repairer := links.New(cfg.ServerID)

	extractor := extract.New(client, validator, repairer, extract.Config{
		MaxRetries:         cfg.MaxRetries,
		MinBulletsPerChunk: cfg.MinBulletsPerChunk,
		TemperatureBase:    cfg.TemperatureBase,
		TemperatureStep:    cfg.TemperatureStep,
		TemperatureMax:     cfg.TemperatureMax,
	}, logger)

	var publisher *discord.Publisher
	if cfg.DiscordWebhookURL != "" {
		publisher = discord.NewPublisher(cfg.DiscordWebhookURL, logger)
	}

	return &App{
		cfg:       cfg,
		store:     store,
		loader:    ingest.New(logger),
		pipeline:  pipeline.New(cfg, extractor, store, logger),
		publisher: publisher,
		logger:    logger,
	}
}

// RunOnce processes the latest export in the input directory and publishes
// the resulting digest. A dry run skips publishing.
func (a *App) RunOnce(ctx context.Context, dryRun bool) error {
	export, err := a.loader.FindLatestExport(a.cfg.InputDir)
	if err != nil {
		return err
	}

	messages, err := a.loader.Load(export.Path)
	if err != nil {
		return err
	}

	result, err := a.pipeline.Run(ctx, messages, export.DaysCovered)
	if err != nil {
		return err
	}

	if dryRun || a.publisher == nil {
		a.logger.Info().Str("run_id", result.RunID).Msg("dry run, skipping publish")
		fmt.Println(result.Digest)

		return nil
	}

	return a.publisher.Publish(ctx, result.Digest)
}

// RunServe generates digests on the configured interval until the context
// is cancelled. A single failed cycle is logged, not fatal.
func (a *App) RunServe(ctx context.Context) error {
	server := observability.NewServer(a.store, a.cfg.HealthPort, a.logger)

	go func() {
		if err := server.Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("health server error")
		}
	}()

	if a.cfg.DigestSchedule != "" {
		sched, err := schedule.Parse(a.cfg.DigestSchedule)
		if err != nil {
			return fmt.Errorf("invalid digest schedule: %w", err)
		}

		a.logger.Info().Strs("times", sched.Times()).Str("timezone", sched.Location.String()).Msg("digest scheduler started")

		return a.serveScheduled(ctx, sched)
	}

	ticker := time.NewTicker(a.cfg.DigestInterval)
	defer ticker.Stop()

	a.logger.Info().Dur("interval", a.cfg.DigestInterval).Msg("digest scheduler started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.runCycle(ctx)
		}
	}
}

func (a *App) serveScheduled(ctx context.Context, sched *schedule.Schedule) error {
	for {
		next := sched.NextRun(time.Now())
		a.logger.Debug().Time("next_run", next).Msg("waiting for next scheduled digest")

		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
			a.runCycle(ctx)
		}
	}
}

func (a *App) runCycle(ctx context.Context) {
	if err := a.RunOnce(ctx, false); err != nil {
		if errors.Is(err, pipeline.ErrNoUpdates) || errors.Is(err, ingest.ErrNoExports) {
			a.logger.Warn().Err(err).Msg("skipping digest cycle")

			return
		}

		a.logger.Error().Err(err).Msg("digest cycle failed")
	}
}

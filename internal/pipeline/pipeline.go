package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
	"github.com/ergognome/discord-digest-bot/internal/platform/config"
	"github.com/ergognome/discord-digest-bot/internal/platform/observability"
	"github.com/ergognome/discord-digest-bot/internal/process/chunker"
	"github.com/ergognome/discord-digest-bot/internal/process/dedup"
	"github.com/ergognome/discord-digest-bot/internal/process/extract"
	"github.com/ergognome/discord-digest-bot/internal/process/finalize"
)

// ErrNoUpdates is returned when every chunk in a run came back empty.
var ErrNoUpdates = errors.New("pipeline: no valid updates produced")

const (
	logKeyRunID      = "run_id"
	logKeyChunks     = "chunks"
	logKeyCandidates = "candidates"
	logKeyUpdates    = "updates"
	logKeyDays       = "days_covered"
)

// Store persists completed runs. A nil Store disables persistence.
type Store interface {
	SaveRun(ctx context.Context, run *domain.Run) error
}

// Pipeline drives a full digest pass: chunking, extraction with retries,
// deduplication and final assembly.
type Pipeline struct {
	chunker   *chunker.Chunker
	extractor *extract.Extractor
	deduper   *dedup.Deduplicator
	finalizer *finalize.Finalizer
	store     Store
	logger    *zerolog.Logger
}

// Result summarizes one run for callers that publish or print the digest.
type Result struct {
	RunID          string
	DaysCovered    int
	ChunkCount     int
	CandidateCount int
	UpdateCount    int
	Digest         string
	Updates        []domain.Candidate
}

func New(cfg *config.Config, extractor *extract.Extractor, store Store, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		chunker:   chunker.New(cfg.MaxChunkSize),
		extractor: extractor,
		deduper:   dedup.New(cfg.SimilarityThreshold, logger),
		finalizer: finalize.New(),
		store:     store,
		logger:    logger,
	}
}

// Run processes one export window end to end. It returns ErrNoUpdates when
// no chunk yields a single valid update; partial chunk failures are not
// fatal as long as at least one update survives.
func (p *Pipeline) Run(ctx context.Context, messages []domain.Message, daysCovered int) (*Result, error) {
	runID := uuid.New().String()
	logger := p.logger.With().Str(logKeyRunID, runID).Logger()

	logger.Info().
		Int("messages", len(messages)).
		Int(logKeyDays, daysCovered).
		Msg("starting digest run")

	chunks := p.chunker.Split(messages)
	if len(chunks) == 0 {
		observability.RunsTotal.WithLabelValues(observability.StatusEmpty).Inc()

		return nil, ErrNoUpdates
	}

	candidates := p.extractor.ProcessChunks(ctx, chunks)
	if len(candidates) == 0 {
		logger.Warn().Int(logKeyChunks, len(chunks)).Msg("all chunks exhausted without valid updates")
		observability.RunsTotal.WithLabelValues(observability.StatusEmpty).Inc()

		return nil, ErrNoUpdates
	}

	unique := p.deduper.Dedupe(candidates)
	digest := p.finalizer.Assemble(unique, daysCovered)

	result := &Result{
		RunID:          runID,
		DaysCovered:    daysCovered,
		ChunkCount:     len(chunks),
		CandidateCount: len(candidates),
		UpdateCount:    len(unique),
		Digest:         digest,
		Updates:        unique,
	}

	if p.store != nil {
		run := &domain.Run{
			ID:             runID,
			CreatedAt:      time.Now().UTC(),
			DaysCovered:    daysCovered,
			ChunkCount:     result.ChunkCount,
			CandidateCount: result.CandidateCount,
			UpdateCount:    result.UpdateCount,
			Status:         domain.RunStatusOK,
			Digest:         digest,
			Updates:        unique,
		}

		if err := p.store.SaveRun(ctx, run); err != nil {
			logger.Error().Err(err).Msg("failed to persist run")
			observability.RunsTotal.WithLabelValues(observability.StatusError).Inc()

			return result, err
		}
	}

	logger.Info().
		Int(logKeyChunks, result.ChunkCount).
		Int(logKeyCandidates, result.CandidateCount).
		Int(logKeyUpdates, result.UpdateCount).
		Msg("digest run complete")
	observability.RunsTotal.WithLabelValues(observability.StatusOK).Inc()

	return result, nil
}

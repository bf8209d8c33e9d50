package extract

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
	"github.com/ergognome/discord-digest-bot/internal/llm"
	"github.com/ergognome/discord-digest-bot/internal/platform/observability"
	"github.com/ergognome/discord-digest-bot/internal/process/chunker"
	"github.com/ergognome/discord-digest-bot/internal/process/links"
	"github.com/ergognome/discord-digest-bot/internal/process/validate"
)

// Log field and drop reason constants.
const (
	logFieldChunk   = "chunk"
	logFieldAttempt = "attempt"
	logFieldCount   = "count"

	dropReasonValidation   = "validation"
	dropReasonRepairFailed = "repair_failed"
)

// Config holds the extraction loop knobs. All of them are tunable; the
// defaults mirror the values the pipeline has historically run with.
type Config struct {
	MaxRetries         int
	MinBulletsPerChunk int
	TemperatureBase    float32
	TemperatureStep    float32
	TemperatureMax     float32
}

// Extractor drives a bounded retry loop per chunk: call the generation
// service, parse candidates, validate, repair links, accumulate until the
// minimum-count threshold or the retry budget is reached.
type Extractor struct {
	client    llm.Client
	validator *validate.Validator
	repairer  *links.Repairer
	cfg       Config
	logger    *zerolog.Logger
}

func New(client llm.Client, validator *validate.Validator, repairer *links.Repairer, cfg Config, logger *zerolog.Logger) *Extractor {
	return &Extractor{
		client:    client,
		validator: validator,
		repairer:  repairer,
		cfg:       cfg,
		logger:    logger,
	}
}

// attemptResult is the explicit outcome of one generation attempt. The loop
// is driven by this value; errors are data here, not control flow.
type attemptResult struct {
	candidates []domain.Candidate
	err        error
}

// ProcessChunks runs the retry loop for each chunk in order and returns the
// accumulated candidate pool. A chunk that exhausts its retries contributes
// whatever it accumulated (possibly nothing); that is logged, never fatal.
// The pool is appended to only after a chunk's loop fully completes.
func (e *Extractor) ProcessChunks(ctx context.Context, chunks []chunker.Chunk) []domain.Candidate {
	var pool []domain.Candidate

	for i, chunk := range chunks {
		accepted := e.processChunk(ctx, chunk, i+1)

		switch {
		case len(accepted) >= e.cfg.MinBulletsPerChunk:
			observability.ChunksProcessed.WithLabelValues(observability.StatusOK).Inc()
		case len(accepted) > 0:
			observability.ChunksProcessed.WithLabelValues(observability.StatusExhausted).Inc()
			e.logger.Warn().Int(logFieldChunk, i+1).Int(logFieldCount, len(accepted)).Msg("retry budget exhausted below minimum, keeping partial result")
		default:
			observability.ChunksProcessed.WithLabelValues(observability.StatusEmpty).Inc()
			e.logger.Warn().Int(logFieldChunk, i+1).Msg("chunk yielded no valid candidates, skipping")
		}

		pool = append(pool, accepted...)
	}

	return pool
}

func (e *Extractor) processChunk(ctx context.Context, chunk chunker.Chunk, chunkNum int) []domain.Candidate {
	var accepted []domain.Candidate

	for attempt := 0; attempt < e.cfg.MaxRetries && len(accepted) < e.cfg.MinBulletsPerChunk; attempt++ {
		if ctx.Err() != nil {
			break
		}

		res := e.attempt(ctx, chunk.Text, attempt, len(accepted))
		if res.err != nil {
			observability.LLMAttempts.WithLabelValues(observability.StatusError).Inc()
			e.logger.Warn().Err(res.err).Int(logFieldChunk, chunkNum).Int(logFieldAttempt, attempt+1).Msg("generation attempt failed, retrying")

			continue
		}

		observability.LLMAttempts.WithLabelValues(observability.StatusOK).Inc()

		if len(res.candidates) == 0 {
			e.logger.Warn().Int(logFieldChunk, chunkNum).Int(logFieldAttempt, attempt+1).Msg("attempt yielded no usable candidates")

			continue
		}

		accepted = append(accepted, res.candidates...)
		observability.CandidatesAccepted.Add(float64(len(res.candidates)))

		e.logger.Info().
			Int(logFieldChunk, chunkNum).
			Int(logFieldAttempt, attempt+1).
			Int("accepted", len(res.candidates)).
			Int("total", len(accepted)).
			Msg("attempt complete")
	}

	return accepted
}

// attempt issues one generation call and turns its output into validated
// candidates. A service failure or an empty yield is reported in the result,
// counting as one exhausted retry at the call site.
func (e *Extractor) attempt(ctx context.Context, chunkText string, attempt, currentCount int) attemptResult {
	start := time.Now()

	blob, err := e.client.GenerateBullets(ctx, chunkText, currentCount, e.temperature(attempt))

	observability.LLMRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return attemptResult{err: err}
	}

	var candidates []domain.Candidate

	for _, line := range ParseLines(blob) {
		if c, ok := e.validateLine(line, chunkText); ok {
			candidates = append(candidates, c)
		}
	}

	return attemptResult{candidates: candidates}
}

// validateLine classifies one parsed candidate, routing link failures
// through the repairer. Repaired candidates re-enter classification; a
// candidate that is still invalid afterwards is dropped.
func (e *Extractor) validateLine(line, chunkText string) (domain.Candidate, bool) {
	c := ParseCandidate(line)

	valid, reasons := e.validator.Classify(&c)
	if valid {
		return c, true
	}

	if !validate.Repairable(reasons) {
		observability.CandidatesDropped.WithLabelValues(dropReasonValidation).Inc()
		e.logger.Debug().Strs("reasons", reasons).Str("text", c.Text).Msg("dropping invalid candidate")

		return domain.Candidate{}, false
	}

	repaired, ok := e.repairer.Repair(c.Text, chunkText)
	if !ok {
		observability.CandidatesDropped.WithLabelValues(dropReasonRepairFailed).Inc()
		e.logger.Debug().Str("text", c.Text).Msg("link unrepairable, dropping candidate")

		return domain.Candidate{}, false
	}

	c = ParseCandidate(repaired)
	if valid, _ := e.validator.Classify(&c); !valid {
		observability.CandidatesDropped.WithLabelValues(dropReasonRepairFailed).Inc()

		return domain.Candidate{}, false
	}

	return c, true
}

// temperature escalates per attempt to diversify output on repeated
// failures, capped at the configured maximum.
func (e *Extractor) temperature(attempt int) float32 {
	t := e.cfg.TemperatureBase + float32(attempt)*e.cfg.TemperatureStep
	if t > e.cfg.TemperatureMax {
		t = e.cfg.TemperatureMax
	}

	return t
}

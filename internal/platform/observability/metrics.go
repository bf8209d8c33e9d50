package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "digest_messages_loaded_total",
		Help: "The total number of messages loaded from exports",
	})

	ChunksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_chunks_processed_total",
		Help: "The total number of chunks processed by the extractor",
	}, []string{"status"})

	LLMAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_llm_attempts_total",
		Help: "The total number of generation attempts",
	}, []string{"status"})

	LLMRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "digest_llm_request_duration_seconds",
		Help:    "Duration of generation service calls",
		Buckets: prometheus.DefBuckets,
	})

	CandidatesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "digest_candidates_accepted_total",
		Help: "The total number of candidates accepted into the pool",
	})

	CandidatesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_candidates_dropped_total",
		Help: "Total number of dropped candidates by reason",
	}, []string{"reason"})

	DuplicatesMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "digest_duplicates_merged_total",
		Help: "The total number of candidates merged away by deduplication",
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_runs_total",
		Help: "The total number of pipeline runs",
	}, []string{"status"})

	UpdatesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_updates_published_total",
		Help: "The total number of digests posted to outbound surfaces",
	}, []string{"surface", "status"})
)

// Metric label values.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusExhausted = "exhausted"
	StatusEmpty     = "empty"
)

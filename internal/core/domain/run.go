package domain

import "time"

// Run statuses recorded by the pipeline.
const (
	RunStatusOK    = "ok"
	RunStatusEmpty = "empty"
	RunStatusError = "error"
)

// Run is one complete digest generation pass over an export window.
type Run struct {
	ID             string
	CreatedAt      time.Time
	DaysCovered    int
	ChunkCount     int
	CandidateCount int
	UpdateCount    int
	Status         string
	Digest         string
	Updates        []Candidate
}

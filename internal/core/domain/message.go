package domain

import "time"

// Message is a single Discord chat message from an export.
// Immutable input to the pipeline; created by the ingest loader.
type Message struct {
	ChannelID       string
	ChannelName     string
	ChannelCategory string
	AuthorName      string
	Content         string
	MessageID       string
	Timestamp       time.Time
}

package chunker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
)

// Chunk is a bounded-size batch of formatted message blocks, consumed once
// by the extractor.
type Chunk struct {
	Text     string
	Messages int
}

// Chunker packs ordered message records into size-bounded batches.
type Chunker struct {
	budget int
}

const defaultBudget = 128000

func New(budget int) *Chunker {
	if budget <= 0 {
		budget = defaultBudget
	}

	return &Chunker{budget: budget}
}

// Split sorts messages newest-first and greedily packs formatted blocks into
// chunks whose serialized size stays within the budget. A single message
// whose block alone exceeds the budget is emitted as its own oversized chunk
// rather than split or dropped.
func (c *Chunker) Split(messages []domain.Message) []Chunk {
	sorted := make([]domain.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	var chunks []Chunk

	var blocks []string

	size := 0

	flush := func() {
		if len(blocks) == 0 {
			return
		}

		chunks = append(chunks, Chunk{Text: strings.Join(blocks, "\n"), Messages: len(blocks)})
		blocks = nil
		size = 0
	}

	for _, m := range sorted {
		block := FormatBlock(m)

		blockSize := len(block)
		if len(blocks) > 0 {
			blockSize++ // joining newline
		}

		if size+blockSize > c.budget {
			flush()

			blockSize = len(block)
		}

		blocks = append(blocks, block)
		size += blockSize
	}

	flush()

	return chunks
}

// FormatBlock serializes one message, keeping the raw channel and message
// identifiers verbatim so later stages can reconstruct a canonical link.
func FormatBlock(m domain.Message) string {
	return fmt.Sprintf(
		"Channel: %s\nAuthor: %s\nMessage: %s\nChannel ID: %s\nMessage ID: %s\nTimestamp: %s\n---\n",
		m.ChannelName,
		m.AuthorName,
		m.Content,
		m.ChannelID,
		m.MessageID,
		m.Timestamp.Format(time.RFC3339),
	)
}

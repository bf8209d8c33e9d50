package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ergognome/discord-digest-bot/internal/platform/observability"
)

// MaxMessageLength is the hard per-message content limit enforced by the
// webhook API.
const MaxMessageLength = 2000

const surfaceName = "discord"

type payload struct {
	Content string `json:"content"`
}

// Publisher posts digests to a Discord webhook, splitting content that
// exceeds the per-message limit on line boundaries.
type Publisher struct {
	client     *resty.Client
	webhookURL string
	logger     *zerolog.Logger
}

func NewPublisher(webhookURL string, logger *zerolog.Logger) *Publisher {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &Publisher{
		client:     client,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// Publish sends the digest, one webhook message per part. A failed part
// aborts the remainder so the channel never receives a gap mid-digest.
func (p *Publisher) Publish(ctx context.Context, digest string) error {
	parts := SplitContent(digest, MaxMessageLength)

	for i, part := range parts {
		if err := p.send(ctx, part); err != nil {
			observability.UpdatesPublished.WithLabelValues(surfaceName, observability.StatusError).Inc()

			return fmt.Errorf("failed to publish part %d/%d: %w", i+1, len(parts), err)
		}

		observability.UpdatesPublished.WithLabelValues(surfaceName, observability.StatusOK).Inc()
	}

	p.logger.Info().Int("parts", len(parts)).Msg("digest published")

	return nil
}

func (p *Publisher) send(ctx context.Context, content string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload{Content: content}).
		Post(p.webhookURL)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// SplitContent breaks text into chunks of at most limit runes, preferring
// line boundaries. A single line longer than the limit is split mid-line.
func SplitContent(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		parts   []string
		current strings.Builder
		length  int
	)

	flush := func() {
		if length > 0 {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			length = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)

		for len(runes) > limit {
			flush()
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}

		// +1 for the joining newline
		if length+len(runes)+1 > limit {
			flush()
		}

		current.WriteString(string(runes))
		current.WriteByte('\n')
		length += len(runes) + 1
	}

	flush()

	return parts
}

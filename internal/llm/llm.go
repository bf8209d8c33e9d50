package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ergognome/discord-digest-bot/internal/platform/config"
)

// Client is the boundary to the generation service. One call takes a chunk
// of formatted messages and returns one text blob of candidate bullet lines.
type Client interface {
	GenerateBullets(ctx context.Context, chunk string, currentCount int, temperature float32) (string, error)
}

// New returns the OpenAI-backed client, or a deterministic mock when no API
// key is configured. The mock keeps dry runs and tests off the network.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if cfg.LLMAPIKey == "" || cfg.LLMAPIKey == "mock" {
		return &mockClient{cfg: cfg}
	}

	return NewOpenAI(cfg, logger)
}

type mockClient struct {
	cfg *config.Config
}

// GenerateBullets fabricates one well-formed bullet per message block found
// in the chunk, using the block's own identifiers for the reference link.
func (c *mockClient) GenerateBullets(_ context.Context, chunk string, _ int, _ float32) (string, error) {
	var sb strings.Builder

	for _, block := range strings.Split(chunk, "---\n") {
		channelID := fieldValue(block, "Channel ID: ")
		messageID := fieldValue(block, "Message ID: ")
		channel := fieldValue(block, "Channel: ")

		if channelID == "" || messageID == "" {
			continue
		}

		sb.WriteString(fmt.Sprintf(
			"- 🔧 **%s**: mock update generated from message %s covering the latest development discussion ([discussion](https://discord.com/channels/%s/%s/%s))\n",
			channel, messageID, c.cfg.ServerID, channelID, messageID,
		))
	}

	return sb.String(), nil
}

func fieldValue(block, prefix string) string {
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}

	return ""
}

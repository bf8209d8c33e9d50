package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"local"`
	LLMAPIKey string `env:"LLM_API_KEY"`
	LLMModel  string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	// ServerID is the Discord server whose channels the export comes from.
	// Reference URLs are only valid when they point into this server.
	ServerID string `env:"SERVER_ID" envDefault:"668903786361651200"`

	InputDir   string `env:"INPUT_DIR" envDefault:"./output"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./digest.db"`

	MaxChunkSize        int     `env:"MAX_CHUNK_SIZE" envDefault:"128000"`
	MaxRetries          int     `env:"MAX_RETRIES" envDefault:"7"`
	MinBulletsPerChunk  int     `env:"MIN_BULLETS_PER_CHUNK" envDefault:"5"`
	MinBulletLength     int     `env:"MIN_BULLET_LENGTH" envDefault:"50"`
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.7"`

	TemperatureBase float32 `env:"TEMPERATURE_BASE" envDefault:"0.7"`
	TemperatureStep float32 `env:"TEMPERATURE_STEP" envDefault:"0.05"`
	TemperatureMax  float32 `env:"TEMPERATURE_MAX" envDefault:"0.95"`
	MaxTokens       int     `env:"MAX_TOKENS" envDefault:"4000"`
	RateLimitRPS    int     `env:"RATE_LIMIT_RPS" envDefault:"1"`

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`

	// DigestSchedule overrides the interval with fixed send times, e.g.
	// "09:00,21:00@Europe/Berlin". Empty means interval-based scheduling.
	DigestSchedule string        `env:"DIGEST_SCHEDULE"`
	DigestInterval time.Duration `env:"DIGEST_INTERVAL" envDefault:"24h"`
	HealthPort     int           `env:"HEALTH_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

package config

import (
	"testing"
	"time"
)

// Test environment variable keys.
const (
	testEnvServerID   = "SERVER_ID"
	testEnvMaxRetries = "MAX_RETRIES"
	testEnvThreshold  = "SIMILARITY_THRESHOLD"
)

// Test values.
const (
	testErrLoad         = "Load() error = %v"
	testDefaultEnv      = "local"
	testDefaultModel    = "gpt-4o-mini"
	testDefaultServerID = "668903786361651200"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != testDefaultEnv {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, testDefaultEnv)
	}

	if cfg.LLMModel != testDefaultModel {
		t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, testDefaultModel)
	}

	if cfg.ServerID != testDefaultServerID {
		t.Errorf("ServerID = %q, want %q", cfg.ServerID, testDefaultServerID)
	}

	if cfg.MaxChunkSize != 128000 {
		t.Errorf("MaxChunkSize = %d, want 128000", cfg.MaxChunkSize)
	}

	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7", cfg.MaxRetries)
	}

	if cfg.MinBulletsPerChunk != 5 {
		t.Errorf("MinBulletsPerChunk = %d, want 5", cfg.MinBulletsPerChunk)
	}

	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %v, want 0.7", cfg.SimilarityThreshold)
	}

	if cfg.DigestInterval != 24*time.Hour {
		t.Errorf("DigestInterval = %v, want 24h", cfg.DigestInterval)
	}

	if cfg.TemperatureBase != 0.7 || cfg.TemperatureStep != 0.05 || cfg.TemperatureMax != 0.95 {
		t.Errorf("temperature defaults = %v/%v/%v, want 0.7/0.05/0.95",
			cfg.TemperatureBase, cfg.TemperatureStep, cfg.TemperatureMax)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(testEnvServerID, "42")
	t.Setenv(testEnvMaxRetries, "3")
	t.Setenv(testEnvThreshold, "0.85")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.ServerID != "42" {
		t.Errorf("ServerID = %q, want %q", cfg.ServerID, "42")
	}

	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}

	if cfg.SimilarityThreshold != 0.85 {
		t.Errorf("SimilarityThreshold = %v, want 0.85", cfg.SimilarityThreshold)
	}
}

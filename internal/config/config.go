package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port          string
	OpenAIKey     string
	WhisperModel  string
	SummaryModel  string
	UploadDir     string
	TranscribeURL string
}

// Load loads server configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		WhisperModel:  getEnv("WHISPER_MODEL", "whisper-1"),
		SummaryModel:  getEnv("SUMMARY_MODEL", "gpt-4o-mini"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		TranscribeURL: getEnv("TRANSCRIBE_URL", "http://localhost:8000"),
	}

	// Validate required environment variables
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required. Please set it as environment variable:\n  Linux/Mac: export OPENAI_API_KEY=\"your_key\"\n  Windows PowerShell: $env:OPENAI_API_KEY=\"your_key\"")
	}

	return cfg, nil
}

// LoadClient loads client-side configuration. Nothing is required; the
// endpoint falls back to a local default.
func LoadClient() *Config {
	return &Config{
		TranscribeURL: getEnv("TRANSCRIBE_URL", "http://localhost:8000"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

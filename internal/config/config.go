// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the service.
type Config struct {
	ListenAddr     string   `env:"PULSE_LISTEN_ADDR" envDefault:":8092"`
	DatabasePath   string   `env:"PULSE_DB_PATH" envDefault:"pulse.db"`
	AllowedOrigins []string `env:"PULSE_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Contextual analyzer assets. With an empty model path the service
	// runs on the lexicon analyzer only.
	OrtLibraryPath string `env:"PULSE_ORT_LIBRARY" envDefault:""`
	ModelPath      string `env:"PULSE_MODEL_PATH" envDefault:""`
	TokenizerPath  string `env:"PULSE_TOKENIZER_PATH" envDefault:""`
	MaxSeqLen      int    `env:"PULSE_MAX_SEQ_LEN" envDefault:"512"`

	SentimentBatchSize int `env:"PULSE_SENTIMENT_BATCH" envDefault:"10"`

	LogLevel   string `env:"PULSE_LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"PULSE_LOG_FILE" envDefault:""`
	LogMaxSize int    `env:"PULSE_LOG_MAX_SIZE_MB" envDefault:"20"`
	LogBackups int    `env:"PULSE_LOG_BACKUPS" envDefault:"3"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// UseContextual reports whether the model-backed analyzer can be
// constructed from this configuration.
func (c Config) UseContextual() bool {
	return c.ModelPath != "" && c.TokenizerPath != ""
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8092", cfg.ListenAddr)
	assert.Equal(t, "pulse.db", cfg.DatabasePath)
	assert.Equal(t, 10, cfg.SentimentBatchSize)
	assert.Equal(t, 512, cfg.MaxSeqLen)
	assert.False(t, cfg.UseContextual())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PULSE_LISTEN_ADDR", ":9000")
	t.Setenv("PULSE_MODEL_PATH", "/models/sentiment.onnx")
	t.Setenv("PULSE_TOKENIZER_PATH", "/models/tokenizer.json")
	t.Setenv("PULSE_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.True(t, cfg.UseContextual())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
}

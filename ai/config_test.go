package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.GenerationHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.NotEmpty(t, cfg.GenerationModel)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with host option", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://example.com:8080"))
		cfg.Normalize()
		assert.Equal(t, "http://example.com:8080/v1", cfg.GenerationHost)
		assert.Equal(t, "http://example.com:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("with split hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithGenerationHost("http://gen.local/v1"),
			WithEmbeddingHost("http://embed.local/v1"),
		)
		assert.Equal(t, "http://gen.local/v1", cfg.GenerationHost)
		assert.Equal(t, "http://embed.local/v1", cfg.EmbeddingHost)
	})

	t.Run("with models", func(t *testing.T) {
		cfg := NewConfig(
			WithGenerationModel("gpt-4o-mini"),
			WithEmbeddingModel("text-embedding-3-small"),
		)
		assert.Equal(t, "gpt-4o-mini", cfg.GenerationModel)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	})
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := &Config{GenerationHost: "http://localhost:11434", EmbeddingHost: "http://localhost:11434/"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.GenerationHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("leaves v1 suffix alone", func(t *testing.T) {
		cfg := &Config{GenerationHost: "http://localhost:11434/v1"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.GenerationHost)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing generation host", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GenerationHost = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingModel = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("missing generation model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GenerationModel = ""
		require.Error(t, cfg.Validate())
	})
}

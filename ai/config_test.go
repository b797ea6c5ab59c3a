package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-ada-002", cfg.EmbeddingModel)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.APIKey)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-ada-002", cfg.EmbeddingModel)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://localhost:11434/v1"),
			WithAPIKey("sk-test"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithTimeout(5*time.Second),
		)

		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "adds suffix", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "trims trailing slash", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "keeps existing suffix", host: "https://api.openai.com/v1", want: "https://api.openai.com/v1"},
		{name: "empty stays empty", host: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := NewConfig()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "APIKey")
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("k"), WithEmbeddingHost(""))
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("k"), WithEmbeddingModel(""))
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("k"), WithTimeout(0))
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Timeout")
	})

	t.Run("validate normalizes host", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("k"), WithEmbeddingHost("http://localhost:8080"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	})
}

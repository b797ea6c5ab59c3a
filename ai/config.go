// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the embedding provider.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", or "http://localhost:11434/v1" for a local server
	EmbeddingHost string

	// APIKey authenticates against the embedding service.
	APIKey string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-ada-002", "text-embedding-3-small"
	EmbeddingModel string

	// Timeout bounds a single embedding request.
	// Default: 60s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithAPIKey sets the API key for the embedding service.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config targeting the hosted OpenAI API.
// The API key has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "https://api.openai.com/v1",
		EmbeddingModel: "text-embedding-ada-002",
		Timeout:        60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(key),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which OpenAI-compatible APIs require.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	return nil
}

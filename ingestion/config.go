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

package ingestion

import (
	"errors"
	"time"
)

// Config holds the tunables of an ingestion run.
type Config struct {
	// EmbeddingDimension is the exact vector length every embedding must have.
	// Default: 1536
	EmbeddingDimension int

	// MinChunkLength is the shortest chunk text (in characters) that is kept.
	// Default: 100
	MinChunkLength int

	// DefaultSource labels chunks whose element carries no filename.
	// Default: "LEXORA_SUPPORT_KNOWLEDGE_BASE.md"
	DefaultSource string

	// IDPrefix builds positional document IDs for chunks without an element ID.
	// Default: "support_chunk_"
	IDPrefix string

	// RequestDelay is the minimum spacing between embedding calls. Zero disables throttling.
	// Default: 100ms
	RequestDelay time.Duration

	// RequestTimeout bounds each embedding call.
	// Default: 60s
	RequestTimeout time.Duration

	// ProgressInterval reports embedding progress every N chunks.
	// Default: 10
	ProgressInterval int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingDimension sets the expected embedding dimension.
func WithEmbeddingDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimension = dim
	}
}

// WithMinChunkLength sets the minimum chunk length.
func WithMinChunkLength(n int) ConfigOption {
	return func(c *Config) {
		c.MinChunkLength = n
	}
}

// WithDefaultSource sets the fallback source label.
func WithDefaultSource(source string) ConfigOption {
	return func(c *Config) {
		c.DefaultSource = source
	}
}

// WithIDPrefix sets the prefix of positional document IDs.
func WithIDPrefix(prefix string) ConfigOption {
	return func(c *Config) {
		c.IDPrefix = prefix
	}
}

// WithRequestDelay sets the spacing between embedding calls.
func WithRequestDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestDelay = d
	}
}

// WithRequestTimeout sets the per-call embedding timeout.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// WithProgressInterval sets how often embedding progress is reported.
func WithProgressInterval(n int) ConfigOption {
	return func(c *Config) {
		c.ProgressInterval = n
	}
}

// DefaultConfig returns a Config matching the support knowledge base setup.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingDimension: 1536,
		MinChunkLength:     100,
		DefaultSource:      "LEXORA_SUPPORT_KNOWLEDGE_BASE.md",
		IDPrefix:           "support_chunk_",
		RequestDelay:       100 * time.Millisecond,
		RequestTimeout:     60 * time.Second,
		ProgressInterval:   10,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.EmbeddingDimension <= 0 {
		return errors.New("ingestion config: EmbeddingDimension must be positive")
	}
	if c.MinChunkLength < 0 {
		return errors.New("ingestion config: MinChunkLength cannot be negative")
	}
	if c.IDPrefix == "" {
		return errors.New("ingestion config: IDPrefix is required")
	}
	if c.RequestDelay < 0 {
		return errors.New("ingestion config: RequestDelay cannot be negative")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ingestion config: RequestTimeout must be positive")
	}
	if c.ProgressInterval <= 0 {
		return errors.New("ingestion config: ProgressInterval must be positive")
	}
	return nil
}

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

package mock

import "github.com/betloreilly/AI-powered-Enterprise-Search/ai"

// DefaultModel is the model name reported by MockProvider.
const DefaultModel = "mock-embedding"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	embedder *MockEmbedder
	model    string
	closed   bool
}

// NewMockProvider creates a new mock provider with a default mock embedder.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder() to access the concrete embedder for test assertions.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithEmbedder(NewMockEmbedder())
}

// NewMockProviderWithEmbedder creates a mock provider around a custom mock embedder.
func NewMockProviderWithEmbedder(embedder *MockEmbedder) *MockProvider {
	return &MockProvider{
		embedder: embedder,
		model:    DefaultModel,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the mock model name.
func (p *MockProvider) Model() string {
	return p.model
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

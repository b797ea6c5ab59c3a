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

// Package ai provides abstractions for the AI services used during ingestion.
//
// The only capability the ingestion pipeline needs is "text in, vector out",
// expressed by the Embedder interface. AIProvider groups an Embedder with its
// lifecycle so callers can swap providers without touching pipeline code.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI (or OpenAI-compatible) embeddings through langchaingo
//   - ai/cached: an Embedder decorator backed by an LRU and a persistent cache
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewProvider, cached.NewEmbedder) return
// interface types. Mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "How do I reset my password?")
package ai

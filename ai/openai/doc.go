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

// Package openai provides an ai.AIProvider backed by OpenAI-compatible embedding APIs.
//
// Requests go through the langchaingo OpenAI client, so any service that
// speaks the OpenAI embeddings protocol (OpenAI itself, Azure-style proxies,
// Ollama, LocalAI, vLLM) can be used.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithEmbeddingModel("text-embedding-ada-002"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
package openai

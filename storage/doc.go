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

// Package storage provides the storage abstraction layer for ingestion state.
//
// Two kinds of state outlive a single ingestion run: the ledger of run
// summaries (RunRepository) and previously computed embeddings keyed by
// model and text (EmbeddingCache). This package defines those interfaces and
// their serialization; storage/badger implements them on BadgerDB.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/state", false, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	runs := badger.NewRunRepository(backend)
//	cache := badger.NewEmbeddingCache(backend)
//
// Use in tests with in-memory storage:
//
//	runs, cache, backend, err := badger.NewMemoryStores()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage

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

// Package index defines the search-index side of ingestion.
//
// An Indexer writes a batch of core.IndexDocument values in one call and
// reports which documents the index accepted and which it rejected. Partial
// rejection is a normal outcome described by BulkResult; only a failure of the
// whole call is returned as an error (wrapping ErrBulkFailed).
//
// # Implementations
//
//   - index/opensearch: a remote OpenSearch index through the bulk API
//   - index/bleve: a local Bleve index for offline runs, inspection and tests
package index

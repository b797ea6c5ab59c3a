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

package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ContentKey returns a deterministic key for a piece of text embedded by a model.
// Identical (model, text) pairs always produce the same key.
func ContentKey(model, text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// RawElement is one element returned by the document chunking service.
// Text may be a string or a list of strings; Content is the fallback when Text is empty.
type RawElement struct {
	Text      any            `json:"text,omitempty"`
	Content   any            `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Type      string         `json:"type,omitempty"`
	ElementID string         `json:"element_id,omitempty"`
	Category  string         `json:"category,omitempty"`
}

// SourceMetadata identifies where a chunk came from.
type SourceMetadata struct {
	Source    string `json:"source"`
	ElementID string `json:"element_id"`
	Category  string `json:"category"`
}

// Chunk is a filtered, keyword-annotated unit of document text.
type Chunk struct {
	Text     string
	Keywords []string
	Title    string
	Type     string
	Metadata SourceMetadata
	Position int // Index of the originating RawElement
}

// EnrichedChunk is a Chunk with a validated embedding attached.
type EnrichedChunk struct {
	Chunk
	Vector []float32
}

// IndexDocument is the record written to the search index.
// Content, Text and PageContent always hold the same value: downstream
// retrieval components read different field names for the chunk text.
type IndexDocument struct {
	ID           string         `json:"-"`
	Content      string         `json:"content"`
	Text         string         `json:"text"`
	PageContent  string         `json:"page_content"`
	Keywords     []string       `json:"keywords"`
	KeywordsText string         `json:"keywords_text"`
	Title        string         `json:"title"`
	VectorField  []float32      `json:"vector_field"`
	Metadata     SourceMetadata `json:"metadata"`
	Type         string         `json:"type,omitempty"`
}

// Rejection describes a document the search index refused to store.
type Rejection struct {
	ID     string `json:"id"`
	Status int    `json:"status,omitempty"`
	Type   string `json:"type,omitempty"`
	Reason string `json:"reason"`
}

// RunSummary records the outcome of one ingestion run.
type RunSummary struct {
	RunID             string      `json:"run_id"`
	Source            string      `json:"source"`
	Index             string      `json:"index"`
	StartedAt         time.Time   `json:"started_at"`
	FinishedAt        time.Time   `json:"finished_at"`
	InputCount        int         `json:"input_count"`
	FilteredOut       int         `json:"filtered_out"`
	EmbeddingFailures int         `json:"embedding_failures"`
	Accepted          int         `json:"accepted"`
	Rejected          int         `json:"rejected"`
	Rejections        []Rejection `json:"rejections,omitempty"` // First few rejections only
	Error             string      `json:"error,omitempty"`      // Set when the run aborted
}

// Chunks returns the number of chunks that survived the length filter.
func (s *RunSummary) Chunks() int {
	return s.InputCount - s.FilteredOut
}

// Duration returns how long the run took.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

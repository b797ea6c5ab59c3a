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
	"fmt"
	"math"
)

// ValidateVector checks an embedding against the configured dimension.
//
// Validation rules:
//   - Vector must not be empty
//   - Length must equal dimension
//   - Every component must be finite (no NaN, no +/-Inf)
func ValidateVector(vector []float32, dimension int) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}

	if len(vector) != dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), dimension)
	}

	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrNonFiniteVector, i, v)
		}
	}

	return nil
}

// ValidateIndexDocument validates an IndexDocument before it is sent to an index.
//
// Validation rules:
//   - ID must not be empty
//   - Content must not be empty
//   - Content, Text and PageContent must be identical
//   - VectorField must not be empty
func ValidateIndexDocument(doc *IndexDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidIndexDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndexDocument, ErrEmptyDocumentID)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndexDocument, ErrEmptyContent)
	}

	if doc.Content != doc.Text || doc.Content != doc.PageContent {
		return fmt.Errorf("%w: %w", ErrInvalidIndexDocument, ErrAliasMismatch)
	}

	if len(doc.VectorField) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIndexDocument, ErrEmptyVector)
	}

	return nil
}

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

import "errors"

// Domain validation errors
var (
	// ErrEmptyVector indicates an embedding with no components.
	ErrEmptyVector = errors.New("embedding is empty")

	// ErrDimensionMismatch indicates an embedding whose length differs from the configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNonFiniteVector indicates an embedding containing NaN or infinite values.
	ErrNonFiniteVector = errors.New("embedding contains NaN or Inf values")

	// ErrInvalidIndexDocument indicates an IndexDocument failed validation.
	ErrInvalidIndexDocument = errors.New("invalid index document")

	// ErrEmptyDocumentID indicates an IndexDocument without an identity key.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrAliasMismatch indicates the content aliases of an IndexDocument differ.
	ErrAliasMismatch = errors.New("content, text and page_content must be identical")

	// ErrEmptyContent indicates the document text is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)

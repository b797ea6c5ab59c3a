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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/varint"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// MarshalRunSummary serializes a RunSummary to bytes.
func MarshalRunSummary(run *core.RunSummary) []byte {
	buf := make([]byte, core.RunSummaryMUS.Size(*run))
	core.RunSummaryMUS.Marshal(*run, buf)
	return buf
}

// UnmarshalRunSummary deserializes a RunSummary from bytes.
func UnmarshalRunSummary(data []byte) (*core.RunSummary, error) {
	run, n, err := core.RunSummaryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &run, nil
}

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, core.VectorMUS.Size(vector))
	core.VectorMUS.Marshal(vector, buf)
	return buf
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	// Reject a length prefix the data cannot hold before allocating.
	length, _, err := varint.PositiveInt.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	if length < 0 || length > len(data)/4 {
		return nil, fmt.Errorf("%w: vector of %d values in %d bytes", ErrTruncatedData, length, len(data))
	}
	vector, n, err := core.VectorMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return vector, nil
}

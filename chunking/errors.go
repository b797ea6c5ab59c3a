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

package chunking

import "errors"

var (
	// ErrAPIKeyRequired indicates the chunking service client was built without an API key.
	ErrAPIKeyRequired = errors.New("unstructured API key is required")

	// ErrServiceResponse indicates the chunking service answered with a non-success status.
	ErrServiceResponse = errors.New("chunking service error")

	// ErrDecodeElements indicates an elements payload could not be decoded.
	ErrDecodeElements = errors.New("failed to decode elements")
)

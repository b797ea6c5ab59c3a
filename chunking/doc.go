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

// Package chunking turns source documents into raw elements.
//
// Elements come either from the Unstructured.io partition API (Client), which
// splits a document into title-bounded chunks, or from a JSON file of elements
// saved from an earlier API call (FileSource). ResolveText normalizes the
// text carried by an element regardless of its shape.
package chunking

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

// Package products ingests product catalogs into the product search index.
//
// A run loads one or more JSON catalog files, normalizes each record to the
// unified product schema, drops records that fail the quality filters or
// repeat an earlier ID, embeds the text of every product with the same
// Enricher the support pipeline uses, and writes all products in one bulk
// call. Products whose embedding fails are still indexed, without a text
// vector.
package products

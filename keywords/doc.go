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

// Package keywords extracts frequency-ranked keywords from chunk text.
//
// Extraction lowercases the text, splits it into runs of ASCII letters,
// drops short tokens and common English stop words, and returns the most
// frequent remaining terms. The keyword list feeds the lexical (BM25) side
// of hybrid retrieval through the keywords and keywords_text index fields.
package keywords

// Package ingestion turns chunking-service elements into indexed documents.
//
// A run is a single synchronous pass over one document's elements:
//   - ChunkFilter resolves element text, drops short or empty chunks and
//     extracts keywords, titles and source metadata
//   - Enricher embeds each chunk, one provider call at a time, and drops
//     chunks whose embedding fails or is invalid
//   - Assemble builds the hybrid-search document for each surviving chunk
//   - the configured index.Indexer writes every document in one bulk call
//
// Recoverable problems (bad elements, failed embeddings, rejected documents)
// are logged and counted in the run summary. Only an empty stage, a failed
// bulk call or a cancelled context aborts the run.
package ingestion

package ingestion

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrIndexerRequired is returned when an indexer is not provided.
	ErrIndexerRequired = errors.New("indexer required")

	// ErrNoValidChunks is returned when no element survives the length filter.
	ErrNoValidChunks = errors.New("no valid chunks after filtering")

	// ErrNoEmbeddedChunks is returned when no chunk received a valid embedding.
	ErrNoEmbeddedChunks = errors.New("no chunks with valid embeddings")
)

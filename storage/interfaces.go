package storage

import (
	"context"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// RunRepository persists the summaries of ingestion runs.
// Implementations must be thread-safe and support concurrent access.
type RunRepository interface {
	// SaveRun stores a run summary, replacing any summary with the same RunID.
	SaveRun(ctx context.Context, run *core.RunSummary) error

	// GetRun retrieves a run summary by its ID.
	// Returns ErrNotFound if the run doesn't exist.
	GetRun(ctx context.Context, runID string) (*core.RunSummary, error)

	// ListRuns returns up to limit run summaries, most recently started first.
	ListRuns(ctx context.Context, limit int) ([]*core.RunSummary, error)

	// Close releases resources held by the repository.
	Close() error
}

// EmbeddingCache stores embeddings by content key (see core.ContentKey).
// Implementations must be thread-safe and support concurrent access.
type EmbeddingCache interface {
	// GetEmbedding returns the cached vector for key.
	// Returns ErrNotFound on a cache miss.
	GetEmbedding(ctx context.Context, key string) ([]float32, error)

	// PutEmbedding stores a vector under key.
	PutEmbedding(ctx context.Context, key string, vector []float32) error

	// Close releases resources held by the cache.
	Close() error
}

package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrEmptyEmbedding indicates the service answered without any vector.
var ErrEmptyEmbedding = errors.New("embedding service returned no vectors")

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.EmbeddingModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	// Chunk text is embedded exactly as indexed, newlines included
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(false))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		return nil, ErrEmptyEmbedding
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	return vectors, nil
}

// Package cached provides an ai.Embedder decorator that remembers embeddings.
//
// Lookups go to an in-process LRU first and then to an optional persistent
// storage.EmbeddingCache, so re-ingesting an unchanged document does not pay
// for the same embedding twice. Entries are keyed by core.ContentKey of the
// model name and the exact text.
package cached

import (
	"context"
	"errors"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
)

// DefaultCacheSize is the number of embeddings kept in memory.
// At 1536 dimensions * 4 bytes * 1000 entries, about 6MB.
const DefaultCacheSize = 1000

// Embedder wraps an ai.Embedder with an LRU and an optional persistent store.
type Embedder struct {
	inner  ai.Embedder
	model  string
	memory *lru.Cache[string, []float32]
	store  storage.EmbeddingCache
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a caching embedder. store may be nil for memory-only caching.
// cacheSize <= 0 selects DefaultCacheSize.
func NewEmbedder(inner ai.Embedder, model string, store storage.EmbeddingCache, cacheSize int, logger *slog.Logger) *Embedder {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	memory, _ := lru.New[string, []float32](cacheSize)
	return &Embedder{
		inner:  inner,
		model:  model,
		memory: memory,
		store:  store,
		logger: logger.With("component", "embedding-cache"),
	}
}

// EmbedText returns a cached embedding if available, otherwise computes and caches it.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := core.ContentKey(e.model, text)

	if vec, ok := e.lookup(ctx, key); ok {
		return vec, nil
	}

	vec, err := e.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	e.remember(ctx, key, vec)
	return vec, nil
}

// EmbedTexts embeds multiple texts, sending only cache misses to the inner embedder.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))
	missIndices := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		if vec, ok := e.lookup(ctx, core.ContentKey(e.model, text)); ok {
			results[i] = vec
			continue
		}
		missIndices = append(missIndices, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := e.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, errors.New("embedder returned a different number of vectors than texts")
	}

	for j, idx := range missIndices {
		results[idx] = vectors[j]
		e.remember(ctx, core.ContentKey(e.model, texts[idx]), vectors[j])
	}

	return results, nil
}

// Len returns the number of embeddings held in memory.
func (e *Embedder) Len() int {
	return e.memory.Len()
}

func (e *Embedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	if vec, ok := e.memory.Get(key); ok {
		return vec, true
	}
	if e.store == nil {
		return nil, false
	}

	vec, err := e.store.GetEmbedding(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("embedding cache read failed", "err", err)
		}
		return nil, false
	}

	e.memory.Add(key, vec)
	return vec, true
}

func (e *Embedder) remember(ctx context.Context, key string, vec []float32) {
	// Empty or non-finite vectors are never served from the cache.
	if core.ValidateVector(vec, len(vec)) != nil {
		return
	}
	e.memory.Add(key, vec)
	if e.store == nil {
		return
	}
	if err := e.store.PutEmbedding(ctx, key, vec); err != nil {
		e.logger.Warn("embedding cache write failed", "err", err)
	}
}

// Provider wraps an ai.AIProvider so its Embedder is cached.
type Provider struct {
	inner    ai.AIProvider
	embedder *Embedder
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider creates a provider whose embedder caches through store.
func NewProvider(inner ai.AIProvider, store storage.EmbeddingCache, cacheSize int, logger *slog.Logger) ai.AIProvider {
	return &Provider{
		inner:    inner,
		embedder: NewEmbedder(inner.Embedder(), inner.Model(), store, cacheSize, logger),
	}
}

// Embedder returns the caching embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the inner provider's model.
func (p *Provider) Model() string {
	return p.inner.Model()
}

// Close closes the inner provider.
func (p *Provider) Close() error {
	return p.inner.Close()
}

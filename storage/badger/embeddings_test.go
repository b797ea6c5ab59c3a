package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
)

func TestEmbeddingCache(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	key := core.ContentKey("text-embedding-ada-002", "reset your password")

	t.Run("miss", func(t *testing.T) {
		_, err := cache.GetEmbedding(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		vector := []float32{0.25, -0.5, 1}
		require.NoError(t, cache.PutEmbedding(ctx, key, vector))

		got, err := cache.GetEmbedding(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, vector, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, cache.PutEmbedding(ctx, key, []float32{9}))

		got, err := cache.GetEmbedding(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []float32{9}, got)
	})
}

func TestEmbeddingCache_Closed(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = cache.GetEmbedding(context.Background(), "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, cache.PutEmbedding(context.Background(), "k", []float32{1}), storage.ErrStorageClosed)
}

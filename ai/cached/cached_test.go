package cached

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai/mock"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage/badger"
)

func TestEmbedder_MemoryOnly(t *testing.T) {
	inner := mock.NewMockEmbedder(mock.WithDimension(4))
	e := NewEmbedder(inner, "model", nil, 10, nil)
	ctx := context.Background()

	first, err := e.EmbedText(ctx, "reset password")
	require.NoError(t, err)
	second, err := e.EmbedText(ctx, "reset password")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.CallCount())
	assert.Equal(t, 1, e.Len())
}

func TestEmbedder_PersistentStore(t *testing.T) {
	_, store, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	inner := mock.NewMockEmbedder(mock.WithDimension(4))
	first := NewEmbedder(inner, "model", store, 10, nil)
	want, err := first.EmbedText(ctx, "reset password")
	require.NoError(t, err)

	// A fresh embedder with an empty LRU hits the persistent store
	other := mock.NewMockEmbedder(mock.WithDimension(4))
	second := NewEmbedder(other, "model", store, 10, nil)
	got, err := second.EmbedText(ctx, "reset password")
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 0, other.CallCount())
}

func TestEmbedder_ModelIsPartOfKey(t *testing.T) {
	_, store, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = NewEmbedder(mock.NewMockEmbedder(), "model-a", store, 10, nil).EmbedText(ctx, "text")
	require.NoError(t, err)

	inner := mock.NewMockEmbedder()
	_, err = NewEmbedder(inner, "model-b", store, 10, nil).EmbedText(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.CallCount())
}

func TestEmbedder_ErrorsNotCached(t *testing.T) {
	inner := mock.NewMockEmbedder(mock.WithDimension(4))
	inner.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("rate limited")
	}
	e := NewEmbedder(inner, "model", nil, 10, nil)

	_, err := e.EmbedText(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, 0, e.Len())

	inner.EmbedTextFunc = nil
	vec, err := e.EmbedText(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
	assert.Equal(t, 2, inner.CallCount())
}

func TestEmbedder_NonFiniteNotCached(t *testing.T) {
	inner := mock.NewMockEmbedder()
	inner.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, float32(math.NaN())}, nil
	}
	e := NewEmbedder(inner, "model", nil, 10, nil)

	for range 2 {
		vec, err := e.EmbedText(context.Background(), "text")
		require.NoError(t, err)
		assert.Len(t, vec, 2)
	}
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 2, inner.CallCount())
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	inner := mock.NewMockEmbedder(mock.WithDimension(4))
	e := NewEmbedder(inner, "model", nil, 10, nil)
	ctx := context.Background()

	_, err := e.EmbedText(ctx, "b")
	require.NoError(t, err)
	inner.Reset()

	vectors, err := e.EmbedTexts(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 4)
	}

	// Only the misses reach the inner embedder
	assert.Equal(t, []string{"a", "c"}, inner.Texts())

	empty, err := e.EmbedTexts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProvider(t *testing.T) {
	inner := mock.NewMockProviderWithEmbedder(mock.NewMockEmbedder(mock.WithDimension(4)))
	p := NewProvider(inner, nil, 0, nil)

	assert.Equal(t, mock.DefaultModel, p.Model())

	ctx := context.Background()
	_, err := p.Embedder().EmbedText(ctx, "x")
	require.NoError(t, err)
	_, err = p.Embedder().EmbedText(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.GetMockEmbedder().CallCount())

	require.NoError(t, p.Close())
	assert.True(t, inner.Closed())
}

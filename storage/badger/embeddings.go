package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
)

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
type EmbeddingCache struct {
	backend *Backend
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache creates a new EmbeddingCache.
func NewEmbeddingCache(backend *Backend) *EmbeddingCache {
	return &EmbeddingCache{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (c *EmbeddingCache) Close() error {
	return nil
}

// GetEmbedding returns the cached vector for key or storage.ErrNotFound.
func (c *EmbeddingCache) GetEmbedding(ctx context.Context, key string) ([]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var vector []float32
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vector, unmarshalErr = storage.UnmarshalVector(val)
			return unmarshalErr
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return vector, nil
}

// PutEmbedding stores vector under key.
func (c *EmbeddingCache) PutEmbedding(ctx context.Context, key string, vector []float32) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEmbeddingKey(key), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

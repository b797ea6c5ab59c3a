package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend *Backend
}

var _ storage.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository.
func NewRunRepository(backend *Backend) *RunRepository {
	return &RunRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *RunRepository) Close() error {
	return nil
}

// SaveRun stores a run summary and indexes it by start time.
func (r *RunRepository) SaveRun(ctx context.Context, run *core.RunSummary) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidQuery
	}

	value := storage.MarshalRunSummary(run)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(run.RunID)

		// Drop the old start-time index entry if the run is being replaced
		old, err := readRun(tx, key)
		if err != nil {
			return err
		}
		if old != nil && !old.StartedAt.Equal(run.StartedAt) {
			if err := tx.Delete(makeRunStartedKey(old.StartedAt, old.RunID)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, value); err != nil {
			return err
		}
		if err := tx.Set(makeRunStartedKey(run.StartedAt, run.RunID), nil); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRun retrieves a run summary by ID.
func (r *RunRepository) GetRun(ctx context.Context, runID string) (*core.RunSummary, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var run *core.RunSummary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		run, err = readRun(tx, makeRunKey(runID))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, storage.ErrNotFound
	}
	return run, nil
}

// ListRuns returns up to limit runs, most recently started first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*core.RunSummary, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var runs []*core.RunSummary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runStartedPrefix)
		opts.Reverse = true
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the last possible key under the prefix
		seek := append([]byte(runStartedPrefix), 0xFF)
		for iter.Seek(seek); iter.Valid() && len(runs) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			runID := runIDFromStartedKey(iter.Item().KeyCopy(nil))
			run, err := readRun(tx, makeRunKey(runID))
			if err != nil {
				return err
			}
			if run != nil {
				runs = append(runs, run)
			}
		}
		return nil
	}, false)

	return runs, err
}

// readRun reads a run summary; returns nil, nil when the key is absent.
func readRun(tx *badger.Txn, key []byte) (*core.RunSummary, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var run *core.RunSummary
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		run, unmarshalErr = storage.UnmarshalRunSummary(val)
		return unmarshalErr
	})
	return run, err
}

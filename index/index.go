package index

import (
	"context"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// MaxReportedFailures is how many rejections a run summary carries.
const MaxReportedFailures = 5

// Indexer writes documents to a search index.
type Indexer interface {
	// Name returns the target index name.
	Name() string

	// Exists reports whether the target index exists and is reachable.
	Exists(ctx context.Context) (bool, error)

	// BulkIndex writes docs in a single batched call, keyed by IndexDocument.ID.
	// Per-document rejections are reported in the result. An error means the
	// call as a whole failed and wraps ErrBulkFailed.
	BulkIndex(ctx context.Context, docs []core.IndexDocument) (*BulkResult, error)

	// Close releases resources held by the indexer.
	Close() error
}

// Source is a document of arbitrary shape, written under ID as its JSON encoding.
type Source struct {
	ID   string
	Body any
}

// SourceIndexer is an Indexer that also writes documents outside the support chunk schema.
type SourceIndexer interface {
	Indexer

	// BulkIndexSources writes docs in a single batched call, keyed by Source.ID,
	// with the same result and error contract as BulkIndex.
	BulkIndexSources(ctx context.Context, docs []Source) (*BulkResult, error)
}

// BulkResult is the outcome of one bulk call.
type BulkResult struct {
	Accepted int
	Rejected int
	Failures []core.Rejection // In response order
}

// Reject records a rejected document.
func (r *BulkResult) Reject(rej core.Rejection) {
	r.Rejected++
	r.Failures = append(r.Failures, rej)
}

// Sample returns at most n failures, in response order.
func (r *BulkResult) Sample(n int) []core.Rejection {
	if n <= 0 || len(r.Failures) == 0 {
		return nil
	}
	if len(r.Failures) < n {
		n = len(r.Failures)
	}
	return append([]core.Rejection(nil), r.Failures[:n]...)
}

package ingestion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
)

// textOfLength returns readable text of exactly n runes.
func textOfLength(n int) string {
	base := "billing dashboard exports invoices for every workspace owner "
	s := strings.Repeat(base, n/len(base)+1)
	s = s[:n]
	if strings.HasSuffix(s, " ") {
		s = s[:n-1] + "s"
	}
	return s
}

// sectionText returns distinct text of at least 120 runes for element i.
func sectionText(i int) string {
	return fmt.Sprintf("Section %d: Lexora workspaces sync calendars every fifteen minutes. "+
		"Admins can force a refresh from the integrations page when events look stale.", i)
}

func testConfig() *Config {
	return NewConfig(
		WithEmbeddingDimension(8),
		WithRequestDelay(0),
		WithMinChunkLength(100),
	)
}

// fakeIndexer records bulk calls and rejects the IDs listed in reject.
type fakeIndexer struct {
	mu      sync.Mutex
	name    string
	reject  map[string]string
	bulkErr error
	calls   int
	docs    []core.IndexDocument
}

func newFakeIndexer(name string) *fakeIndexer {
	return &fakeIndexer{name: name, reject: map[string]string{}}
}

func (f *fakeIndexer) Name() string { return f.name }

func (f *fakeIndexer) Exists(ctx context.Context) (bool, error) { return true, nil }

func (f *fakeIndexer) BulkIndex(ctx context.Context, docs []core.IndexDocument) (*index.BulkResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}

	result := &index.BulkResult{}
	for _, doc := range docs {
		if reason, ok := f.reject[doc.ID]; ok {
			result.Reject(core.Rejection{ID: doc.ID, Status: 400, Type: "mapper_parsing_exception", Reason: reason})
			continue
		}
		result.Accepted++
		f.docs = append(f.docs, doc)
	}
	return result, nil
}

func (f *fakeIndexer) Close() error { return nil }

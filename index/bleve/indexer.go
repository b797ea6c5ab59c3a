// Package bleve implements index.SourceIndexer on a local Bleve index.
//
// The support mapping mirrors the hybrid-search document: analyzed text fields
// for content, its aliases, title and keywords_text; keyword terms for
// keywords, type and metadata; the vector stored but not indexed. The product
// mapping analyzes name, description, semantic_description and category, and
// keeps identifiers, brand and image URLs as terms. Search runs BM25 over the
// text fields so locally ingested documents can be inspected.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
)

// Indexer writes documents to a Bleve index on disk or in memory.
type Indexer struct {
	mu     sync.RWMutex
	idx    bleve.Index
	name   string
	path   string
	closed bool
	fields searchFields
	logger *slog.Logger
}

var _ index.SourceIndexer = (*Indexer)(nil)

// searchFields names the fields Search queries and the stored fields it returns.
type searchFields struct {
	query   []string
	title   string
	content string
}

var (
	supportFields = searchFields{query: []string{"content", "keywords_text", "title"}, title: "title", content: "content"}
	productFields = searchFields{query: []string{"name", "description", "semantic_description", "category", "brand"}, title: "name", content: "description"}
)

// Hit is one search result.
type Hit struct {
	ID      string
	Score   float64
	Title   string
	Content string
}

// NewIndexer opens the support chunk index at path, creating it if needed.
// An empty path creates an in-memory index. name labels the index in logs and summaries.
func NewIndexer(path, name string, logger *slog.Logger) (*Indexer, error) {
	return openIndexer(path, name, createIndexMapping(), supportFields, logger)
}

// NewProductIndexer opens the product catalog index at path, creating it if needed.
func NewProductIndexer(path, name string, logger *slog.Logger) (*Indexer, error) {
	return openIndexer(path, name, createProductMapping(), productFields, logger)
}

func openIndexer(path, name string, indexMapping *mapping.IndexMappingImpl, fields searchFields, logger *slog.Logger) (*Indexer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		idx, err = bleve.Open(path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create/open index: %w", err)
	}

	return &Indexer{
		idx:    idx,
		name:   name,
		path:   path,
		fields: fields,
		logger: logger.With("component", "bleve", "index", name),
	}, nil
}

// createIndexMapping builds the document mapping for IndexDocument sources.
func createIndexMapping() *mapping.IndexMappingImpl {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = en.AnalyzerName

	storedText := bleve.NewTextFieldMapping()
	storedText.Analyzer = en.AnalyzerName
	storedText.Store = true

	term := bleve.NewKeywordFieldMapping()

	meta := bleve.NewDocumentMapping()
	meta.AddFieldMappingsAt("source", term)
	meta.AddFieldMappingsAt("element_id", term)
	meta.AddFieldMappingsAt("category", term)

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("content", storedText)
	doc.AddFieldMappingsAt("text", text)
	doc.AddFieldMappingsAt("page_content", text)
	doc.AddFieldMappingsAt("title", storedText)
	doc.AddFieldMappingsAt("keywords_text", text)
	doc.AddFieldMappingsAt("keywords", term)
	doc.AddFieldMappingsAt("type", term)
	doc.AddSubDocumentMapping("metadata", meta)
	doc.AddSubDocumentMapping("vector_field", bleve.NewDocumentDisabledMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = doc
	indexMapping.DefaultAnalyzer = keyword.Name
	return indexMapping
}

// createProductMapping builds the document mapping for product sources.
func createProductMapping() *mapping.IndexMappingImpl {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = en.AnalyzerName

	storedText := bleve.NewTextFieldMapping()
	storedText.Analyzer = en.AnalyzerName
	storedText.Store = true

	term := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", storedText)
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", storedText)
	doc.AddFieldMappingsAt("semantic_description", text)
	doc.AddFieldMappingsAt("category", text)
	doc.AddFieldMappingsAt("brand", term)
	doc.AddFieldMappingsAt("id", term)
	doc.AddFieldMappingsAt("product_id", term)
	doc.AddFieldMappingsAt("image_url", term)
	doc.AddFieldMappingsAt("product_images_urls", term)
	doc.AddSubDocumentMapping("text_embedding_vector", bleve.NewDocumentDisabledMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = doc
	indexMapping.DefaultAnalyzer = keyword.Name
	return indexMapping
}

// Name returns the index label.
func (x *Indexer) Name() string {
	return x.name
}

// Exists reports whether the index is open.
func (x *Indexer) Exists(ctx context.Context) (bool, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return !x.closed, nil
}

// BulkIndex writes docs in one batch. Documents Bleve cannot map are rejected individually.
func (x *Indexer) BulkIndex(ctx context.Context, docs []core.IndexDocument) (*index.BulkResult, error) {
	sources := make([]index.Source, len(docs))
	for i := range docs {
		sources[i] = index.Source{ID: docs[i].ID, Body: toSource(&docs[i])}
	}
	return x.BulkIndexSources(ctx, sources)
}

// BulkIndexSources writes docs in one batch. Bodies should be field maps or
// structs; documents Bleve cannot map are rejected individually.
func (x *Indexer) BulkIndexSources(ctx context.Context, docs []index.Source) (*index.BulkResult, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil, fmt.Errorf("%w: %w", index.ErrBulkFailed, index.ErrIndexClosed)
	}

	result := &index.BulkResult{}
	if len(docs) == 0 {
		return result, nil
	}

	batch := x.idx.NewBatch()
	for _, doc := range docs {
		if doc.ID == "" {
			result.Reject(core.Rejection{Reason: core.ErrEmptyDocumentID.Error()})
			continue
		}
		if err := batch.Index(doc.ID, doc.Body); err != nil {
			result.Reject(core.Rejection{ID: doc.ID, Reason: err.Error()})
			continue
		}
		result.Accepted++
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrBulkFailed, err)
	}
	if err := x.idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrBulkFailed, err)
	}

	x.logger.Info("bulk indexing complete", "accepted", result.Accepted, "rejected", result.Rejected)
	return result, nil
}

// toSource converts a document to the field map Bleve indexes.
func toSource(doc *core.IndexDocument) map[string]any {
	src := map[string]any{
		"content":       doc.Content,
		"text":          doc.Text,
		"page_content":  doc.PageContent,
		"keywords":      doc.Keywords,
		"keywords_text": doc.KeywordsText,
		"title":         doc.Title,
		"vector_field":  doc.VectorField,
		"metadata": map[string]any{
			"source":     doc.Metadata.Source,
			"element_id": doc.Metadata.ElementID,
			"category":   doc.Metadata.Category,
		},
	}
	if doc.Type != "" {
		src["type"] = doc.Type
	}
	return src
}

// Search returns documents matching q, scored by BM25 over the index's text fields.
func (x *Indexer) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return nil, index.ErrIndexClosed
	}
	if strings.TrimSpace(q) == "" || limit <= 0 {
		return []Hit{}, nil
	}

	queries := make([]query.Query, 0, len(x.fields.query))
	for _, field := range x.fields.query {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(field)
		queries = append(queries, mq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, 0, false)
	req.Fields = []string{x.fields.title, x.fields.content}

	res, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if title, ok := h.Fields[x.fields.title].(string); ok {
			hit.Title = title
		}
		if content, ok := h.Fields[x.fields.content].(string); ok {
			hit.Content = content
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of indexed documents.
func (x *Indexer) Count() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return 0, index.ErrIndexClosed
	}
	return x.idx.DocCount()
}

// Close closes the index.
func (x *Indexer) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil
	}
	x.closed = true
	return x.idx.Close()
}

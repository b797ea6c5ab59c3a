package bleve

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
)

func doc(id, title, text string, keywords ...string) core.IndexDocument {
	if keywords == nil {
		keywords = []string{}
	}
	kwText := ""
	for i, k := range keywords {
		if i > 0 {
			kwText += " "
		}
		kwText += k
	}
	return core.IndexDocument{
		ID:           id,
		Content:      text,
		Text:         text,
		PageContent:  text,
		Keywords:     keywords,
		KeywordsText: kwText,
		Title:        title,
		VectorField:  []float32{0.1, 0.2, 0.3},
		Metadata:     core.SourceMetadata{Source: "kb.md", ElementID: id},
		Type:         "CompositeElement",
	}
}

func TestIndexer_BulkIndexAndSearch(t *testing.T) {
	x, err := NewIndexer("", "lexora_support", nil)
	require.NoError(t, err)
	defer x.Close()

	ctx := context.Background()
	docs := []core.IndexDocument{
		doc("e1", "Password reset", "To reset your password open the account settings page.", "password", "reset", "account"),
		doc("e2", "Billing", "Invoices are emailed at the start of each billing cycle.", "invoices", "billing"),
		doc("e3", "Two-factor authentication", "Enable two-factor authentication from the security tab.", "authentication", "security"),
	}

	result, err := x.BulkIndex(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Accepted)
	assert.Zero(t, result.Rejected)

	count, err := x.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	hits, err := x.Search(ctx, "password", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "e1", hits[0].ID)
	assert.Equal(t, "Password reset", hits[0].Title)
	assert.Contains(t, hits[0].Content, "account settings")

	hits, err = x.Search(ctx, "invoices", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "e2", hits[0].ID)
}

func TestIndexer_SameIDOverwrites(t *testing.T) {
	x, err := NewIndexer("", "lexora_support", nil)
	require.NoError(t, err)
	defer x.Close()

	ctx := context.Background()
	_, err = x.BulkIndex(ctx, []core.IndexDocument{doc("e1", "Old", "old text about routers")})
	require.NoError(t, err)
	_, err = x.BulkIndex(ctx, []core.IndexDocument{doc("e1", "New", "new text about modems")})
	require.NoError(t, err)

	count, err := x.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := x.Search(ctx, "modems", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "New", hits[0].Title)
}

func TestIndexer_RejectsEmptyID(t *testing.T) {
	x, err := NewIndexer("", "lexora_support", nil)
	require.NoError(t, err)
	defer x.Close()

	docs := []core.IndexDocument{doc("e1", "A", "first text"), doc("", "B", "second text")}
	result, err := x.BulkIndex(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, core.ErrEmptyDocumentID.Error(), result.Failures[0].Reason)
}

func TestIndexer_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexes", "support.bleve")
	ctx := context.Background()

	x, err := NewIndexer(path, "support", nil)
	require.NoError(t, err)

	docs := make([]core.IndexDocument, 4)
	for i := range docs {
		docs[i] = doc(fmt.Sprintf("support_chunk_%d", i), "Router", fmt.Sprintf("router setup step %d", i))
	}
	_, err = x.BulkIndex(ctx, docs)
	require.NoError(t, err)
	require.NoError(t, x.Close())

	reopened, err := NewIndexer(path, "support", nil)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestIndexer_Closed(t *testing.T) {
	x, err := NewIndexer("", "lexora_support", nil)
	require.NoError(t, err)

	ok, err := x.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, x.Close())
	require.NoError(t, x.Close())

	ok, err = x.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = x.BulkIndex(context.Background(), []core.IndexDocument{doc("e1", "A", "text")})
	assert.ErrorIs(t, err, index.ErrBulkFailed)
	assert.ErrorIs(t, err, index.ErrIndexClosed)

	_, err = x.Search(context.Background(), "text", 5)
	assert.ErrorIs(t, err, index.ErrIndexClosed)
}

func TestIndexer_SearchEdgeCases(t *testing.T) {
	x, err := NewIndexer("", "lexora_support", nil)
	require.NoError(t, err)
	defer x.Close()

	hits, err := x.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = x.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestProductIndexer_BulkIndexSourcesAndSearch(t *testing.T) {
	x, err := NewProductIndexer("", "lexora_products", nil)
	require.NoError(t, err)
	defer x.Close()

	ctx := context.Background()
	docs := []index.Source{
		{ID: "sku-1", Body: map[string]any{
			"id":                    "sku-1",
			"name":                  "Summit rain shell",
			"description":           "A waterproof shell jacket with taped seams for alpine weather.",
			"category":              "Outerwear",
			"brand":                 "Northwind",
			"price":                 189.0,
			"text_embedding_vector": []float32{0.1, 0.2},
		}},
		{ID: "sku-2", Body: map[string]any{
			"id":          "sku-2",
			"name":        "Trail runner",
			"description": "Lightweight running shoes with a grippy outsole for muddy trails.",
			"category":    "Footwear",
			"brand":       "Northwind",
		}},
		{ID: "", Body: map[string]any{"name": "no id"}},
	}

	result, err := x.BulkIndexSources(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 1, result.Rejected)

	hits, err := x.Search(ctx, "waterproof jacket", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "sku-1", hits[0].ID)
	assert.Equal(t, "Summit rain shell", hits[0].Title)
	assert.Contains(t, hits[0].Content, "taped seams")

	hits, err = x.Search(ctx, "footwear", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "sku-2", hits[0].ID)
}

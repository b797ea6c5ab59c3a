package ingestion

import (
	"strconv"
	"strings"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// Assemble builds the index document for the i-th embedded chunk.
//
// The chunk text is written to content, text and page_content. The document
// ID is the element ID when present, otherwise idPrefix followed by i.
func Assemble(chunk core.EnrichedChunk, i int, idPrefix string) core.IndexDocument {
	id := chunk.Metadata.ElementID
	if id == "" {
		id = idPrefix + strconv.Itoa(i)
	}

	kw := make([]string, len(chunk.Keywords))
	copy(kw, chunk.Keywords)

	return core.IndexDocument{
		ID:           id,
		Content:      chunk.Text,
		Text:         chunk.Text,
		PageContent:  chunk.Text,
		Keywords:     kw,
		KeywordsText: strings.Join(kw, " "),
		Title:        chunk.Title,
		VectorField:  chunk.Vector,
		Metadata:     chunk.Metadata,
		Type:         chunk.Type,
	}
}

// AssembleAll builds index documents for chunks, numbering positional IDs by slice index.
//
// IDs are unique within the result. A positional ID never reuses an element ID
// from the batch, and a repeated ID gets the first free "_<n>" suffix, so no
// document silently overwrites another in the index.
func AssembleAll(chunks []core.EnrichedChunk, idPrefix string) []core.IndexDocument {
	reserved := make(map[string]bool, len(chunks))
	for _, chunk := range chunks {
		if id := chunk.Metadata.ElementID; id != "" {
			reserved[id] = true
		}
	}

	used := make(map[string]bool, len(chunks))
	docs := make([]core.IndexDocument, len(chunks))
	for i, chunk := range chunks {
		doc := Assemble(chunk, i, idPrefix)
		positional := chunk.Metadata.ElementID == ""
		if used[doc.ID] || (positional && reserved[doc.ID]) {
			doc.ID = freeID(doc.ID, reserved, used)
		}
		used[doc.ID] = true
		docs[i] = doc
	}
	return docs
}

func freeID(base string, reserved, used map[string]bool) string {
	for n := 1; ; n++ {
		id := base + "_" + strconv.Itoa(n)
		if !reserved[id] && !used[id] {
			return id
		}
	}
}

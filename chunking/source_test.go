package chunking

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleElements = `[
  {"type": "Title", "element_id": "e1", "text": "Password reset", "metadata": {"filename": "kb.md"}},
  {"type": "NarrativeText", "element_id": "e2", "text": ["Go to", "settings"], "category": "guide"},
  {"content": "Only content here"}
]`

func TestDecodeElements(t *testing.T) {
	elements, err := DecodeElements(strings.NewReader(sampleElements))
	require.NoError(t, err)
	require.Len(t, elements, 3)

	assert.Equal(t, "Title", elements[0].Type)
	assert.Equal(t, "e1", elements[0].ElementID)
	assert.Equal(t, "kb.md", elements[0].Metadata["filename"])
	assert.Equal(t, "Go to settings", ResolveText(elements[1]))
	assert.Equal(t, "guide", elements[1].Category)
	assert.Equal(t, "Only content here", ResolveText(elements[2]))
}

func TestDecodeElements_Invalid(t *testing.T) {
	_, err := DecodeElements(strings.NewReader(`{"not": "an array"}`))
	assert.ErrorIs(t, err, ErrDecodeElements)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elements.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleElements), 0o644))

	src := NewFileSource()

	t.Run("reads elements", func(t *testing.T) {
		elements, err := src.Elements(context.Background(), path)
		require.NoError(t, err)
		assert.Len(t, elements, 3)
	})

	t.Run("does not name the document", func(t *testing.T) {
		assert.Empty(t, src.Document(path))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := src.Elements(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := src.Elements(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

package chunking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// Source produces the raw elements of a document.
type Source interface {
	Elements(ctx context.Context, path string) ([]core.RawElement, error)

	// Document returns the document label for path, or "" when path does not name the document.
	Document(path string) string
}

// DecodeElements decodes a JSON array of elements as returned by the chunking service.
func DecodeElements(r io.Reader) ([]core.RawElement, error) {
	var elements []core.RawElement
	if err := json.NewDecoder(r).Decode(&elements); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeElements, err)
	}
	return elements, nil
}

// FileSource reads elements previously saved from the chunking service.
// The path given to Elements is the elements JSON file itself.
type FileSource struct{}

// NewFileSource creates a FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Document returns "": an elements file does not name the document it was chunked from.
func (s *FileSource) Document(path string) string {
	return ""
}

// Elements reads and decodes the elements file at path.
func (s *FileSource) Elements(ctx context.Context, path string) ([]core.RawElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open elements file: %w", err)
	}
	defer f.Close()

	elements, err := DecodeElements(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return elements, nil
}

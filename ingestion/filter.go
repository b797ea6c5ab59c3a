package ingestion

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/betloreilly/AI-powered-Enterprise-Search/chunking"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/keywords"
)

const (
	// Longest first line still accepted as a title
	maxTitleLength = 100

	// Characters of skipped text shown in logs
	skipPreviewLength = 50

	unknownType = "unknown"
)

// ChunkFilter converts raw elements into chunks, dropping short or empty ones.
type ChunkFilter struct {
	minLength     int
	defaultSource string
	logger        *slog.Logger
}

// NewChunkFilter creates a filter keeping chunks of at least minLength characters.
// defaultSource labels chunks whose element metadata has no filename.
func NewChunkFilter(minLength int, defaultSource string, logger *slog.Logger) *ChunkFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkFilter{
		minLength:     minLength,
		defaultSource: defaultSource,
		logger:        logger.With("stage", "filter"),
	}
}

// Filter returns the kept chunks in input order and the number of skipped elements.
func (f *ChunkFilter) Filter(elements []core.RawElement) ([]core.Chunk, int) {
	chunks := make([]core.Chunk, 0, len(elements))
	skipped := 0

	for i, el := range elements {
		text := chunking.ResolveText(el)
		length := utf8.RuneCountInString(text)

		if text == "" || length < f.minLength {
			skipped++
			f.logger.Info("skipped chunk", "position", i, "length", length, "preview", preview(text, skipPreviewLength))
			continue
		}

		chunks = append(chunks, core.Chunk{
			Text:     text,
			Keywords: keywords.Extract(text),
			Title:    chooseTitle(el.Metadata, text),
			Type:     chooseType(el.Type),
			Metadata: core.SourceMetadata{
				Source:    f.chooseSource(el.Metadata),
				ElementID: el.ElementID,
				Category:  el.Category,
			},
			Position: i,
		})
	}

	f.logger.Info("filtered elements", "elements", len(elements), "chunks", len(chunks), "skipped", skipped)
	return chunks, skipped
}

func (f *ChunkFilter) chooseSource(metadata map[string]any) string {
	if filename := metadataString(metadata, "filename"); filename != "" {
		return filename
	}
	return f.defaultSource
}

// chooseTitle prefers metadata title, then filename, then a short first line.
func chooseTitle(metadata map[string]any, text string) string {
	if title := metadataString(metadata, "title"); title != "" {
		return title
	}
	if filename := metadataString(metadata, "filename"); filename != "" {
		return filename
	}

	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimSpace(firstLine)
	if utf8.RuneCountInString(firstLine) < maxTitleLength {
		return firstLine
	}
	return ""
}

func chooseType(t string) string {
	if t == "" {
		return unknownType
	}
	return t
}

func metadataString(metadata map[string]any, key string) string {
	switch v := metadata[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// preview returns at most n characters of s.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

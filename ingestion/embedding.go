package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

// Characters of chunk text carried by a Warning
const warningPreviewLength = 100

// Warning describes a chunk dropped during embedding.
type Warning struct {
	Position  int // Index of the originating element
	ElementID string
	Preview   string
	Err       error
}

func (w Warning) String() string {
	return fmt.Sprintf("element %d (%s): %v", w.Position, w.ElementID, w.Err)
}

// Enricher attaches validated embeddings to chunks.
type Enricher struct {
	embedder  ai.Embedder
	dimension int
	limiter   *rate.Limiter
	timeout   time.Duration
	interval  int
	progress  io.Writer
	logger    *slog.Logger
}

// NewEnricher creates an Enricher from cfg. progress, when non-nil, receives a
// running progress line. A nil logger means slog.Default().
func NewEnricher(embedder ai.Embedder, cfg *Config, progress io.Writer, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.ProgressInterval
	if interval < 1 {
		interval = 1
	}

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Enricher{
		embedder:  embedder,
		dimension: cfg.EmbeddingDimension,
		limiter:   rate.NewLimiter(limit, 1),
		timeout:   cfg.RequestTimeout,
		interval:  interval,
		progress:  progress,
		logger:    logger.With("stage", "embeddings"),
	}
}

// Enrich embeds each chunk in order, one provider call per chunk.
//
// Chunks whose call fails, times out, or returns a vector of the wrong
// length or with non-finite values are dropped and reported as warnings.
// Survivors keep their relative order. The error is non-nil only when ctx
// is cancelled, in which case the chunks embedded so far are returned too.
func (e *Enricher) Enrich(ctx context.Context, chunks []core.Chunk) ([]core.EnrichedChunk, []Warning, error) {
	e.logger.Info("generating embeddings", "chunks", len(chunks))

	enriched := make([]core.EnrichedChunk, 0, len(chunks))
	var warnings []Warning

	var tracker *ProgressTracker
	if e.progress != nil {
		tracker = NewProgressTracker(e.progress, len(chunks), e.interval)
		tracker.Start()
	}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return enriched, warnings, err
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return enriched, warnings, fmt.Errorf("embedding aborted: %w", err)
		}

		vector, err := e.embed(ctx, chunk.Text)
		if err != nil && ctx.Err() != nil {
			return enriched, warnings, ctx.Err()
		}
		if err == nil {
			err = core.ValidateVector(vector, e.dimension)
		}

		if err != nil {
			w := Warning{
				Position:  chunk.Position,
				ElementID: chunk.Metadata.ElementID,
				Preview:   preview(chunk.Text, warningPreviewLength),
				Err:       err,
			}
			warnings = append(warnings, w)
			e.logger.Warn("dropped chunk", "position", w.Position, "element_id", w.ElementID, "preview", w.Preview, "err", err)
		} else {
			enriched = append(enriched, core.EnrichedChunk{Chunk: chunk, Vector: vector})
		}

		if (i+1)%e.interval == 0 {
			e.logger.Info("embedding progress", "processed", i+1, "total", len(chunks))
		}
		if tracker != nil {
			tracker.Update(i + 1)
		}
	}

	if tracker != nil {
		tracker.Finish()
	}

	e.logger.Info("embeddings complete", "embedded", len(enriched), "dropped", len(warnings))
	return enriched, warnings, nil
}

func (e *Enricher) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.embedder.EmbedText(ctx, text)
}

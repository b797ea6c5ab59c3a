package products

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
	"github.com/betloreilly/AI-powered-Enterprise-Search/ingestion"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
)

// Ingester loads, embeds and indexes product catalogs.
type Ingester struct {
	provider       ai.AIProvider
	indexer        index.SourceIndexer
	config         *ingestion.Config
	minDescription int
	mergedOutput   string
	runs           storage.RunRepository
	progress       io.Writer
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures an Ingester.
type Option func(*Ingester) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Ingester) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithRunRepository records every run summary in repo.
func WithRunRepository(repo storage.RunRepository) Option {
	return func(g *Ingester) error {
		g.runs = repo
		return nil
	}
}

// WithProgress writes a running embedding progress line to w.
func WithProgress(w io.Writer) Option {
	return func(g *Ingester) error {
		g.progress = w
		return nil
	}
}

// WithMinDescriptionLength sets the shortest accepted description, in characters.
// Default is DefaultMinDescriptionLength.
func WithMinDescriptionLength(n int) Option {
	return func(g *Ingester) error {
		if n < 0 {
			return fmt.Errorf("minimum description length cannot be negative")
		}
		g.minDescription = n
		return nil
	}
}

// WithMergedOutput writes the normalized catalog to path before embedding.
func WithMergedOutput(path string) Option {
	return func(g *Ingester) error {
		g.mergedOutput = path
		return nil
	}
}

// WithClock sets the time source for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(g *Ingester) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		g.now = now
		return nil
	}
}

// NewIngester creates an Ingester. cfg supplies the embedding dimension,
// throttle, timeout and progress settings; nil means ingestion.DefaultConfig().
func NewIngester(provider ai.AIProvider, indexer index.SourceIndexer, cfg *ingestion.Config, opts ...Option) (*Ingester, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if cfg == nil {
		cfg = ingestion.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Ingester{
		provider:       provider,
		indexer:        indexer,
		config:         cfg,
		minDescription: DefaultMinDescriptionLength,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.logger = g.logger.With("component", "products")
	return g, nil
}

// Run ingests the catalogs at files into the product index.
//
// The summary counts loaded records as input, normalization and duplicate
// drops as filtered out, and failed embeddings separately; products with a
// failed embedding are indexed without a vector. The summary is always
// returned, even when err is non-nil.
func (g *Ingester) Run(ctx context.Context, files []string) (*core.RunSummary, error) {
	summary := &core.RunSummary{
		RunID:     uuid.NewString(),
		Source:    strings.Join(files, ", "),
		Index:     g.indexer.Name(),
		StartedAt: time.Now().UTC(),
	}
	logger := g.logger.With("run_id", summary.RunID)
	logger.Info("starting product ingestion", "files", len(files), "index", summary.Index)

	err := g.run(ctx, summary, files, logger)
	g.finish(ctx, summary, err, logger)
	return summary, err
}

func (g *Ingester) run(ctx context.Context, summary *core.RunSummary, files []string, logger *slog.Logger) error {
	records, _ := LoadFiles(files, logger)
	summary.InputCount = len(records)

	products, skipped := Merge(records, g.minDescription, logger)
	summary.FilteredOut = skipped
	if len(products) == 0 {
		return ErrNoProducts
	}
	logger.Info("products normalized", "products", len(products), "skipped", skipped)

	if g.mergedOutput != "" {
		if err := WriteMerged(g.mergedOutput, products); err != nil {
			logger.Warn("failed to write merged catalog", "path", g.mergedOutput, "err", err)
		}
	}

	chunks := make([]core.Chunk, len(products))
	for i, p := range products {
		chunks[i] = core.Chunk{
			Text:     p.EmbeddingText(),
			Title:    p.Name,
			Position: i,
			Metadata: core.SourceMetadata{ElementID: p.ID},
		}
	}

	enricher := ingestion.NewEnricher(g.provider.Embedder(), g.config, g.progress, logger)
	enriched, warnings, err := enricher.Enrich(ctx, chunks)
	summary.EmbeddingFailures = len(warnings)
	if err != nil {
		return err
	}

	vectors := make([][]float32, len(products))
	for _, chunk := range enriched {
		vectors[chunk.Position] = chunk.Vector
	}

	now := g.now().UTC()
	docs := make([]index.Source, len(products))
	for i, p := range products {
		docs[i] = index.Source{ID: p.ID, Body: p.Document(now, vectors[i])}
	}

	logger.Info("indexing products", "documents", len(docs))
	result, err := g.indexer.BulkIndexSources(ctx, docs)
	if err != nil {
		return err
	}

	summary.Accepted = result.Accepted
	summary.Rejected = result.Rejected
	summary.Rejections = result.Sample(index.MaxReportedFailures)
	for _, rej := range summary.Rejections {
		logger.Warn("product rejected", "id", rej.ID, "status", rej.Status, "reason", rej.Reason)
	}
	return nil
}

func (g *Ingester) finish(ctx context.Context, summary *core.RunSummary, runErr error, logger *slog.Logger) {
	summary.FinishedAt = time.Now().UTC()
	if runErr != nil {
		summary.Error = runErr.Error()
		logger.Error("product ingestion aborted", "err", runErr)
	} else {
		logger.Info("product ingestion complete",
			"records", summary.InputCount,
			"skipped", summary.FilteredOut,
			"embedding_failures", summary.EmbeddingFailures,
			"accepted", summary.Accepted,
			"rejected", summary.Rejected,
			"duration", summary.Duration())
	}

	if g.runs == nil {
		return
	}
	if err := g.runs.SaveRun(context.WithoutCancel(ctx), summary); err != nil {
		logger.Warn("failed to record run", "err", err)
	}
}

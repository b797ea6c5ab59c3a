package ingestion

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
)

// Pipeline runs the filter, embed, assemble and bulk index stages over the
// elements of one document. A run is synchronous and processes one chunk at a time.
type Pipeline struct {
	provider ai.AIProvider
	indexer  index.Indexer
	config   *Config
	runs     storage.RunRepository
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithRunRepository records every run summary in repo.
func WithRunRepository(repo storage.RunRepository) Option {
	return func(p *Pipeline) error {
		p.runs = repo
		return nil
	}
}

// WithProgress writes a running embedding progress line to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline. A nil cfg means DefaultConfig().
func NewPipeline(provider ai.AIProvider, indexer index.Indexer, cfg *Config, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		provider: provider,
		indexer:  indexer,
		config:   cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "ingestion")
	return p, nil
}

// Run ingests the elements of one document into the index.
//
// source labels the run and is the source recorded on chunks whose element
// carries no filename; an empty source falls back to Config.DefaultSource.
// The summary is always returned, even when err is non-nil. Per-chunk
// embedding failures and per-document index rejections are counted in the
// summary. Errors are returned when no chunk survives filtering or
// embedding, when the bulk call fails as a whole, or when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, source string, elements []core.RawElement) (*core.RunSummary, error) {
	if source == "" {
		source = p.config.DefaultSource
	}

	summary := &core.RunSummary{
		RunID:      uuid.NewString(),
		Source:     source,
		Index:      p.indexer.Name(),
		StartedAt:  time.Now().UTC(),
		InputCount: len(elements),
	}
	logger := p.logger.With("run_id", summary.RunID, "source", source)
	logger.Info("starting ingestion", "elements", len(elements), "index", summary.Index)

	err := p.run(ctx, summary, elements, logger)
	p.finish(ctx, summary, err, logger)
	return summary, err
}

func (p *Pipeline) run(ctx context.Context, summary *core.RunSummary, elements []core.RawElement, logger *slog.Logger) error {
	filter := NewChunkFilter(p.config.MinChunkLength, summary.Source, logger)
	chunks, skipped := filter.Filter(elements)
	summary.FilteredOut = skipped
	if len(chunks) == 0 {
		return ErrNoValidChunks
	}

	enricher := NewEnricher(p.provider.Embedder(), p.config, p.progress, logger)
	enriched, warnings, err := enricher.Enrich(ctx, chunks)
	summary.EmbeddingFailures = len(warnings)
	if err != nil {
		return err
	}
	if len(enriched) == 0 {
		return ErrNoEmbeddedChunks
	}

	docs := AssembleAll(enriched, p.config.IDPrefix)
	result := &index.BulkResult{}
	valid := make([]core.IndexDocument, 0, len(docs))
	for i := range docs {
		if err := core.ValidateIndexDocument(&docs[i]); err != nil {
			result.Reject(core.Rejection{ID: docs[i].ID, Reason: err.Error()})
			continue
		}
		valid = append(valid, docs[i])
	}

	logger.Info("indexing documents", "documents", len(valid))
	bulk, err := p.indexer.BulkIndex(ctx, valid)
	if err != nil {
		return err
	}

	summary.Accepted = bulk.Accepted
	summary.Rejected = result.Rejected + bulk.Rejected
	for _, rej := range bulk.Failures {
		result.Reject(rej)
	}
	summary.Rejections = result.Sample(index.MaxReportedFailures)

	for _, rej := range summary.Rejections {
		logger.Warn("document rejected", "id", rej.ID, "status", rej.Status, "reason", rej.Reason)
	}
	return nil
}

func (p *Pipeline) finish(ctx context.Context, summary *core.RunSummary, runErr error, logger *slog.Logger) {
	summary.FinishedAt = time.Now().UTC()
	if runErr != nil {
		summary.Error = runErr.Error()
		logger.Error("ingestion aborted", "err", runErr)
	} else {
		logger.Info("ingestion complete",
			"elements", summary.InputCount,
			"filtered_out", summary.FilteredOut,
			"embedding_failures", summary.EmbeddingFailures,
			"accepted", summary.Accepted,
			"rejected", summary.Rejected,
			"duration", summary.Duration())
	}

	if p.runs == nil {
		return
	}
	// The run outcome stands even when ctx was cancelled mid-run.
	saveCtx := context.WithoutCancel(ctx)
	if err := p.runs.SaveRun(saveCtx, summary); err != nil {
		logger.Warn("failed to record run", "err", err)
	}
}

package enterprisesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/ai/cached"
	"github.com/betloreilly/AI-powered-Enterprise-Search/ai/openai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/chunking"
	"github.com/betloreilly/AI-powered-Enterprise-Search/config"
	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
	blevex "github.com/betloreilly/AI-powered-Enterprise-Search/index/bleve"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index/opensearch"
	"github.com/betloreilly/AI-powered-Enterprise-Search/ingestion"
	"github.com/betloreilly/AI-powered-Enterprise-Search/products"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage"
	"github.com/betloreilly/AI-powered-Enterprise-Search/storage/badger"
)

// Service ingests support documents and product catalogs into the configured
// search indexes. It owns the local state store, the embedding provider, the
// indexers and the worker pool used by IngestFiles, and must be closed when no
// longer needed.
type Service struct {
	settings *config.Settings
	backend  *badger.Backend
	runs     storage.RunRepository
	cache    storage.EmbeddingCache
	provider ai.AIProvider
	indexer  index.Indexer
	local    *blevex.Indexer
	source   chunking.Source

	productsMu sync.Mutex
	products   index.SourceIndexer

	pool     *ants.Pool
	progress io.Writer
	base     *slog.Logger
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	provider ai.AIProvider
	indexer  index.Indexer
	products index.SourceIndexer
	source   chunking.Source
	logger   *slog.Logger
	poolSize int
	progress io.Writer
}

// WithProvider replaces the OpenAI embedding provider.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithIndexer replaces the index selected by the backend setting.
func WithIndexer(indexer index.Indexer) Option {
	return func(o *serviceOptions) {
		o.indexer = indexer
	}
}

// WithProductIndexer replaces the product index selected by the backend setting.
func WithProductIndexer(indexer index.SourceIndexer) Option {
	return func(o *serviceOptions) {
		o.products = indexer
	}
}

// WithSource replaces the chunking service client, e.g. with a chunking.FileSource.
func WithSource(source chunking.Source) Option {
	return func(o *serviceOptions) {
		o.source = source
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithPoolSize sets how many documents IngestFiles processes at once.
// Default is 1.
func WithPoolSize(size int) Option {
	return func(o *serviceOptions) {
		o.poolSize = size
	}
}

// WithProgress writes embedding progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(o *serviceOptions) {
		o.progress = w
	}
}

// NewService validates settings and opens every component.
// The chunking service key is only required when no source is supplied.
func NewService(settings *config.Settings, opts ...Option) (*Service, error) {
	if settings == nil {
		return nil, ErrSettingsRequired
	}

	options := &serviceOptions{poolSize: 1}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.poolSize < 1 {
		options.poolSize = 1
	}

	if err := settings.Validate(options.source == nil); err != nil {
		return nil, err
	}

	logger := options.logger
	s := &Service{
		settings: settings,
		products: options.products,
		progress: options.progress,
		base:     logger,
		logger:   logger.With("component", "service"),
	}

	backend, err := badger.OpenBackend(settings.StatePath(), false, logger)
	if err != nil {
		return nil, err
	}
	s.backend = backend
	s.runs = badger.NewRunRepository(backend)
	s.cache = badger.NewEmbeddingCache(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(settings.AIConfig())
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	s.provider = cached.NewProvider(provider, s.cache, settings.OpenAI.CacheSize, logger)

	s.indexer = options.indexer
	if s.indexer == nil {
		s.indexer, err = openIndexer(settings, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	s.local, _ = s.indexer.(*blevex.Indexer)

	s.source = options.source
	if s.source == nil {
		clientOpts := append(settings.UnstructuredOptions(), chunking.WithClientLogger(logger))
		s.source, err = chunking.NewClient(settings.Unstructured.APIKey, clientOpts...)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	s.pool, err = ants.NewPool(options.poolSize)
	if err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func openIndexer(settings *config.Settings, logger *slog.Logger) (index.Indexer, error) {
	if settings.Backend == config.BackendBleve {
		return blevex.NewIndexer(settings.LocalIndexPath(), settings.OpenSearch.Index, logger)
	}
	return opensearch.NewIndexer(settings.OpenSearchConfig(), logger)
}

func openProductIndexer(settings *config.Settings, logger *slog.Logger) (index.SourceIndexer, error) {
	if settings.Backend == config.BackendBleve {
		return blevex.NewProductIndexer(settings.LocalProductIndexPath(), settings.OpenSearch.ProductIndex, logger)
	}
	return opensearch.NewIndexer(settings.ProductOpenSearchConfig(), logger)
}

// productIndexer opens the product index on first use.
func (s *Service) productIndexer() (index.SourceIndexer, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	if s.products == nil {
		idx, err := openProductIndexer(s.settings, s.base)
		if err != nil {
			return nil, err
		}
		s.products = idx
	}
	return s.products, nil
}

// Verify checks that the target index exists. Creating the index is out of
// scope for this tool, so a missing index is an error.
func (s *Service) Verify(ctx context.Context) error {
	return s.verify(ctx, s.indexer)
}

func (s *Service) verify(ctx context.Context, idx index.Indexer) error {
	ok, err := idx.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify index %s: %w", idx.Name(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s (create it with the vector mapping before ingesting)", index.ErrIndexNotFound, idx.Name())
	}
	s.logger.Info("index verified", "index", idx.Name())
	return nil
}

// IngestFile chunks the document at path and runs the ingestion pipeline over it.
// The run is labelled with the document the source reports for path, falling
// back to the configured document path for replayed elements files.
// The summary is nil only when the document could not be chunked.
func (s *Service) IngestFile(ctx context.Context, path string) (*core.RunSummary, error) {
	elements, err := s.source.Elements(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk %s: %w", path, err)
	}
	s.logger.Info("document chunked", "path", path, "elements", len(elements))

	pipeline, err := ingestion.NewPipeline(s.provider, s.indexer, s.settings.IngestionConfig(),
		ingestion.WithLogger(s.base),
		ingestion.WithRunRepository(s.runs),
		ingestion.WithProgress(s.progress),
	)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, s.source.Document(path), elements)
}

// IngestFiles ingests each document as an independent run on the worker pool.
// Summaries are returned in the order of paths. The error joins every failed run.
func (s *Service) IngestFiles(ctx context.Context, paths []string) ([]*core.RunSummary, error) {
	summaries := make([]*core.RunSummary, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			summaries[i], errs[i] = s.IngestFile(ctx, path)
			if errs[i] != nil {
				errs[i] = fmt.Errorf("%s: %w", path, errs[i])
			}
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("%s: failed to schedule: %w", path, err)
		}
	}
	wg.Wait()

	return summaries, errors.Join(errs...)
}

// IngestProducts merges the product catalogs at files, embeds each product and
// writes the result to the product index as one run. An empty files uses the
// configured catalogs. The summary is nil only when the product index could
// not be opened or verified.
func (s *Service) IngestProducts(ctx context.Context, files []string) (*core.RunSummary, error) {
	idx, err := s.productIndexer()
	if err != nil {
		return nil, err
	}
	if err := s.verify(ctx, idx); err != nil {
		return nil, err
	}

	if len(files) == 0 {
		files = s.settings.Products.Files
	}

	ingester, err := products.NewIngester(s.provider, idx, s.settings.IngestionConfig(),
		products.WithLogger(s.base),
		products.WithRunRepository(s.runs),
		products.WithProgress(s.progress),
		products.WithMinDescriptionLength(s.settings.Products.MinDescriptionLength),
		products.WithMergedOutput(s.settings.Products.MergedOutput),
	)
	if err != nil {
		return nil, err
	}
	return ingester.Run(ctx, files)
}

// SearchProducts runs a keyword query against the local Bleve product index.
func (s *Service) SearchProducts(ctx context.Context, query string, limit int) ([]blevex.Hit, error) {
	idx, err := s.productIndexer()
	if err != nil {
		return nil, err
	}
	local, ok := idx.(*blevex.Indexer)
	if !ok {
		return nil, ErrSearchUnsupported
	}
	return local.Search(ctx, query, limit)
}

// Runs returns up to limit recorded runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]*core.RunSummary, error) {
	return s.runs.ListRuns(ctx, limit)
}

// Search runs a keyword query against the local Bleve index.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]blevex.Hit, error) {
	if s.local == nil {
		return nil, ErrSearchUnsupported
	}
	return s.local.Search(ctx, query, limit)
}

// IndexName returns the name of the target index.
func (s *Service) IndexName() string {
	return s.indexer.Name()
}

// Close releases the worker pool and closes the provider, the indexers and the
// state store. It returns the first error encountered and logs the rest.
func (s *Service) Close() error {
	var firstErr error
	keep := func(what string, err error) {
		if err == nil {
			return
		}
		s.logger.Error("error closing "+what, "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if s.pool != nil {
		s.pool.Release()
	}
	if s.provider != nil {
		keep("AI provider", s.provider.Close())
	}
	if s.indexer != nil {
		keep("indexer", s.indexer.Close())
	}
	if s.products != nil {
		keep("product indexer", s.products.Close())
	}
	if s.runs != nil {
		keep("run repository", s.runs.Close())
	}
	if s.cache != nil {
		keep("embedding cache", s.cache.Close())
	}
	if s.backend != nil {
		keep("backend storage", s.backend.Close())
	}
	return firstErr
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betloreilly/AI-powered-Enterprise-Search/ai"
	"github.com/betloreilly/AI-powered-Enterprise-Search/chunking"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index/opensearch"
	"github.com/betloreilly/AI-powered-Enterprise-Search/ingestion"
	"github.com/betloreilly/AI-powered-Enterprise-Search/products"
)

// DefaultProductIndex is the index product catalogs are written to.
const DefaultProductIndex = "lexora_products"

// Index backends
const (
	BackendOpenSearch = "opensearch"
	BackendBleve      = "bleve"
)

// Environment variables read by Load
const (
	EnvOpenSearchHost     = "OPENSEARCH_HOST"
	EnvOpenSearchIndex    = "SUPPORT_KNOWLEDGE_INDEX"
	EnvProductIndex       = "PRODUCT_INDEX"
	EnvOpenSearchUsername = "OPENSEARCH_USERNAME"
	EnvOpenSearchPassword = "OPENSEARCH_PASSWORD"
	EnvOpenAIKey          = "OPENAI_API_KEY"
	EnvOpenAIModel        = "OPENAI_MODEL"
	EnvEmbeddingDimension = "EMBEDDING_DIMENSION"
	EnvUnstructuredKey    = "UNSTRUCTURED_API_KEY"
	EnvDocumentPath       = "SUPPORT_DOCUMENT_PATH"
	EnvMinChunkLength     = "MIN_CHUNK_LENGTH"
	EnvIndexBackend       = "INDEX_BACKEND"
	EnvStateDir           = "STATE_DIR"
)

// Settings is the complete configuration of the ingestion tool.
type Settings struct {
	OpenSearch   OpenSearchSettings   `yaml:"opensearch"`
	OpenAI       OpenAISettings       `yaml:"openai"`
	Unstructured UnstructuredSettings `yaml:"unstructured"`
	Ingestion    IngestionSettings    `yaml:"ingestion"`
	Storage      StorageSettings      `yaml:"storage"`
	Products     ProductSettings      `yaml:"products"`

	// Backend selects the index: "opensearch" or "bleve".
	Backend string `yaml:"backend"`
}

// OpenSearchSettings locates the search cluster and the target index.
type OpenSearchSettings struct {
	Host               string        `yaml:"host"`
	Index              string        `yaml:"index"`
	ProductIndex       string        `yaml:"product_index"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Compress           bool          `yaml:"compress"`
	Timeout            time.Duration `yaml:"timeout"`
}

// OpenAISettings configures the embedding provider.
type OpenAISettings struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`

	// CacheSize is the number of embeddings kept in memory.
	CacheSize int `yaml:"cache_size"`
}

// UnstructuredSettings configures the document chunking service.
type UnstructuredSettings struct {
	APIKey        string        `yaml:"api_key"`
	Endpoint      string        `yaml:"endpoint"`
	MaxCharacters int           `yaml:"max_characters"`
	Overlap       int           `yaml:"overlap"`
	Timeout       time.Duration `yaml:"timeout"`
}

// IngestionSettings tunes filtering, embedding and document identity.
type IngestionSettings struct {
	DocumentPath       string        `yaml:"document_path"`
	EmbeddingDimension int           `yaml:"embedding_dimension"`
	MinChunkLength     int           `yaml:"min_chunk_length"`
	IDPrefix           string        `yaml:"id_prefix"`
	RequestDelay       time.Duration `yaml:"request_delay"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ProgressInterval   int           `yaml:"progress_interval"`
}

// StorageSettings locates local state.
type StorageSettings struct {
	// StateDir holds the run ledger, the embedding cache and the local index.
	StateDir string `yaml:"state_dir"`
}

// ProductSettings configures product catalog ingestion.
type ProductSettings struct {
	// Files are the catalogs merged in order; missing files are skipped.
	Files []string `yaml:"files"`

	MinDescriptionLength int `yaml:"min_description_length"`

	// MergedOutput, when set, receives the normalized catalog.
	MergedOutput string `yaml:"merged_output"`
}

// Defaults returns the built-in settings. Credentials have no defaults.
func Defaults() *Settings {
	osCfg := opensearch.DefaultConfig()
	aiCfg := ai.DefaultConfig()
	ing := ingestion.DefaultConfig()

	return &Settings{
		OpenSearch: OpenSearchSettings{
			Host:               osCfg.Addresses[0],
			Index:              osCfg.Index,
			ProductIndex:       DefaultProductIndex,
			InsecureSkipVerify: osCfg.InsecureSkipVerify,
			Compress:           osCfg.CompressRequestBody,
			Timeout:            osCfg.Timeout,
		},
		OpenAI: OpenAISettings{
			BaseURL:   aiCfg.EmbeddingHost,
			Model:     aiCfg.EmbeddingModel,
			Timeout:   aiCfg.Timeout,
			CacheSize: 1000,
		},
		Unstructured: UnstructuredSettings{
			Endpoint:      chunking.DefaultEndpoint,
			MaxCharacters: chunking.DefaultMaxCharacters,
			Overlap:       chunking.DefaultOverlap,
			Timeout:       chunking.DefaultTimeout,
		},
		Ingestion: IngestionSettings{
			DocumentPath:       ing.DefaultSource,
			EmbeddingDimension: ing.EmbeddingDimension,
			MinChunkLength:     ing.MinChunkLength,
			IDPrefix:           ing.IDPrefix,
			RequestDelay:       ing.RequestDelay,
			RequestTimeout:     ing.RequestTimeout,
			ProgressInterval:   ing.ProgressInterval,
		},
		Storage: StorageSettings{
			StateDir: ".lexora",
		},
		Products: ProductSettings{
			Files: []string{
				"scripts/additional_products.json",
				"scripts/sample_products.json",
				"scripts/premium_products.json",
			},
			MinDescriptionLength: products.DefaultMinDescriptionLength,
		},
		Backend: BackendOpenSearch,
	}
}

// Load builds Settings from the defaults, the YAML file at path (skipped when
// path is empty) and env (skipped when nil), in that order of precedence.
func Load(path string, env Env) (*Settings, error) {
	s := Defaults()

	if path != "" {
		if err := s.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := s.applyEnv(env); err != nil {
		return nil, err
	}

	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	return s, nil
}

// loadYAML overlays the keys present in the file onto s.
func (s *Settings) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv(env Env) error {
	if v, ok := env.get(EnvOpenSearchHost); ok {
		s.OpenSearch.Host = v
	}
	if v, ok := env.get(EnvOpenSearchIndex); ok {
		s.OpenSearch.Index = v
	}
	if v, ok := env.get(EnvProductIndex); ok {
		s.OpenSearch.ProductIndex = v
	}
	if v, ok := env.get(EnvOpenSearchUsername); ok {
		s.OpenSearch.Username = v
	}
	if v, ok := env.get(EnvOpenSearchPassword); ok {
		s.OpenSearch.Password = v
	}
	if v, ok := env.get(EnvOpenAIKey); ok {
		s.OpenAI.APIKey = v
	}
	if v, ok := env.get(EnvOpenAIModel); ok {
		s.OpenAI.Model = v
	}
	if v, ok := env.get(EnvUnstructuredKey); ok {
		s.Unstructured.APIKey = v
	}
	if v, ok := env.get(EnvDocumentPath); ok {
		s.Ingestion.DocumentPath = v
	}
	if v, ok := env.get(EnvIndexBackend); ok {
		s.Backend = v
	}
	if v, ok := env.get(EnvStateDir); ok {
		s.Storage.StateDir = v
	}

	if v, ok := env.get(EnvEmbeddingDimension); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidSetting, EnvEmbeddingDimension, v)
		}
		s.Ingestion.EmbeddingDimension = n
	}
	if v, ok := env.get(EnvMinChunkLength); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidSetting, EnvMinChunkLength, v)
		}
		s.Ingestion.MinChunkLength = n
	}
	return nil
}

// Validate checks that required credentials are present and values are in range.
// needChunker requires the chunking service key, which is only needed when
// elements come from the API rather than a saved elements file.
func (s *Settings) Validate(needChunker bool) error {
	if s.OpenAI.APIKey == "" {
		return fmt.Errorf("%w: %s", ErrMissingCredential, EnvOpenAIKey)
	}
	if needChunker && s.Unstructured.APIKey == "" {
		return fmt.Errorf("%w: %s", ErrMissingCredential, EnvUnstructuredKey)
	}

	switch s.Backend {
	case BackendOpenSearch, BackendBleve:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidSetting, s.Backend)
	}

	if s.Storage.StateDir == "" {
		return fmt.Errorf("%w: storage.state_dir is required", ErrInvalidSetting)
	}
	if s.OpenAI.CacheSize < 0 {
		return fmt.Errorf("%w: openai.cache_size cannot be negative", ErrInvalidSetting)
	}
	if s.OpenSearch.ProductIndex == "" {
		return fmt.Errorf("%w: opensearch.product_index is required", ErrInvalidSetting)
	}
	if s.Products.MinDescriptionLength < 0 {
		return fmt.Errorf("%w: products.min_description_length cannot be negative", ErrInvalidSetting)
	}

	if err := s.IngestionConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSetting, err)
	}
	if s.Backend == BackendOpenSearch {
		if err := s.OpenSearchConfig().Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSetting, err)
		}
	}
	return nil
}

// AIConfig returns the embedding provider configuration.
func (s *Settings) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(s.OpenAI.BaseURL),
		ai.WithAPIKey(s.OpenAI.APIKey),
		ai.WithEmbeddingModel(s.OpenAI.Model),
		ai.WithTimeout(s.OpenAI.Timeout),
	)
}

// IngestionConfig returns the pipeline configuration.
func (s *Settings) IngestionConfig() *ingestion.Config {
	return ingestion.NewConfig(
		ingestion.WithEmbeddingDimension(s.Ingestion.EmbeddingDimension),
		ingestion.WithMinChunkLength(s.Ingestion.MinChunkLength),
		ingestion.WithDefaultSource(s.Ingestion.DocumentPath),
		ingestion.WithIDPrefix(s.Ingestion.IDPrefix),
		ingestion.WithRequestDelay(s.Ingestion.RequestDelay),
		ingestion.WithRequestTimeout(s.Ingestion.RequestTimeout),
		ingestion.WithProgressInterval(s.Ingestion.ProgressInterval),
	)
}

// OpenSearchConfig returns the OpenSearch indexer configuration.
func (s *Settings) OpenSearchConfig() *opensearch.Config {
	return opensearch.NewConfig(
		opensearch.WithAddresses(s.OpenSearch.Host),
		opensearch.WithIndex(s.OpenSearch.Index),
		opensearch.WithBasicAuth(s.OpenSearch.Username, s.OpenSearch.Password),
		opensearch.WithInsecureSkipVerify(s.OpenSearch.InsecureSkipVerify),
		opensearch.WithCompression(s.OpenSearch.Compress),
		opensearch.WithTimeout(s.OpenSearch.Timeout),
	)
}

// ProductOpenSearchConfig returns the OpenSearch configuration for the product index.
func (s *Settings) ProductOpenSearchConfig() *opensearch.Config {
	cfg := s.OpenSearchConfig()
	cfg.Index = s.OpenSearch.ProductIndex
	return cfg
}

// UnstructuredOptions returns the chunking client options.
func (s *Settings) UnstructuredOptions() []chunking.ClientOption {
	return []chunking.ClientOption{
		chunking.WithEndpoint(s.Unstructured.Endpoint),
		chunking.WithChunking(s.Unstructured.MaxCharacters, s.Unstructured.Overlap),
		chunking.WithTimeout(s.Unstructured.Timeout),
	}
}

// StatePath returns the location of the state database.
func (s *Settings) StatePath() string {
	return filepath.Join(s.Storage.StateDir, "state")
}

// LocalIndexPath returns the location of the local Bleve index.
func (s *Settings) LocalIndexPath() string {
	return filepath.Join(s.Storage.StateDir, s.OpenSearch.Index+".bleve")
}

// LocalProductIndexPath returns the location of the local Bleve product index.
func (s *Settings) LocalProductIndexPath() string {
	return filepath.Join(s.Storage.StateDir, s.OpenSearch.ProductIndex+".bleve")
}

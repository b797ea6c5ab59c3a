// Package opensearch implements index.Indexer on an OpenSearch cluster.
//
// Documents are written with a single _bulk request whose NDJSON body pairs
// an index action keyed by the document ID with the document source.
// Per-item failures in the bulk response become rejections; a transport
// error or a failed request fails the whole call.
package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
	"github.com/betloreilly/AI-powered-Enterprise-Search/index"
)

// Indexer writes documents to one OpenSearch index.
type Indexer struct {
	client *opensearchapi.Client
	config *Config
	logger *slog.Logger
}

var _ index.SourceIndexer = (*Indexer)(nil)

// NewIndexer creates an Indexer. The config is validated and normalized before use.
// A nil logger means slog.Default().
func NewIndexer(config *Config, logger *slog.Logger) (*Indexer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: config.Addresses,
			Username:  config.Username,
			Password:  config.Password,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: config.InsecureSkipVerify},
			},
			CompressRequestBody: config.CompressRequestBody,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	return &Indexer{
		client: client,
		config: config,
		logger: logger.With("component", "opensearch", "index", config.Index),
	}, nil
}

// Name returns the target index name.
func (x *Indexer) Name() string {
	return x.config.Index
}

// Exists reports whether the target index exists.
func (x *Indexer) Exists(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, x.config.Timeout)
	defer cancel()

	resp, err := x.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{x.config.Index},
	})
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check index %s: %w", x.config.Index, err)
	}
	return resp.StatusCode == http.StatusOK, nil
}

// BulkIndex writes docs with one _bulk request.
func (x *Indexer) BulkIndex(ctx context.Context, docs []core.IndexDocument) (*index.BulkResult, error) {
	sources := make([]index.Source, len(docs))
	for i := range docs {
		sources[i] = index.Source{ID: docs[i].ID, Body: &docs[i]}
	}
	return x.BulkIndexSources(ctx, sources)
}

// BulkIndexSources writes docs with one _bulk request.
func (x *Indexer) BulkIndexSources(ctx context.Context, docs []index.Source) (*index.BulkResult, error) {
	result := &index.BulkResult{}
	if len(docs) == 0 {
		return result, nil
	}

	body, err := encodeBulkBody(docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrBulkFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, x.config.Timeout)
	defer cancel()

	x.logger.Info("bulk indexing", "documents", len(docs), "bytes", body.Len())

	resp, err := x.client.Bulk(ctx, opensearchapi.BulkReq{
		Index: x.config.Index,
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrBulkFailed, err)
	}

	for _, item := range resp.Items {
		for _, outcome := range item {
			if outcome.Error == nil && outcome.Status < 300 {
				result.Accepted++
				continue
			}

			rej := core.Rejection{ID: outcome.ID, Status: outcome.Status, Reason: "unknown error"}
			if outcome.Error != nil {
				rej.Type = outcome.Error.Type
				rej.Reason = outcome.Error.Reason
			}
			result.Reject(rej)
		}
	}

	x.logger.Info("bulk indexing complete", "accepted", result.Accepted, "rejected", result.Rejected, "took_ms", resp.Took)
	return result, nil
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (x *Indexer) Close() error {
	return nil
}

type bulkAction struct {
	Index struct {
		ID string `json:"_id"`
	} `json:"index"`
}

// encodeBulkBody builds the NDJSON body: one action line and one source line per document.
func encodeBulkBody(docs []index.Source) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for i := range docs {
		var action bulkAction
		action.Index.ID = docs[i].ID
		if err := enc.Encode(action); err != nil {
			return nil, err
		}
		if err := enc.Encode(docs[i].Body); err != nil {
			return nil, fmt.Errorf("document %s: %w", docs[i].ID, err)
		}
	}
	return &buf, nil
}

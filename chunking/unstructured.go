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

package chunking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/betloreilly/AI-powered-Enterprise-Search/core"
)

const (
	// DefaultEndpoint is the hosted Unstructured.io partition endpoint.
	DefaultEndpoint = "https://api.unstructuredapp.io/general/v0/general"

	// DefaultMaxCharacters is the largest chunk the service produces.
	DefaultMaxCharacters = 1000

	// DefaultOverlap is the number of characters shared by consecutive chunks.
	DefaultOverlap = 200

	// DefaultTimeout bounds a single partition request.
	DefaultTimeout = 5 * time.Minute

	apiKeyHeader = "unstructured-api-key"

	// Longest response body excerpt carried in an error
	maxErrorBody = 512
)

// Client calls the Unstructured.io partition API with by_title chunking.
type Client struct {
	apiKey        string
	endpoint      string
	maxCharacters int
	overlap       int
	timeout       time.Duration
	httpClient    *http.Client
	logger        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithEndpoint overrides the partition endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) error {
		if endpoint == "" {
			return fmt.Errorf("endpoint cannot be empty")
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithChunking sets the maximum chunk size and the overlap between chunks.
func WithChunking(maxCharacters, overlap int) ClientOption {
	return func(c *Client) error {
		if maxCharacters <= 0 {
			return fmt.Errorf("max characters must be positive")
		}
		if overlap < 0 || overlap >= maxCharacters {
			return fmt.Errorf("overlap must be in [0, %d)", maxCharacters)
		}
		c.maxCharacters = maxCharacters
		c.overlap = overlap
		return nil
	}
}

// WithTimeout sets the per-request timeout. It applies through the request
// context, so a client passed to WithHTTPClient is never modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a chunking service client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		apiKey:        apiKey,
		endpoint:      DefaultEndpoint,
		maxCharacters: DefaultMaxCharacters,
		overlap:       DefaultOverlap,
		timeout:       DefaultTimeout,
		httpClient:    &http.Client{},
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "unstructured")

	return c, nil
}

// Document returns path; the uploaded file is the document.
func (c *Client) Document(path string) string {
	return path
}

// Elements uploads the document at path and returns the elements produced by the service.
func (c *Client) Elements(ctx context.Context, path string) ([]core.RawElement, error) {
	body, contentType, err := c.buildForm(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	c.logger.Info("partitioning document", "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call chunking service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w (status %d): %s", ErrServiceResponse, resp.StatusCode, bytes.TrimSpace(excerpt))
	}

	elements, err := DecodeElements(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("received elements", "path", path, "count", len(elements), "duration", time.Since(start))
	return elements, nil
}

func (c *Client) buildForm(path string) (*bytes.Buffer, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := filepath.Base(path)
	fileType := mime.TypeByExtension(filepath.Ext(name))
	if fileType == "" {
		fileType = "text/markdown"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, name))
	h.Set("Content-Type", fileType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}

	fields := map[string]string{
		"chunking_strategy": "by_title",
		"max_characters":    strconv.Itoa(c.maxCharacters),
		"overlap":           strconv.Itoa(c.overlap),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

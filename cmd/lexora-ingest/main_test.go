package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/betloreilly/AI-powered-Enterprise-Search/config"
	"github.com/betloreilly/AI-powered-Enterprise-Search/products"
)

const elementsJSON = `[
  {"type": "CompositeElement", "element_id": "billing-1", "text": "Billing: invoices are generated on the first day of each month. Workspace owners can download invoices from the billing dashboard at any time.", "metadata": {"filename": "kb.md"}},
  {"type": "Title", "element_id": "short-1", "text": "Billing", "metadata": {"filename": "kb.md"}}
]`

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"lexora-ingest"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newEmbeddingServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, dim)
			vec[0] = float32(i + 1)
			data[i] = map[string]any{"object": "embedding", "embedding": vec, "index": i}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSetupLogger(t *testing.T) {
	_, err := runApp(t, "", "--log-level", "verbose", "keywords", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = runApp(t, "", "-l", "DEBUG", "keywords", "hello")
	assert.NoError(t, err)
}

func TestKeywordsCommand(t *testing.T) {
	out, err := runApp(t, "", "keywords", "Reset", "the", "password,", "then", "reset", "MFA")
	require.NoError(t, err)
	assert.Equal(t, "reset\npassword\nmfa\n", out)

	out, err = runApp(t, "Calendar sync calendar", "keywords")
	require.NoError(t, err)
	assert.Equal(t, "calendar\nsync\n", out)
}

func TestIngestCommand_MissingCredential(t *testing.T) {
	t.Setenv(config.EnvOpenAIKey, "")
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lexora.yaml", "backend: bleve\nstorage:\n  state_dir: "+filepath.Join(dir, "state")+"\n")
	elements := writeFile(t, dir, "kb.json", elementsJSON)

	_, err := runApp(t, "", "-c", cfg, "ingest", "-e", elements)
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}

func TestIngestCommand_UnknownBackend(t *testing.T) {
	t.Setenv(config.EnvOpenAIKey, "sk-test")
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lexora.yaml", "storage:\n  state_dir: "+filepath.Join(dir, "state")+"\n")

	_, err := runApp(t, "", "-c", cfg, "ingest", "--backend", "solr", "-e", "kb.json")
	assert.ErrorIs(t, err, config.ErrInvalidSetting)
}

func TestRunsCommand_Empty(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lexora.yaml", "storage:\n  state_dir: "+filepath.Join(dir, "state")+"\n")

	out, err := runApp(t, "", "-c", cfg, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestSearchCommand_RequiresQuery(t *testing.T) {
	_, err := runApp(t, "", "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is required")
}

func TestIngestRunsSearch(t *testing.T) {
	server := newEmbeddingServer(t, 4)
	dir := t.TempDir()

	cfg := writeFile(t, dir, "lexora.yaml", strings.Join([]string{
		"backend: bleve",
		"openai:",
		"  base_url: " + server.URL,
		"ingestion:",
		"  embedding_dimension: 4",
		"  request_delay: 0s",
		"storage:",
		"  state_dir: " + filepath.Join(dir, "state"),
	}, "\n"))
	env := writeFile(t, dir, "test.env", "OPENAI_API_KEY=sk-test\n")
	elements := writeFile(t, dir, "kb.json", elementsJSON)

	out, err := runApp(t, "", "-c", cfg, "--env-file", env, "ingest", "-e", elements)
	require.NoError(t, err)
	assert.Contains(t, out, "elements: 2  filtered out: 1  embedding failures: 0")
	assert.Contains(t, out, "accepted: 1  rejected: 0")

	out, err = runApp(t, "", "-c", cfg, "--env-file", env, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "index lexora_support is ready")

	out, err = runApp(t, "", "-c", cfg, "runs", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, elements)
	assert.Contains(t, out, "lexora_support")

	out, err = runApp(t, "", "-c", cfg, "search", "invoices")
	require.NoError(t, err)
	assert.Contains(t, out, "billing-1")
	assert.Contains(t, out, "Billing: invoices are generated")
}

const catalogJSON = `[
  {"id": "sku-1", "name": "Trail Jacket", "description": "Lightweight waterproof shell with taped seams for long mountain hikes.",
   "image_url": "https://cdn.example.com/sku-1.jpg", "category": "Outerwear", "brand": "Northline"},
  {"product_id": "sku-2", "title": "Rain Boot", "description": "Tall rubber boot with a lined shaft and a grippy sole for wet trails.",
   "product_images_urls": ["https://cdn.example.com/sku-2.jpg"], "category": "Footwear"},
  {"id": "sku-3", "name": "No Image", "description": "A product without an absolute image URL is skipped entirely.", "image_url": "sku-3.jpg"}
]`

func TestIngestProductsAndSearch(t *testing.T) {
	server := newEmbeddingServer(t, 4)
	dir := t.TempDir()

	cfg := writeFile(t, dir, "lexora.yaml", strings.Join([]string{
		"backend: bleve",
		"openai:",
		"  base_url: " + server.URL,
		"ingestion:",
		"  embedding_dimension: 4",
		"  request_delay: 0s",
		"storage:",
		"  state_dir: " + filepath.Join(dir, "state"),
	}, "\n"))
	env := writeFile(t, dir, "test.env", "OPENAI_API_KEY=sk-test\nPRODUCT_INDEX=catalog\n")
	catalog := writeFile(t, dir, "additional_products.json", catalogJSON)
	merged := filepath.Join(dir, "products_merged.json")

	out, err := runApp(t, "", "-c", cfg, "--env-file", env, "ingest-products", "-f", catalog, "--merged-out", merged)
	require.NoError(t, err)
	assert.Contains(t, out, "-> catalog")
	assert.Contains(t, out, "elements: 3  filtered out: 1  embedding failures: 0")
	assert.Contains(t, out, "accepted: 2  rejected: 0")
	assert.FileExists(t, merged)

	out, err = runApp(t, "", "-c", cfg, "--env-file", env, "search", "--products", "rubber boot")
	require.NoError(t, err)
	assert.Contains(t, out, "sku-2")
	assert.Contains(t, out, "Rain Boot")

	out, err = runApp(t, "", "-c", cfg, "--env-file", env, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, catalog)
}

func TestIngestProductsCommand_NoCatalogs(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "lexora.yaml", strings.Join([]string{
		"backend: bleve",
		"storage:",
		"  state_dir: " + filepath.Join(dir, "state"),
	}, "\n"))
	env := writeFile(t, dir, "test.env", "OPENAI_API_KEY=sk-test\n")

	out, err := runApp(t, "", "-c", cfg, "--env-file", env, "ingest-products", "-f", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, products.ErrNoProducts)
	assert.Contains(t, out, "error:")
}

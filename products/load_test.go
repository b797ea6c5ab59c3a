package products

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDecodeCatalog(t *testing.T) {
	records, err := DecodeCatalog(strings.NewReader(`[{"id": 12345678901234567890, "price": 19.90}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, json.Number("12345678901234567890"), records[0]["id"])
	assert.Equal(t, json.Number("19.90"), records[0]["price"])

	_, err = DecodeCatalog(strings.NewReader(`{"id": 1}`))
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeCatalog(t, dir, "additional_products.json", `[{"id": "a"}, {"id": "b"}]`)
	broken := writeCatalog(t, dir, "sample_products.json", `[{"id": `)
	second := writeCatalog(t, dir, "premium_products.json", `[{"product_id": "c"}]`)
	missing := filepath.Join(dir, "missing.json")

	records, read := LoadFiles([]string{first, missing, broken, second}, nil)
	assert.Equal(t, 2, read)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0]["id"])
	assert.Equal(t, "c", records[2]["product_id"])
}

func TestMerge(t *testing.T) {
	records := []map[string]any{
		{"id": "sku-1", "name": "Trail Jacket", "description": jacketDescription, "image_url": "https://x/1.jpg"},
		{"id": "sku-2", "name": "Bad Image", "description": jacketDescription, "image_url": "ftp://x/2.jpg"},
		{"product_id": "sku-1", "title": "Duplicate", "description": jacketDescription, "product_images_urls": []any{"https://x/1b.jpg"}},
		{"product_id": "sku-3", "title": "Rain Boot", "description": jacketDescription, "product_images_urls": []any{"https://x/3.jpg"}},
		{"sku": "unknown"},
	}

	products, skipped := Merge(records, DefaultMinDescriptionLength, nil)
	assert.Equal(t, 3, skipped)
	require.Len(t, products, 2)
	assert.Equal(t, "sku-1", products[0].ID)
	assert.Equal(t, "Trail Jacket", products[0].Name)
	assert.Equal(t, "sku-3", products[1].ID)
}

func TestWriteMerged(t *testing.T) {
	p, err := Normalize(map[string]any{
		"id": "sku-1", "name": "Trail Jacket", "description": jacketDescription, "image_url": "https://x/1.jpg",
	}, DefaultMinDescriptionLength)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "products_merged.json")
	require.NoError(t, WriteMerged(path, []*Product{p}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := DecodeCatalog(f)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sku-1", records[0]["product_id"])
	assert.Equal(t, "in_stock", records[0]["availability_status"])

	assert.Error(t, WriteMerged(filepath.Join(t.TempDir(), "missing", "out.json"), []*Product{p}))
}

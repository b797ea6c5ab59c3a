package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// DecodeCatalog decodes a JSON array of product records. Numbers are kept as
// json.Number so IDs and prices are written back exactly as read.
func DecodeCatalog(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return records, nil
}

// LoadFiles reads the catalogs at paths in order and concatenates their records.
// Missing and undecodable files are logged and skipped. It returns the records
// and the number of files read.
func LoadFiles(paths []string, logger *slog.Logger) ([]map[string]any, int) {
	if logger == nil {
		logger = slog.Default()
	}

	var records []map[string]any
	read := 0
	for _, path := range paths {
		loaded, err := loadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("catalog not found, skipping", "path", path)
			continue
		}
		if err != nil {
			logger.Warn("failed to load catalog, skipping", "path", path, "err", err)
			continue
		}
		logger.Info("loaded catalog", "path", path, "products", len(loaded))
		records = append(records, loaded...)
		read++
	}
	return records, read
}

func loadFile(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCatalog(f)
}

// Merge normalizes records and drops the ones that fail normalization or
// repeat an ID seen earlier. The first occurrence of an ID wins. It returns
// the products in input order and the number of records dropped.
func Merge(records []map[string]any, minDescription int, logger *slog.Logger) ([]*Product, int) {
	if logger == nil {
		logger = slog.Default()
	}

	products := make([]*Product, 0, len(records))
	seen := make(map[string]bool, len(records))
	skipped := 0

	for i, record := range records {
		p, err := Normalize(record, minDescription)
		if err != nil {
			logger.Warn("skipping product", "position", i, "err", err)
			skipped++
			continue
		}
		if seen[p.ID] {
			logger.Warn("skipping duplicate product", "id", p.ID)
			skipped++
			continue
		}
		seen[p.ID] = true
		products = append(products, p)
	}
	return products, skipped
}

// WriteMerged writes the normalized products as an indented JSON array to path.
func WriteMerged(path string, products []*Product) error {
	fields := make([]map[string]any, len(products))
	for i, p := range products {
		fields[i] = p.Fields
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode merged products: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write merged products: %w", err)
	}
	return nil
}

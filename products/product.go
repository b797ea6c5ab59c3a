package products

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMinDescriptionLength is the shortest description, in characters, a product may have.
const DefaultMinDescriptionLength = 40

// Defaults applied to products that do not carry the field
const (
	defaultAvailability = "in_stock"
	defaultRating       = 4.7
)

// Product is a catalog record normalized to the unified schema.
type Product struct {
	ID                  string
	Name                string
	Description         string
	SemanticDescription string
	Category            string
	Brand               string
	ImageURL            string

	// Fields holds every source field with the unified keys applied.
	// It is the body written to the index.
	Fields map[string]any
}

// Normalize maps a raw catalog record onto the unified schema.
//
// Two source schemas are recognized: {id, name, image_url} and
// {product_id, title, product_images_urls}. The record is rejected when
// neither matches, when it has no http(s) image URL, or when its trimmed
// description is shorter than minDescription characters. Unknown fields are
// kept as they are.
func Normalize(raw map[string]any, minDescription int) (*Product, error) {
	var id, name, imageURL string

	switch {
	case has(raw, "id") && has(raw, "name"):
		id = stringValue(raw["id"])
		name = stringValue(raw["name"])
		imageURL, _ = raw["image_url"].(string)
	case has(raw, "product_id") && has(raw, "title"):
		id = stringValue(raw["product_id"])
		name = stringValue(raw["title"])
		imageURL = firstString(raw["product_images_urls"])
	default:
		return nil, ErrUnknownSchema
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrUnknownSchema)
	}

	description := stringValue(raw["description"])

	if !strings.HasPrefix(imageURL, "http") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImageURL, id)
	}
	if utf8.RuneCountInString(strings.TrimSpace(description)) < minDescription {
		return nil, fmt.Errorf("%w: %s", ErrDescriptionTooShort, id)
	}

	fields := maps.Clone(raw)
	fields["id"] = id
	if !has(fields, "product_id") {
		fields["product_id"] = id
	}
	fields["name"] = name
	if !has(fields, "title") {
		fields["title"] = name
	}
	fields["description"] = description
	fields["image_url"] = imageURL
	if firstString(fields["product_images_urls"]) == "" {
		fields["product_images_urls"] = []any{imageURL}
	}
	if _, ok := fields["availability_status"]; !ok {
		fields["availability_status"] = defaultAvailability
	}
	if _, ok := fields["rating"]; !ok {
		fields["rating"] = defaultRating
	}

	return &Product{
		ID:                  id,
		Name:                name,
		Description:         description,
		SemanticDescription: stringValue(raw["semantic_description"]),
		Category:            stringValue(raw["category"]),
		Brand:               stringValue(raw["brand"]),
		ImageURL:            imageURL,
		Fields:              fields,
	}, nil
}

// EmbeddingText returns the text embedded for the product: name, description,
// semantic description, category and brand, separated by spaces.
func (p *Product) EmbeddingText() string {
	return fmt.Sprintf("%s %s %s %s %s", p.Name, p.Description, p.SemanticDescription, p.Category, p.Brand)
}

// Document returns the index body for the product, stamped with now.
// The text vector is added only when present.
func (p *Product) Document(now time.Time, vector []float32) map[string]any {
	doc := maps.Clone(p.Fields)
	stamp := now.Format(time.RFC3339)
	doc["created_at"] = stamp
	doc["updated_at"] = stamp
	if len(vector) > 0 {
		doc["text_embedding_vector"] = vector
	}
	return doc
}

func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// stringValue renders identifiers and text fields that may arrive as numbers.
func stringValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func firstString(v any) string {
	switch urls := v.(type) {
	case []any:
		if len(urls) > 0 {
			s, _ := urls[0].(string)
			return s
		}
	case []string:
		if len(urls) > 0 {
			return urls[0]
		}
	}
	return ""
}

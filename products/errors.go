package products

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrIndexerRequired is returned when an indexer is not provided.
	ErrIndexerRequired = errors.New("indexer required")

	// ErrUnknownSchema is returned for a record that matches no catalog schema.
	ErrUnknownSchema = errors.New("unknown product schema")

	// ErrInvalidImageURL is returned for a product without an http(s) image URL.
	ErrInvalidImageURL = errors.New("invalid image url")

	// ErrDescriptionTooShort is returned for a product whose description is below the minimum length.
	ErrDescriptionTooShort = errors.New("description too short")

	// ErrNoProducts is returned when no product survives loading and normalization.
	ErrNoProducts = errors.New("no valid products")
)

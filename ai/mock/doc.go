// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.AIProvider
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Deterministic vectors of a chosen dimension
//	mockEmbedder := mock.NewMockEmbedder(mock.WithDimension(1536))
//
//	// Custom behavior injection
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("rate limited")
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProvider: Wraps a MockEmbedder with a fixed model name
package mock

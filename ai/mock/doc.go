// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.TextGenerator, ai.Embedder,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	text, err := mockProvider.TextGenerator().Complete(ctx, "prompt", 128, 0.0)
//
//	// Custom behavior injection
//	mockGen := mock.NewMockTextGenerator()
//	mockGen.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
//	    return `["acme competitors"]`, nil
//	}
//
//	// Check call counts
//	count := mockGen.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockTextGenerator: Echoes a deterministic JSON list derived from the prompt
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProvider: Aggregates mock generator and embedder
package mock

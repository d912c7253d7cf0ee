package ai

import "context"

// TextGenerator produces free-form text completions.
// It is used for search query generation only; callers must tolerate failure
// and should invoke it with a short timeout.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// Complete generates a completion for the prompt.
	// maxTokens bounds the response length; temperature controls sampling.
	// Returns an error if the generation fails or the context is cancelled.
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages TextGenerator and Embedder
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// TextGenerator returns the completion service.
	// The returned TextGenerator is safe for concurrent use.
	TextGenerator() TextGenerator

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

package mock

import (
	"context"
	"strings"
)

// MockTextGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields.
type MockTextGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default deterministic behavior.
	CompleteFunc func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)

	callCount int
}

// NewMockTextGenerator creates a mock text generator with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockTextGenerator().
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{}
}

// Complete returns a deterministic completion.
// Default behavior: a JSON array holding the first line of the prompt,
// which is enough for query-generation parsing in tests.
func (m *MockTextGenerator) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, maxTokens, temperature)
	}

	line := prompt
	if idx := strings.IndexByte(prompt, '\n'); idx >= 0 {
		line = prompt[:idx]
	}
	line = strings.ReplaceAll(strings.TrimSpace(line), `"`, "")
	return `["` + line + `"]`, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockTextGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTextGenerator) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}

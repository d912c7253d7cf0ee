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


package mock

import "github.com/poiesic/peerscope/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock text generator and embedder instances.
type MockProvider struct {
	generator *MockTextGenerator
	embedder  *MockEmbedder
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockTextGenerator()/GetMockEmbedder() to access concrete types for
// test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		generator: NewMockTextGenerator(),
		embedder:  NewMockEmbedder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(generator *MockTextGenerator, embedder *MockEmbedder) ai.Provider {
	return &MockProvider{
		generator: generator,
		embedder:  embedder,
	}
}

// TextGenerator returns the mock text generator.
func (p *MockProvider) TextGenerator() ai.TextGenerator {
	return p.generator
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockTextGenerator returns the underlying mock generator for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockTextGenerator() *MockTextGenerator {
	return p.generator
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}
